package provider

import (
	"github.com/dailyfresh-next/internal/cache"
	"github.com/dailyfresh-next/internal/config"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/queue"
	"github.com/dailyfresh-next/internal/repository"
	"github.com/dailyfresh-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Redis 存储
	CartStore    cache.CartStore
	HistoryStore cache.HistoryStore

	// Repositories
	UserRepo      repository.UserRepository
	AddressRepo   repository.AddressRepository
	GoodsTypeRepo repository.GoodsTypeRepository
	GoodsSKURepo  repository.GoodsSKURepository
	OrderRepo     repository.OrderRepository

	// Services
	UserAuthService *service.UserAuthService
	EmailService    *service.EmailService
	AddressService  *service.AddressService
	CartService     *service.CartService
	OrderService    *service.OrderService
	CatalogService  *service.CatalogService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Redis 存储
	c.initStores()

	// 2. 初始化 Repositories
	c.initRepositories()

	// 3. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initStores() {
	c.CartStore = cache.NewRedisCartStore(cache.Client(), cache.Prefix())
	c.HistoryStore = cache.NewRedisHistoryStore(cache.Client(), cache.Prefix())
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.GoodsTypeRepo = repository.NewGoodsTypeRepository(db)
	c.GoodsSKURepo = repository.NewGoodsSKURepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email, &c.Config.Site)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.EmailService, c.QueueClient)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CartService = service.NewCartService(c.CartStore, c.GoodsSKURepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.GoodsSKURepo, c.AddressRepo, c.CartStore, c.QueueClient)
	c.CatalogService = service.NewCatalogService(c.GoodsTypeRepo, c.GoodsSKURepo, c.HistoryStore)
}
