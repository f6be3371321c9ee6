package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"time"

	"github.com/dailyfresh-next/internal/cache"
	"github.com/dailyfresh-next/internal/config"
	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/logger"
	"github.com/dailyfresh-next/internal/models"
	"github.com/dailyfresh-next/internal/queue"
	"github.com/dailyfresh-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务：提交页预览、下单事务、订单查询。
type OrderService struct {
	cfg          *config.Config
	orderRepo    repository.OrderRepository
	skuRepo      repository.GoodsSKURepository
	addressRepo  repository.AddressRepository
	cartStore    cache.CartStore
	queueClient  *queue.Client
	transitPrice models.Money
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	skuRepo repository.GoodsSKURepository,
	addressRepo repository.AddressRepository,
	cartStore cache.CartStore,
	queueClient *queue.Client,
) *OrderService {
	transit, err := models.NewMoneyFromString(cfg.Order.TransitPrice)
	if err != nil {
		logger.Warnw("运费配置无效，按 0 处理", "value", cfg.Order.TransitPrice, "error", err)
		transit = models.Money{}
	}
	return &OrderService{
		cfg:          cfg,
		orderRepo:    orderRepo,
		skuRepo:      skuRepo,
		addressRepo:  addressRepo,
		cartStore:    cartStore,
		queueClient:  queueClient,
		transitPrice: transit,
	}
}

// PreviewLine 提交页商品行
type PreviewLine struct {
	SKUID    uint         `json:"sku_id"`
	Name     string       `json:"name"`
	Image    string       `json:"image"`
	Unit     string       `json:"unit"`
	Price    models.Money `json:"price"`
	Count    int          `json:"count"`
	Subtotal models.Money `json:"subtotal"`
}

// OrderPreview 提交页数据
type OrderPreview struct {
	Lines        []PreviewLine    `json:"lines"`
	Addresses    []models.Address `json:"addresses"`
	TotalCount   int              `json:"total_count"`
	TotalPrice   models.Money     `json:"total_price"`
	TransitPrice models.Money     `json:"transit_price"`
	TotalPay     models.Money     `json:"total_pay"`
}

// CommitInput 下单参数
type CommitInput struct {
	AddressID uint
	PayMethod int
	SKUIDs    []uint
}

// CommitResult 下单结果
type CommitResult struct {
	OrderID  uint         `json:"order_id"`
	OrderNo  string       `json:"order_no"`
	TotalPay models.Money `json:"total_pay"`
}

// Preview 根据购物车中勾选的 SKU 构建订单提交页。
// 勾选的 SKU 必须仍在购物车中，否则视为参数不完整。
func (s *OrderService) Preview(ctx context.Context, userID uint, skuIDs []uint) (*OrderPreview, error) {
	if userID == 0 || len(skuIDs) == 0 {
		return nil, ErrIncompleteInput
	}

	entries, err := s.cartStore.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := resolveCartCounts(entries, skuIDs)
	if err != nil {
		return nil, err
	}

	orderedIDs := sortedSKUIDs(counts)
	skus, err := s.skuRepo.ListByIDs(orderedIDs)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[uint]*models.GoodsSKU, len(skus))
	for i := range skus {
		skuByID[skus[i].ID] = &skus[i]
	}

	preview := &OrderPreview{Lines: []PreviewLine{}, TransitPrice: s.transitPrice}
	for _, skuID := range orderedIDs {
		sku, ok := skuByID[skuID]
		if !ok || sku.Status != constants.GoodsStatusOnline {
			return nil, ErrGoodsNotFound
		}
		count := counts[skuID]
		subtotal := sku.Price.MulCount(count)
		preview.Lines = append(preview.Lines, PreviewLine{
			SKUID:    sku.ID,
			Name:     sku.Name,
			Image:    sku.Image,
			Unit:     sku.Unit,
			Price:    sku.Price,
			Count:    count,
			Subtotal: subtotal,
		})
		preview.TotalCount += count
		preview.TotalPrice = preview.TotalPrice.AddMoney(subtotal)
	}
	preview.TotalPay = preview.TotalPrice.AddMoney(preview.TransitPrice)

	addresses, err := s.addressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	preview.Addresses = addresses
	return preview, nil
}

// Commit 提交订单。
// 在单个数据库事务中：创建订单主记录，按 SKU ID 升序逐行加锁、校验库存、
// 扣减库存并写入价格快照，最后回填订单汇总。任一环节失败则整单回滚。
// 事务提交成功后再清理购物车，清理失败交给队列重试。
func (s *OrderService) Commit(ctx context.Context, userID uint, input CommitInput) (*CommitResult, error) {
	if userID == 0 || input.AddressID == 0 || len(input.SKUIDs) == 0 {
		return nil, ErrIncompleteInput
	}
	if !constants.IsPayMethodSupported(input.PayMethod) {
		return nil, ErrPayMethodInvalid
	}

	address, err := s.addressRepo.GetByIDAndUser(input.AddressID, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}

	entries, err := s.cartStore.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := resolveCartCounts(entries, input.SKUIDs)
	if err != nil {
		return nil, err
	}

	// 固定按 SKU ID 升序加锁，避免并发订单互相死锁
	orderedIDs := sortedSKUIDs(counts)

	order := &models.Order{
		OrderNo:      s.generateOrderNo(),
		UserID:       userID,
		AddressID:    address.ID,
		PayMethod:    input.PayMethod,
		Status:       constants.OrderStatusPendingPayment,
		TransitPrice: s.transitPrice,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		tx.SavePoint("after_header")

		totalCount := 0
		totalPrice := models.Money{}
		for _, skuID := range orderedIDs {
			count := counts[skuID]
			sku, err := s.skuRepo.GetByIDForUpdate(tx, skuID)
			if err != nil {
				tx.RollbackTo("after_header")
				return err
			}
			if sku == nil || sku.Status != constants.GoodsStatusOnline {
				tx.RollbackTo("after_header")
				return ErrGoodsNotFound
			}
			if count > sku.Stock {
				tx.RollbackTo("after_header")
				return ErrStockInsufficient
			}

			ok, err := s.skuRepo.DecrementStock(tx, skuID, count)
			if err != nil {
				tx.RollbackTo("after_header")
				return err
			}
			if !ok {
				tx.RollbackTo("after_header")
				return ErrStockInsufficient
			}
			if err := s.skuRepo.IncrementSales(tx, skuID, count); err != nil {
				tx.RollbackTo("after_header")
				return err
			}

			if err := orderRepo.CreateGoods(&models.OrderGoods{
				OrderID: order.ID,
				SKUID:   skuID,
				Count:   count,
				Price:   sku.Price,
			}); err != nil {
				tx.RollbackTo("after_header")
				return err
			}

			totalCount += count
			totalPrice = totalPrice.AddMoney(sku.Price.MulCount(count))
		}

		order.TotalCount = totalCount
		order.TotalPrice = totalPrice
		return orderRepo.UpdateTotals(order.ID, totalCount, totalPrice)
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		logger.Errorw("下单事务失败", "user_id", userID, "order_no", order.OrderNo, "error", err)
		return nil, ErrOrderCommitFailed
	}

	s.cleanupCart(ctx, userID, orderedIDs)

	return &CommitResult{
		OrderID:  order.ID,
		OrderNo:  order.OrderNo,
		TotalPay: order.TotalPay(),
	}, nil
}

// ListByUser 分页获取用户订单
func (s *OrderService) ListByUser(userID uint, page, pageSize, status int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrIncompleteInput
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   status,
	})
}

// GetByIDAndUser 获取订单详情
func (s *OrderService) GetByIDAndUser(id, userID uint) (*models.Order, error) {
	if id == 0 || userID == 0 {
		return nil, ErrIncompleteInput
	}
	order, err := s.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// cleanupCart 事务提交后清理购物车，失败时入队补偿。
func (s *OrderService) cleanupCart(ctx context.Context, userID uint, skuIDs []uint) {
	if err := s.cartStore.Del(ctx, userID, skuIDs...); err != nil {
		logger.Warnw("下单后清理购物车失败，转入队列重试", "user_id", userID, "sku_ids", skuIDs, "error", err)
		if s.queueClient.Enabled() {
			if err := s.queueClient.EnqueueCartCleanup(userID, skuIDs); err != nil {
				logger.Errorw("购物车清理任务入队失败", "user_id", userID, "error", err)
			}
		}
	}
}

// generateOrderNo 订单号：DF + 时间戳 + 6 位随机数字
func (s *OrderService) generateOrderNo() string {
	return "DF" + time.Now().Format("20060102150405") + randNumeric(6)
}

func randNumeric(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}

// resolveCartCounts 校验勾选的 SKU 均在购物车中并返回数量映射
func resolveCartCounts(entries map[uint]int, skuIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(skuIDs))
	for _, skuID := range skuIDs {
		if skuID == 0 {
			return nil, ErrIncompleteInput
		}
		count, ok := entries[skuID]
		if !ok || count <= 0 {
			return nil, ErrIncompleteInput
		}
		counts[skuID] = count
	}
	return counts, nil
}

func sortedSKUIDs(counts map[uint]int) []uint {
	ids := make([]uint, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func isBusinessError(err error) bool {
	for _, candidate := range []error{
		ErrIncompleteInput,
		ErrGoodsNotFound,
		ErrInvalidQuantity,
		ErrStockInsufficient,
		ErrPayMethodInvalid,
		ErrAddressNotFound,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
