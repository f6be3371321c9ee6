package repository

import (
	"errors"

	"github.com/dailyfresh-next/internal/constants"
	"github.com/dailyfresh-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoodsSKURepository 商品 SKU 数据访问接口
type GoodsSKURepository interface {
	GetByID(id uint) (*models.GoodsSKU, error)
	GetByIDForUpdate(tx *gorm.DB, id uint) (*models.GoodsSKU, error)
	ListByIDs(ids []uint) ([]models.GoodsSKU, error)
	ListByType(filter GoodsListFilter) ([]models.GoodsSKU, int64, error)
	ListNewestByType(typeID uint, limit int) ([]models.GoodsSKU, error)
	Search(keyword string, page, pageSize int) ([]models.GoodsSKU, int64, error)
	DecrementStock(tx *gorm.DB, id uint, count int) (bool, error)
	IncrementSales(tx *gorm.DB, id uint, count int) error
	Create(sku *models.GoodsSKU) error
	WithTx(tx *gorm.DB) GoodsSKURepository
}

// GormGoodsSKURepository GORM 实现
type GormGoodsSKURepository struct {
	db *gorm.DB
}

// NewGoodsSKURepository 创建商品 SKU 仓库
func NewGoodsSKURepository(db *gorm.DB) *GormGoodsSKURepository {
	return &GormGoodsSKURepository{db: db}
}

// WithTx 绑定事务
func (r *GormGoodsSKURepository) WithTx(tx *gorm.DB) GoodsSKURepository {
	if tx == nil {
		return r
	}
	return &GormGoodsSKURepository{db: tx}
}

// GetByID 根据 ID 获取 SKU
func (r *GormGoodsSKURepository) GetByID(id uint) (*models.GoodsSKU, error) {
	var sku models.GoodsSKU
	if err := r.db.Preload("Type").First(&sku, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

// GetByIDForUpdate 在事务中加行锁获取 SKU
func (r *GormGoodsSKURepository) GetByIDForUpdate(tx *gorm.DB, id uint) (*models.GoodsSKU, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	var sku models.GoodsSKU
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sku, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sku, nil
}

// ListByIDs 批量获取 SKU
func (r *GormGoodsSKURepository) ListByIDs(ids []uint) ([]models.GoodsSKU, error) {
	if len(ids) == 0 {
		return []models.GoodsSKU{}, nil
	}
	var skus []models.GoodsSKU
	if err := r.db.Where("id IN ?", ids).Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// ListByType 按分类分页获取 SKU 列表
func (r *GormGoodsSKURepository) ListByType(filter GoodsListFilter) ([]models.GoodsSKU, int64, error) {
	query := r.db.Model(&models.GoodsSKU{})
	if filter.TypeID > 0 {
		query = query.Where("type_id = ?", filter.TypeID)
	}
	if filter.OnlySale {
		query = query.Where("status = ?", constants.GoodsStatusOnline)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(goodsOrderBySort(filter.Sort))
	var skus []models.GoodsSKU
	if err := applyPagination(query, filter.Page, filter.PageSize).Find(&skus).Error; err != nil {
		return nil, 0, err
	}
	return skus, total, nil
}

// ListNewestByType 获取分类下最新上架的 SKU
func (r *GormGoodsSKURepository) ListNewestByType(typeID uint, limit int) ([]models.GoodsSKU, error) {
	if limit <= 0 {
		limit = 2
	}
	var skus []models.GoodsSKU
	if err := r.db.Where("type_id = ? AND status = ?", typeID, constants.GoodsStatusOnline).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// Search 按名称和描述关键字搜索上架 SKU
func (r *GormGoodsSKURepository) Search(keyword string, page, pageSize int) ([]models.GoodsSKU, int64, error) {
	condition, argCount := buildKeywordLikeCondition(r.db, []string{"name", "summary"})
	like := "%" + keyword + "%"
	query := r.db.Model(&models.GoodsSKU{}).
		Where("status = ?", constants.GoodsStatusOnline).
		Where(condition, repeatLikeArgs(like, argCount)...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var skus []models.GoodsSKU
	if err := applyPagination(query.Order("id desc"), page, pageSize).Find(&skus).Error; err != nil {
		return nil, 0, err
	}
	return skus, total, nil
}

// DecrementStock 条件扣减库存，库存不足时返回 false。
// sqlite 驱动不支持行锁，依赖 stock >= ? 的条件更新保证不超卖。
func (r *GormGoodsSKURepository) DecrementStock(tx *gorm.DB, id uint, count int) (bool, error) {
	if count <= 0 {
		return false, errors.New("decrement count must be positive")
	}
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.Model(&models.GoodsSKU{}).
		Where("id = ? AND stock >= ?", id, count).
		Update("stock", gorm.Expr("stock - ?", count))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IncrementSales 累加销量
func (r *GormGoodsSKURepository) IncrementSales(tx *gorm.DB, id uint, count int) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Model(&models.GoodsSKU{}).
		Where("id = ?", id).
		Update("sales", gorm.Expr("sales + ?", count)).Error
}

// Create 创建 SKU
func (r *GormGoodsSKURepository) Create(sku *models.GoodsSKU) error {
	return r.db.Create(sku).Error
}

func goodsOrderBySort(sort string) string {
	switch sort {
	case constants.GoodsSortPrice:
		return "price asc, id asc"
	case constants.GoodsSortHot:
		return "sales desc, id desc"
	default:
		return "id desc"
	}
}
