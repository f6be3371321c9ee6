package repository

import (
	"errors"

	"github.com/dailyfresh-next/internal/models"

	"gorm.io/gorm"
)

// GoodsTypeRepository 商品分类数据访问接口
type GoodsTypeRepository interface {
	List() ([]models.GoodsType, error)
	GetByID(id uint) (*models.GoodsType, error)
	Create(goodsType *models.GoodsType) error
}

// GormGoodsTypeRepository GORM 实现
type GormGoodsTypeRepository struct {
	db *gorm.DB
}

// NewGoodsTypeRepository 创建商品分类仓库
func NewGoodsTypeRepository(db *gorm.DB) *GormGoodsTypeRepository {
	return &GormGoodsTypeRepository{db: db}
}

// List 获取全部分类
func (r *GormGoodsTypeRepository) List() ([]models.GoodsType, error) {
	var types []models.GoodsType
	if err := r.db.Order("sort_order asc, id asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// GetByID 根据 ID 获取分类
func (r *GormGoodsTypeRepository) GetByID(id uint) (*models.GoodsType, error) {
	var goodsType models.GoodsType
	if err := r.db.First(&goodsType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goodsType, nil
}

// Create 创建分类
func (r *GormGoodsTypeRepository) Create(goodsType *models.GoodsType) error {
	return r.db.Create(goodsType).Error
}
