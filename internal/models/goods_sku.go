package models

import (
	"time"

	"gorm.io/gorm"
)

// GoodsSKU 商品 SKU 表（价格+库存+销量维度）
type GoodsSKU struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                    // 主键
	TypeID    uint           `gorm:"index;not null" json:"type_id"`                           // 分类ID
	Name      string         `gorm:"type:varchar(64);not null" json:"name"`                   // 商品名称
	Summary   string         `gorm:"type:varchar(256)" json:"summary"`                        // 商品简介
	Unit      string         `gorm:"type:varchar(20)" json:"unit"`                            // 销售单位（500g/份/盒）
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`     // 售价
	Stock     int            `gorm:"not null;default:0" json:"stock"`                         // 库存（下单时在事务内扣减，禁止为负）
	Sales     int            `gorm:"not null;default:0" json:"sales"`                         // 销量
	Image     string         `gorm:"type:varchar(256)" json:"image"`                          // 商品图片
	Status    int            `gorm:"not null;default:1;index" json:"status"`                  // 状态（0 下架 1 上架）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Type *GoodsType `gorm:"foreignKey:TypeID" json:"type,omitempty"` // 关联分类
}

// TableName 指定表名
func (GoodsSKU) TableName() string {
	return "goods_skus"
}
