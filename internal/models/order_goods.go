package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderGoods 订单商品行表（下单时快照单价）
type OrderGoods struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID   uint           `gorm:"index;not null" json:"order_id"`                       // 订单ID
	SKUID     uint           `gorm:"column:sku_id;index;not null" json:"sku_id"`           // 商品SKU ID
	Count     int            `gorm:"not null" json:"count"`                                // 购买数量
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 下单时单价快照
	Comment   string         `gorm:"type:varchar(256)" json:"comment"`                     // 评价内容
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	SKU *GoodsSKU `gorm:"foreignKey:SKUID" json:"sku,omitempty"` // 关联SKU
}

// TableName 指定表名
func (OrderGoods) TableName() string {
	return "order_goods"
}

// Subtotal 行小计 = 单价 × 数量
func (g OrderGoods) Subtotal() Money {
	return g.Price.MulCount(g.Count)
}
