package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                       // 主键
	OrderNo      string         `gorm:"uniqueIndex;not null" json:"order_no"`                       // 订单编号
	UserID       uint           `gorm:"index;not null" json:"user_id"`                              // 用户ID
	AddressID    uint           `gorm:"index;not null" json:"address_id"`                           // 收货地址ID
	PayMethod    int            `gorm:"not null" json:"pay_method"`                                 // 支付方式（1 货到付款 2 微信 3 支付宝 4 银联）
	TotalCount   int            `gorm:"not null;default:0" json:"total_count"`                      // 商品总件数
	TotalPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`   // 商品总金额
	TransitPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"transit_price"` // 运费
	Status       int            `gorm:"index;not null;default:1" json:"status"`                     // 订单状态
	TradeNo      string         `gorm:"type:varchar(128)" json:"trade_no,omitempty"`                // 支付流水号（支付回调写入）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	Goods   []OrderGoods `gorm:"foreignKey:OrderID" json:"goods,omitempty"`     // 订单商品行
	Address *Address     `gorm:"foreignKey:AddressID" json:"address,omitempty"` // 收货地址关联
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// TotalPay 实付金额 = 商品总金额 + 运费
func (o Order) TotalPay() Money {
	return o.TotalPrice.AddMoney(o.TransitPrice)
}
