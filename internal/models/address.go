package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 收货地址表
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`          // 用户ID
	Receiver  string         `gorm:"type:varchar(20);not null" json:"receiver"` // 收件人
	Addr      string         `gorm:"type:varchar(256);not null" json:"addr"`    // 收件地址
	ZipCode   string         `gorm:"type:varchar(6)" json:"zip_code"`        // 邮政编码
	Phone     string         `gorm:"type:varchar(11);not null" json:"phone"` // 联系电话
	IsDefault bool           `gorm:"not null;default:false" json:"is_default"` // 是否默认地址（每用户至多一个）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
