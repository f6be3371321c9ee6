package models

import (
	"time"

	"gorm.io/gorm"
)

// GoodsType 商品分类表
type GoodsType struct {
	ID        uint           `gorm:"primarykey" json:"id"`                 // 主键
	Name      string         `gorm:"type:varchar(20);not null" json:"name"` // 分类名称
	Logo      string         `gorm:"type:varchar(64)" json:"logo"`         // 分类标识图标
	Image     string         `gorm:"type:varchar(256)" json:"image"`       // 分类展示图片
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`    // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (GoodsType) TableName() string {
	return "goods_types"
}
