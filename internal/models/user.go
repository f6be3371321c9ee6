package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                    // 主键
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`    // 用户名（登录凭据）
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`       // 邮箱（激活邮件收件地址）
	PasswordHash       string         `gorm:"not null" json:"-"`                       // 密码哈希（不返回给前端）
	IsActive           bool           `gorm:"not null;default:false" json:"is_active"` // 是否已通过邮箱激活
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`             // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                          // 该时间点前签发的 Token 失效
	ActivatedAt        *time.Time     `json:"activated_at"`                            // 激活时间
	LastLoginAt        *time.Time     `json:"last_login_at"`                           // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
