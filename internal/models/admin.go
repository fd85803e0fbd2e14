package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台管理员账号
type Admin struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Username           string         `gorm:"uniqueIndex;not null" json:"username"`         // 登录账号
	PasswordHash       string         `gorm:"not null" json:"-"`                            // bcrypt 哈希，不出接口
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                  // 自增后旧 Token 全部失效
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                               // 早于该时刻签发的 Token 拒绝
	IsSuper            bool           `gorm:"not null;default:false;index" json:"is_super"` // 超级管理员绕过 RBAC
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
