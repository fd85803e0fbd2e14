package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（既是被推荐人，也可能是推荐人）
type User struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                // 主键
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // 邮箱
	DisplayName    string         `gorm:"type:varchar(100)" json:"display_name"`               // 展示名称
	Status         string         `gorm:"type:varchar(20);not null;index" json:"status"`       // 用户状态
	ReferrerUserID *uint          `gorm:"index" json:"referrer_user_id,omitempty"`             // 直接推荐人（推荐树父节点）
	TrackingID     string         `gorm:"type:varchar(64);index" json:"-"`                     // 注册时归因的追踪标识
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	Referrer *User `gorm:"foreignKey:ReferrerUserID" json:"-"` // 推荐人
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
