package models

import (
	"time"

	"gorm.io/gorm"
)

// AffiliateCode 推广码（每个用户恰好一个，佣金与余额均挂在码上）
type AffiliateCode struct {
	ID        uint           `gorm:"primarykey" json:"id"`                              // 主键
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`               // 所属用户
	Code      string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"` // 对外推广码
	Status    string         `gorm:"type:varchar(20);not null;index" json:"status"`     // active/disabled/frozen
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 所属用户
}

// TableName 指定表名
func (AffiliateCode) TableName() string {
	return "affiliate_codes"
}
