package models

import (
	"time"

	"gorm.io/gorm"
)

// Transfer 码间余额转账，completed 后不可变更
type Transfer struct {
	ID                uint           `gorm:"primarykey" json:"id"`                          // 主键
	OriginCodeID      uint           `gorm:"not null;index" json:"origin_code_id"`          // 转出推广码
	DestinationCodeID uint           `gorm:"not null;index" json:"destination_code_id"`     // 转入推广码
	AmountCents       int64          `gorm:"not null" json:"amount_cents"`                  // 转账金额（分）
	Status            string         `gorm:"type:varchar(20);not null;index" json:"status"` // pending/completed/failed
	Remark            string         `gorm:"type:varchar(255)" json:"remark,omitempty"`     // 备注
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`                        // 完成时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间

	OriginCode      AffiliateCode `gorm:"foreignKey:OriginCodeID" json:"origin_code,omitempty"`           // 转出推广码
	DestinationCode AffiliateCode `gorm:"foreignKey:DestinationCodeID" json:"destination_code,omitempty"` // 转入推广码
}

// TableName 指定表名
func (Transfer) TableName() string {
	return "transfers"
}
