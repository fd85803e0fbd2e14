package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal 提现申请，pending 即预占余额，终态不可再变更
type Withdrawal struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                             // 主键
	AffiliateCodeID      uint           `gorm:"not null;index" json:"affiliate_code_id"`          // 申请人的推广码
	RequestedAmountCents int64          `gorm:"not null" json:"requested_amount_cents"`           // 申请金额（分）
	FeeCents             int64          `gorm:"not null;default:0" json:"fee_cents"`              // 手续费（分），申请时刻定格
	NetAmountCents       int64          `gorm:"not null;default:0" json:"net_amount_cents"`       // 实际打款金额（分）
	WalletAddress        string         `gorm:"type:varchar(64);not null" json:"wallet_address"`  // 收款钱包地址
	Network              string         `gorm:"type:varchar(16);not null" json:"network"`         // 打款网络（TRC20）
	Status               string         `gorm:"type:varchar(20);not null;index" json:"status"`    // pending/paid/rejected
	RejectReason         string         `gorm:"type:varchar(255)" json:"reject_reason,omitempty"` // 拒绝/取消原因
	ProcessedBy          *uint          `gorm:"index" json:"processed_by,omitempty"`              // 审核管理员
	ProcessedAt          *time.Time     `json:"processed_at,omitempty"`                           // 审核时间
	PaidAt               *time.Time     `json:"paid_at,omitempty"`                                // 打款时间
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                          // 申请时间
	UpdatedAt            time.Time      `json:"updated_at"`                                       // 更新时间
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                   // 软删除时间

	AffiliateCode AffiliateCode `gorm:"foreignKey:AffiliateCodeID" json:"affiliate_code,omitempty"` // 申请人的推广码
}

// TableName 指定表名
func (Withdrawal) TableName() string {
	return "withdrawals"
}
