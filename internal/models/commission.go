package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission 佣金记录，(conversion_event_id, level) 唯一约束保证重复计算幂等
type Commission struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                                         // 主键
	ConversionEventID uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"conversion_event_id"` // 转化事件
	Level             int            `gorm:"not null;index:idx_commission_unique,unique" json:"level"`                     // 层级（1-3）
	BeneficiaryUserID uint           `gorm:"not null;index" json:"beneficiary_user_id"`                                    // 受益用户
	AffiliateCodeID   uint           `gorm:"not null;index" json:"affiliate_code_id"`                                      // 受益用户的推广码
	SourceUserID      uint           `gorm:"not null;index" json:"source_user_id"`                                         // 产生转化的下级用户
	ProductID         uint           `gorm:"not null;index" json:"product_id"`                                             // 成交商品
	SaleAmountCents   int64          `gorm:"not null;default:0" json:"sale_amount_cents"`                                  // 佣金基数（分）
	RatePercent       Money          `gorm:"type:decimal(5,2);not null;default:0" json:"rate_percent"`                     // 佣金比例（百分比）
	AmountCents       int64          `gorm:"not null;default:0" json:"amount_cents"`                                       // 佣金金额（分）
	Status            string         `gorm:"type:varchar(20);not null;index" json:"status"`                                // pending/confirmed/paid
	ConfirmAt         *time.Time     `gorm:"index" json:"confirm_at,omitempty"`                                            // 待确认到期时间
	ConfirmedAt       *time.Time     `json:"confirmed_at,omitempty"`                                                       // 实际确认时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                                      // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                                   // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                               // 软删除时间

	Beneficiary User    `gorm:"foreignKey:BeneficiaryUserID" json:"beneficiary,omitempty"` // 受益用户
	Product     Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`             // 成交商品
}

// TableName 指定表名
func (Commission) TableName() string {
	return "commissions"
}
