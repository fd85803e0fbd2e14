package models

import "time"

// FunnelEvent 漏斗事件（click/lead/conversion 三态归因记录）
type FunnelEvent struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                                                    // 主键
	AffiliateCodeID uint      `gorm:"not null;index;index:idx_funnel_event_unique,unique" json:"affiliate_code_id"`            // 归属推广码
	TrackingID      string    `gorm:"type:varchar(64);not null;index;index:idx_funnel_event_unique,unique" json:"tracking_id"` // 访客追踪标识
	Kind            string    `gorm:"type:varchar(20);not null;index;index:idx_funnel_event_unique,unique" json:"kind"`        // 事件类型
	ConvertedUserID *uint     `gorm:"index" json:"converted_user_id,omitempty"`                                                // 转化用户（lead/conversion）
	ProductID       *uint     `gorm:"index" json:"product_id,omitempty"`                                                       // 关联商品（conversion）
	SaleAmountCents int64     `gorm:"not null;default:0" json:"sale_amount_cents"`                                             // 成交金额（分）
	UTMSource       string    `gorm:"type:varchar(100)" json:"utm_source"`                                                     // 流量来源
	UTMMedium       string    `gorm:"type:varchar(100)" json:"utm_medium"`                                                     // 流量媒介
	UTMCampaign     string    `gorm:"type:varchar(100)" json:"utm_campaign"`                                                   // 推广活动
	Referrer        string    `gorm:"type:varchar(500)" json:"referrer"`                                                       // 来源页面
	UserAgent       string    `gorm:"type:varchar(500)" json:"-"`                                                              // UA
	Device          string    `gorm:"type:varchar(20)" json:"device"`                                                          // 设备类型
	ClientIP        string    `gorm:"type:varchar(64)" json:"-"`                                                               // 客户端 IP
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                                                 // 创建时间
}

// TableName 指定表名
func (FunnelEvent) TableName() string {
	return "funnel_events"
}
