package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（课程/服务），各层级佣金比例以商品配置为准
type Product struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                              // 主键
	Slug                string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`                // 唯一标识
	Name                string         `gorm:"type:varchar(200);not null" json:"name"`                            // 商品名称
	Kind                string         `gorm:"type:varchar(20);not null;index" json:"kind"`                       // course/service
	PriceCents          int64          `gorm:"not null;default:0" json:"price_cents"`                             // 售价（分）
	CommissionPercentL1 Money          `gorm:"type:decimal(5,2);not null;default:0" json:"commission_percent_l1"` // 一级佣金比例
	CommissionPercentL2 Money          `gorm:"type:decimal(5,2);not null;default:0" json:"commission_percent_l2"` // 二级佣金比例
	CommissionPercentL3 Money          `gorm:"type:decimal(5,2);not null;default:0" json:"commission_percent_l3"` // 三级佣金比例
	IsActive            bool           `gorm:"not null;default:true;index" json:"is_active"`                      // 是否上架
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                        // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                                    // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PercentForLevel 返回指定层级的佣金比例，层级越界返回零值
func (p Product) PercentForLevel(level int) Money {
	switch level {
	case 1:
		return p.CommissionPercentL1
	case 2:
		return p.CommissionPercentL2
	case 3:
		return p.CommissionPercentL3
	default:
		return Money{}
	}
}
