package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	ReferrerID  uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AffiliateCodeListFilter 查询推广码列表的过滤条件
type AffiliateCodeListFilter struct {
	Page     int
	PageSize int
	Code     string
	UserID   uint
	Status   string
}

// FunnelEventListFilter 查询漏斗事件列表的过滤条件
type FunnelEventListFilter struct {
	Page            int
	PageSize        int
	AffiliateCodeID uint
	Kind            string
	TrackingID      string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Kind       string
	Search     string
	OnlyActive bool
}

// CommissionListFilter 查询佣金列表的过滤条件
type CommissionListFilter struct {
	Page              int
	PageSize          int
	AffiliateCodeID   uint
	BeneficiaryUserID uint
	SourceUserID      uint
	Level             int
	Status            string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
}

// WithdrawalListFilter 查询提现列表的过滤条件
type WithdrawalListFilter struct {
	Page            int
	PageSize        int
	AffiliateCodeID uint
	Status          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// TransferListFilter 查询转账列表的过滤条件
type TransferListFilter struct {
	Page        int
	PageSize    int
	CodeID      uint // 同时匹配转出与转入
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
