package constants

// 推广码状态常量
const (
	AffiliateCodeStatusActive   = "active"
	AffiliateCodeStatusDisabled = "disabled"
	AffiliateCodeStatusFrozen   = "frozen"
)

// 漏斗事件类型常量
const (
	FunnelEventKindClick      = "click"
	FunnelEventKindLead       = "lead"
	FunnelEventKindConversion = "conversion"
)

// 商品类型常量
const (
	ProductKindCourse  = "course"
	ProductKindService = "service"
)

// 佣金状态常量
const (
	CommissionStatusPending   = "pending"
	CommissionStatusConfirmed = "confirmed"
	CommissionStatusPaid      = "paid"
)

// 提现状态常量
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusPaid     = "paid"
	WithdrawalStatusRejected = "rejected"
)

// 提现审核动作常量
const (
	WithdrawalActionPay    = "pay"
	WithdrawalActionReject = "reject"
)

// 用户主动取消提现时写入 reject_reason 的固定值
const WithdrawalRejectReasonCanceled = "canceled_by_user"

// 转账状态常量
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// 提现打款网络常量
const WithdrawalNetworkTRC20 = "TRC20"

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 佣金结算层级上限，更深的上级关系存在但不计酬
const MaxCommissionLevels = 3

// 公开商品目录首页的缓存键，商品写操作后失效
const ProductCatalogCacheKey = "products:catalog"

// 异步任务类型常量
const (
	TaskCommissionCalculate = "commission:calculate"
)

// 队列名称常量
const (
	QueueDefault = "default"
)
