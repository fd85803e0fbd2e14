package public

import "github.com/nivelup-next/internal/service"

// Handler 公开接口处理器
type Handler struct {
	trackerService    *service.TrackerService
	referralService   *service.ReferralService
	ledgerService     *service.LedgerService
	withdrawalService *service.WithdrawalService
	transferService   *service.TransferService
	productService    *service.ProductService
}

// NewHandler 创建公开接口处理器
func NewHandler(
	trackerService *service.TrackerService,
	referralService *service.ReferralService,
	ledgerService *service.LedgerService,
	withdrawalService *service.WithdrawalService,
	transferService *service.TransferService,
	productService *service.ProductService,
) *Handler {
	return &Handler{
		trackerService:    trackerService,
		referralService:   referralService,
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
		transferService:   transferService,
		productService:    productService,
	}
}
