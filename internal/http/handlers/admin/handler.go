package admin

import (
	"errors"

	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 管理端接口处理器
type Handler struct {
	authService       *service.AuthService
	codeService       *service.AffiliateCodeService
	commissionService *service.CommissionService
	ledgerService     *service.LedgerService
	withdrawalService *service.WithdrawalService
	transferService   *service.TransferService
	productService    *service.ProductService
	userService       *service.UserService
}

// NewHandler 创建管理端接口处理器
func NewHandler(
	authService *service.AuthService,
	codeService *service.AffiliateCodeService,
	commissionService *service.CommissionService,
	ledgerService *service.LedgerService,
	withdrawalService *service.WithdrawalService,
	transferService *service.TransferService,
	productService *service.ProductService,
	userService *service.UserService,
) *Handler {
	return &Handler{
		authService:       authService,
		codeService:       codeService,
		commissionService: commissionService,
		ledgerService:     ledgerService,
		withdrawalService: withdrawalService,
		transferService:   transferService,
		productService:    productService,
		userService:       userService,
	}
}

// mappedHandlerError 业务错误到响应的映射项
type mappedHandlerError struct {
	target error
	code   int
	reason string
}

var adminCommonErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, reason: "not_found"},
	{target: service.ErrCodeStatusInvalid, code: response.CodeBadRequest, reason: "invalid_status"},
	{target: service.ErrUserStatusInvalid, code: response.CodeBadRequest, reason: "invalid_status"},
	{target: service.ErrWithdrawalNotPending, code: response.CodeConflict, reason: "withdrawal_not_pending"},
	{target: service.ErrWithdrawalActionInvalid, code: response.CodeBadRequest, reason: "invalid_action"},
	{target: service.ErrIntegrityViolation, code: response.CodeUnprocessable, reason: "integrity_violation"},
	{target: service.ErrSlugTaken, code: response.CodeConflict, reason: "slug_taken"},
	{target: service.ErrProductInputInvalid, code: response.CodeBadRequest, reason: "invalid_product"},
	{target: service.ErrProductKindInvalid, code: response.CodeBadRequest, reason: "invalid_product_kind"},
	{target: service.ErrPercentOutOfRange, code: response.CodeBadRequest, reason: "percent_out_of_range"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, reason: "invalid_amount"},
}

func respondAdminError(c *gin.Context, err error) {
	for _, rule := range adminCommonErrorRules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.reason, err.Error())
			return
		}
	}
	response.Error(c, response.CodeInternal, "internal_error", "internal error")
}
