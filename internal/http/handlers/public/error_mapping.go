package public

import (
	"errors"

	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	reason string
}

// 公共规则：推广码解析类错误
var codeResolveErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, reason: "code_not_found"},
	{target: service.ErrCodeDisabled, code: response.CodeUnprocessable, reason: "code_disabled"},
	{target: service.ErrCodeFrozen, code: response.CodeUnprocessable, reason: "code_frozen"},
}

var trackErrorRules = append([]mappedHandlerError{
	{target: service.ErrMissingAttribution, code: response.CodeUnprocessable, reason: "missing_attribution"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, reason: "email_taken"},
	{target: service.ErrProductInactive, code: response.CodeUnprocessable, reason: "product_inactive"},
}, codeResolveErrorRules...)

var withdrawErrorRules = append([]mappedHandlerError{
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, reason: "invalid_amount"},
	{target: service.ErrBelowMinimum, code: response.CodeUnprocessable, reason: "below_minimum"},
	{target: service.ErrInvalidWalletFormat, code: response.CodeUnprocessable, reason: "invalid_wallet_format"},
	{target: service.ErrInsufficientBalance, code: response.CodeUnprocessable, reason: "insufficient_balance"},
	{target: service.ErrWithdrawalNotPending, code: response.CodeConflict, reason: "withdrawal_not_pending"},
}, codeResolveErrorRules...)

var transferErrorRules = append([]mappedHandlerError{
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, reason: "invalid_amount"},
	{target: service.ErrSelfTransfer, code: response.CodeUnprocessable, reason: "self_transfer"},
	{target: service.ErrInsufficientBalance, code: response.CodeUnprocessable, reason: "insufficient_balance"},
}, codeResolveErrorRules...)

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			response.Error(c, rule.code, rule.reason, err.Error())
			return
		}
	}
	response.Error(c, response.CodeInternal, "internal_error", "internal error")
}
