package public

import (
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

type withdrawRequest struct {
	AffiliateCode string `json:"affiliate_code" binding:"required"`
	AmountCents   int64  `json:"amount_cents" binding:"required"`
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// Withdraw 发起提现申请
func (h *Handler) Withdraw(c *gin.Context) {
	var req withdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	withdrawal, err := h.withdrawalService.Request(service.WithdrawRequestInput{
		AffiliateCode: req.AffiliateCode,
		AmountCents:   req.AmountCents,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		respondWithMappedError(c, err, withdrawErrorRules)
		return
	}
	response.Success(c, gin.H{
		"withdrawal_id":    withdrawal.ID,
		"fee_cents":        withdrawal.FeeCents,
		"net_amount_cents": withdrawal.NetAmountCents,
		"status":           withdrawal.Status,
	})
}

type cancelWithdrawalRequest struct {
	AffiliateCode string `json:"affiliate_code" binding:"required"`
}

// CancelWithdrawal 取消 pending 提现
func (h *Handler) CancelWithdrawal(c *gin.Context) {
	withdrawalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || withdrawalID == 0 {
		response.BadRequest(c, "invalid_request", "invalid withdrawal id")
		return
	}
	var req cancelWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	withdrawal, err := h.withdrawalService.Cancel(uint(withdrawalID), req.AffiliateCode)
	if err != nil {
		respondWithMappedError(c, err, withdrawErrorRules)
		return
	}
	response.Success(c, withdrawal)
}

// ListWithdrawals 查询推广码的提现历史
func (h *Handler) ListWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	withdrawals, total, err := h.withdrawalService.ListByCode(c.Param("code"), repository.WithdrawalListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondWithMappedError(c, err, codeResolveErrorRules)
		return
	}
	response.SuccessWithPage(c, withdrawals, response.NewPagination(page, pageSize, total))
}
