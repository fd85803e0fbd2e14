package admin

import (
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListWithdrawals 分页查询提现申请
func (h *Handler) ListWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	codeID, _ := strconv.ParseUint(c.Query("affiliate_code_id"), 10, 64)

	withdrawals, total, err := h.withdrawalService.List(repository.WithdrawalListFilter{
		Page:            page,
		PageSize:        pageSize,
		AffiliateCodeID: uint(codeID),
		Status:          c.Query("status"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, withdrawals, response.NewPagination(page, pageSize, total))
}

type reviewWithdrawalRequest struct {
	Action string `json:"action" binding:"required"` // pay / reject
	Reason string `json:"reason"`
}

// ReviewWithdrawal 审核 pending 提现
func (h *Handler) ReviewWithdrawal(c *gin.Context) {
	withdrawalID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || withdrawalID == 0 {
		response.BadRequest(c, "invalid_request", "invalid withdrawal id")
		return
	}
	var req reviewWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	admin := shared.AdminFromContext(c)
	if admin == nil {
		response.Unauthorized(c, "unauthorized", "admin not authenticated")
		return
	}

	withdrawal, err := h.withdrawalService.Review(uint(withdrawalID), admin.ID, req.Action, req.Reason)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, withdrawal)
}
