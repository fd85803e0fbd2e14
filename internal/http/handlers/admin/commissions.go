package admin

import (
	"strconv"
	"time"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCommissions 分页查询佣金记录
func (h *Handler) ListCommissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	codeID, _ := strconv.ParseUint(c.Query("affiliate_code_id"), 10, 64)
	level, _ := strconv.Atoi(c.Query("level"))

	commissions, total, err := h.commissionService.List(repository.CommissionListFilter{
		Page:            page,
		PageSize:        pageSize,
		AffiliateCodeID: uint(codeID),
		Level:           level,
		Status:          c.Query("status"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, commissions, response.NewPagination(page, pageSize, total))
}

// ConfirmDueCommissions 手动触发到期佣金确认
func (h *Handler) ConfirmDueCommissions(c *gin.Context) {
	confirmed, err := h.commissionService.ConfirmDueCommissions(time.Now())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, gin.H{"confirmed": confirmed})
}
