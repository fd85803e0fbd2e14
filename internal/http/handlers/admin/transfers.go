package admin

import (
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListTransfers 分页查询转账记录
func (h *Handler) ListTransfers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	codeID, _ := strconv.ParseUint(c.Query("code_id"), 10, 64)

	transfers, total, err := h.transferService.List(repository.TransferListFilter{
		Page:     page,
		PageSize: pageSize,
		CodeID:   uint(codeID),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, transfers, response.NewPagination(page, pageSize, total))
}
