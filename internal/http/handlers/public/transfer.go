package public

import (
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

type transferRequest struct {
	OriginCode      string `json:"origin_code" binding:"required"`
	DestinationCode string `json:"destination_code" binding:"required"`
	AmountCents     int64  `json:"amount_cents" binding:"required"`
	Remark          string `json:"remark"`
}

// Transfer 码间余额转账
func (h *Handler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	transfer, err := h.transferService.Transfer(service.TransferInput{
		OriginCode:      req.OriginCode,
		DestinationCode: req.DestinationCode,
		AmountCents:     req.AmountCents,
		Remark:          req.Remark,
	})
	if err != nil {
		respondWithMappedError(c, err, transferErrorRules)
		return
	}
	response.Success(c, gin.H{
		"transfer_id": transfer.ID,
		"status":      transfer.Status,
	})
}

// ListTransfers 查询推广码相关的转账历史
func (h *Handler) ListTransfers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	transfers, total, err := h.transferService.ListByCode(c.Param("code"), repository.TransferListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondWithMappedError(c, err, codeResolveErrorRules)
		return
	}
	response.SuccessWithPage(c, transfers, response.NewPagination(page, pageSize, total))
}
