package admin

import (
	"errors"
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCodes 分页查询推广码
func (h *Handler) ListCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	codes, total, err := h.codeService.ListWithOwners(repository.AffiliateCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     c.Query("code"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, codes, response.NewPagination(page, pageSize, total))
}

type updateCodeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCodeStatus 更新推广码状态
func (h *Handler) UpdateCodeStatus(c *gin.Context) {
	codeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || codeID == 0 {
		response.BadRequest(c, "invalid_request", "invalid code id")
		return
	}
	var req updateCodeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	code, err := h.codeService.UpdateStatus(uint(codeID), req.Status)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, code)
}

// ReconcileCode 对推广码执行账务完整性校验
func (h *Handler) ReconcileCode(c *gin.Context) {
	codeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || codeID == 0 {
		response.BadRequest(c, "invalid_request", "invalid code id")
		return
	}

	balance, err := h.ledgerService.Reconcile(uint(codeID))
	if err != nil {
		if errors.Is(err, service.ErrIntegrityViolation) {
			response.Error(c, response.CodeUnprocessable, "integrity_violation", err.Error())
			return
		}
		respondAdminError(c, err)
		return
	}
	response.Success(c, gin.H{"balance_cents": balance})
}
