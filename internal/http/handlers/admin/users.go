package admin

import (
	"strconv"

	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListUsers 分页查询用户
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	users, total, err := h.userService.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

type updateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateUserStatus 启用或停用用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		response.BadRequest(c, "invalid_request", "invalid user id")
		return
	}
	var req updateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	user, err := h.userService.UpdateStatus(uint(userID), req.Status)
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, user)
}
