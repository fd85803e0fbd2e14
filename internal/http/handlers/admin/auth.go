package admin

import (
	"errors"

	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	token, admin, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid_credentials", "invalid username or password")
			return
		}
		response.Error(c, response.CodeInternal, "internal_error", "internal error")
		return
	}
	response.Success(c, gin.H{
		"token": token,
		"admin": admin,
	})
}
