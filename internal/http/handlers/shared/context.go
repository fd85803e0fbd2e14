package shared

import (
	"github.com/nivelup-next/internal/models"

	"github.com/gin-gonic/gin"
)

// ContextKeyAdmin 管理员对象在 gin Context 中的键
const ContextKeyAdmin = "admin"

// AdminFromContext 从上下文提取已认证管理员
func AdminFromContext(c *gin.Context) *models.Admin {
	value, ok := c.Get(ContextKeyAdmin)
	if !ok {
		return nil
	}
	admin, ok := value.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
