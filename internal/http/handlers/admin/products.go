package admin

import (
	"strconv"

	"github.com/nivelup-next/internal/cache"
	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

// invalidateProductCatalog 商品写操作后使公开目录缓存失效
func invalidateProductCatalog(c *gin.Context) {
	if err := cache.Del(c.Request.Context(), constants.ProductCatalogCacheKey); err != nil {
		logger.Warnw("product_catalog_cache_invalidate_failed", "error", err)
	}
}

type productRequest struct {
	Slug                string       `json:"slug" binding:"required"`
	Name                string       `json:"name" binding:"required"`
	Kind                string       `json:"kind" binding:"required"`
	PriceCents          int64        `json:"price_cents"`
	CommissionPercentL1 models.Money `json:"commission_percent_l1"`
	CommissionPercentL2 models.Money `json:"commission_percent_l2"`
	CommissionPercentL3 models.Money `json:"commission_percent_l3"`
	IsActive            *bool        `json:"is_active"`
}

func (req productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Slug:                req.Slug,
		Name:                req.Name,
		Kind:                req.Kind,
		PriceCents:          req.PriceCents,
		CommissionPercentL1: req.CommissionPercentL1,
		CommissionPercentL2: req.CommissionPercentL2,
		CommissionPercentL3: req.CommissionPercentL3,
		IsActive:            req.IsActive,
	}
}

// ListProducts 分页查询商品（含下架）
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	products, total, err := h.productService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Kind:     c.Query("kind"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	product, err := h.productService.Create(req.toInput())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	invalidateProductCatalog(c)
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		response.BadRequest(c, "invalid_request", "invalid product id")
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	product, err := h.productService.Update(uint(productID), req.toInput())
	if err != nil {
		respondAdminError(c, err)
		return
	}
	invalidateProductCatalog(c)
	response.Success(c, product)
}

// GetProduct 查询商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		response.BadRequest(c, "invalid_request", "invalid product id")
		return
	}

	product, err := h.productService.GetByID(uint(productID))
	if err != nil {
		respondAdminError(c, err)
		return
	}
	response.Success(c, product)
}
