package public

import (
	"strconv"
	"time"

	"github.com/nivelup-next/internal/cache"
	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/http/handlers/shared"
	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/gin-gonic/gin"
)

const productCatalogCacheTTL = time.Minute

// productCatalogCacheEntry 商品目录首页的缓存载荷
type productCatalogCacheEntry struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// ListProducts 查询上架商品列表。
// 无筛选条件的首页请求走 Redis 缓存，缓存未启用时直接透传数据库。
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = shared.NormalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Kind:       c.Query("kind"),
		Search:     c.Query("search"),
		OnlyActive: true,
	}
	cacheable := page == 1 && pageSize == shared.DefaultPageSize && filter.Kind == "" && filter.Search == ""

	if cacheable {
		var entry productCatalogCacheEntry
		hit, err := cache.GetJSON(c.Request.Context(), constants.ProductCatalogCacheKey, &entry)
		if err != nil {
			logger.Warnw("product_catalog_cache_read_failed", "error", err)
		} else if hit {
			response.SuccessWithPage(c, entry.Products, response.NewPagination(page, pageSize, entry.Total))
			return
		}
	}

	products, total, err := h.productService.List(filter)
	if err != nil {
		response.Error(c, response.CodeInternal, "internal_error", "internal error")
		return
	}
	if cacheable {
		entry := productCatalogCacheEntry{Products: products, Total: total}
		if err := cache.SetJSON(c.Request.Context(), constants.ProductCatalogCacheKey, entry, productCatalogCacheTTL); err != nil {
			logger.Warnw("product_catalog_cache_write_failed", "error", err)
		}
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}
