package public

import (
	"strconv"

	"github.com/nivelup-next/internal/http/response"
	"github.com/nivelup-next/internal/service"

	"github.com/gin-gonic/gin"
)

type trackClickRequest struct {
	AffiliateCode string `json:"affiliate_code" binding:"required"`
	TrackingID    string `json:"tracking_id" binding:"required"`
	UTMSource     string `json:"utm_source"`
	UTMMedium     string `json:"utm_medium"`
	UTMCampaign   string `json:"utm_campaign"`
	Referrer      string `json:"referrer"`
}

// TrackClick 记录推广点击
func (h *Handler) TrackClick(c *gin.Context) {
	var req trackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	event, err := h.trackerService.RegisterClick(service.TrackClickInput{
		AffiliateCode: req.AffiliateCode,
		TrackingID:    req.TrackingID,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
		Referrer:      req.Referrer,
		UserAgent:     c.Request.UserAgent(),
		ClientIP:      c.ClientIP(),
	})
	if err != nil {
		respondWithMappedError(c, err, trackErrorRules)
		return
	}
	response.Success(c, gin.H{"event_id": event.ID})
}

type registerRequest struct {
	TrackingID  string `json:"tracking_id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
}

// Register 带归因的用户注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	result, err := h.trackerService.RegisterSignup(service.RegisterSignupInput{
		TrackingID:  req.TrackingID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		respondWithMappedError(c, err, trackErrorRules)
		return
	}
	response.Success(c, gin.H{
		"user_id":        result.User.ID,
		"affiliate_code": result.AffiliateCode.Code,
	})
}

type conversionRequest struct {
	TrackingID      string `json:"tracking_id" binding:"required"`
	ProductID       uint   `json:"product_id"`
	ProductSlug     string `json:"product_slug"`
	SaleAmountCents int64  `json:"sale_amount_cents"`
}

// TrackConversion 记录转化事件（身份/支付回调）
func (h *Handler) TrackConversion(c *gin.Context) {
	var req conversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid_request", "invalid request body")
		return
	}
	if req.ProductID == 0 && req.ProductSlug == "" {
		response.BadRequest(c, "invalid_request", "product_id or product_slug is required")
		return
	}

	event, err := h.trackerService.RegisterConversion(service.RegisterConversionInput{
		TrackingID:      req.TrackingID,
		ProductID:       req.ProductID,
		ProductSlug:     req.ProductSlug,
		SaleAmountCents: req.SaleAmountCents,
		ClientIP:        c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
	})
	if err != nil {
		respondWithMappedError(c, err, trackErrorRules)
		return
	}
	response.Success(c, gin.H{"event_id": event.ID})
}

// Balance 查询推广码可用余额
func (h *Handler) Balance(c *gin.Context) {
	balance, err := h.ledgerService.BalanceOf(c.Param("code"))
	if err != nil {
		respondWithMappedError(c, err, codeResolveErrorRules)
		return
	}
	response.Success(c, gin.H{"amount_cents": balance})
}

// Referrals 查询推广码的下级网络
func (h *Handler) Referrals(c *gin.Context) {
	level := 0
	if raw := c.Query("level"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 3 {
			response.BadRequest(c, "invalid_level", "level must be 1, 2 or 3")
			return
		}
		level = parsed
	}

	items, err := h.referralService.NetworkOf(c.Param("code"), level)
	if err != nil {
		respondWithMappedError(c, err, codeResolveErrorRules)
		return
	}
	response.Success(c, items)
}

// Summary 查询推广码漏斗与账务概览
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.ledgerService.SummaryOf(c.Param("code"))
	if err != nil {
		respondWithMappedError(c, err, codeResolveErrorRules)
		return
	}
	response.Success(c, summary)
}
