package service

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/queue"
	"github.com/nivelup-next/internal/repository"

	"gorm.io/gorm"
)

const affiliateCodeLength = 8

// TrackerService 漏斗事件服务，负责点击、注册、转化三类事件的归因与落库
type TrackerService struct {
	codeRepo          repository.AffiliateCodeRepository
	userRepo          repository.UserRepository
	funnelRepo        repository.FunnelEventRepository
	productRepo       repository.ProductRepository
	commissionService *CommissionService
	queueClient       *queue.Client
	attributionWindow time.Duration
}

// NewTrackerService 创建漏斗事件服务
func NewTrackerService(
	codeRepo repository.AffiliateCodeRepository,
	userRepo repository.UserRepository,
	funnelRepo repository.FunnelEventRepository,
	productRepo repository.ProductRepository,
	commissionService *CommissionService,
	queueClient *queue.Client,
	attributionWindowDays int,
) *TrackerService {
	if attributionWindowDays <= 0 {
		attributionWindowDays = 30
	}
	return &TrackerService{
		codeRepo:          codeRepo,
		userRepo:          userRepo,
		funnelRepo:        funnelRepo,
		productRepo:       productRepo,
		commissionService: commissionService,
		queueClient:       queueClient,
		attributionWindow: time.Duration(attributionWindowDays) * 24 * time.Hour,
	}
}

// TrackClickInput 点击事件输入
type TrackClickInput struct {
	AffiliateCode string
	TrackingID    string
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string
	Referrer      string
	UserAgent     string
	ClientIP      string
}

// RegisterClick 记录推广点击，同一 (推广码, 追踪标识) 首触有效，重复上报返回原事件
func (s *TrackerService) RegisterClick(input TrackClickInput) (*models.FunnelEvent, error) {
	code, err := s.resolveActiveCode(input.AffiliateCode)
	if err != nil {
		return nil, err
	}
	trackingID := strings.TrimSpace(input.TrackingID)
	if trackingID == "" {
		return nil, ErrMissingAttribution
	}

	existing, err := s.funnelRepo.GetByCodeTrackingKind(code.ID, trackingID, constants.FunnelEventKindClick)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	event := &models.FunnelEvent{
		AffiliateCodeID: code.ID,
		TrackingID:      trackingID,
		Kind:            constants.FunnelEventKindClick,
		UTMSource:       strings.TrimSpace(input.UTMSource),
		UTMMedium:       strings.TrimSpace(input.UTMMedium),
		UTMCampaign:     strings.TrimSpace(input.UTMCampaign),
		Referrer:        strings.TrimSpace(input.Referrer),
		UserAgent:       input.UserAgent,
		Device:          detectDevice(input.UserAgent),
		ClientIP:        input.ClientIP,
	}
	if err := s.funnelRepo.Create(event); err != nil {
		if isUniqueViolation(err) {
			return s.funnelRepo.GetByCodeTrackingKind(code.ID, trackingID, constants.FunnelEventKindClick)
		}
		return nil, err
	}
	return event, nil
}

// RegisterSignupInput 注册事件输入
type RegisterSignupInput struct {
	TrackingID  string
	Email       string
	DisplayName string
	ClientIP    string
	UserAgent   string
}

// RegisterSignupResult 注册结果
type RegisterSignupResult struct {
	User          models.User
	AffiliateCode models.AffiliateCode
	LeadEvent     models.FunnelEvent
}

// RegisterSignup 带归因的注册：追踪标识必须能在窗口内解析到一次点击，
// 注册用户挂到推广码所属用户名下并发放自己的推广码，同时写入 lead 事件。
func (s *TrackerService) RegisterSignup(input RegisterSignupInput) (*RegisterSignupResult, error) {
	trackingID := strings.TrimSpace(input.TrackingID)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if trackingID == "" {
		return nil, ErrMissingAttribution
	}
	if email == "" {
		return nil, ErrEmailTaken
	}

	click, err := s.funnelRepo.LatestClickByTrackingID(trackingID, time.Now().Add(-s.attributionWindow))
	if err != nil {
		return nil, err
	}
	if click == nil {
		return nil, ErrMissingAttribution
	}
	code, err := s.codeRepo.GetByID(click.AffiliateCodeID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrMissingAttribution
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	result := &RegisterSignupResult{}
	err = s.codeRepo.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		funnelRepo := s.funnelRepo.WithTx(tx)

		referrerID := code.UserID
		user := &models.User{
			Email:          email,
			DisplayName:    strings.TrimSpace(input.DisplayName),
			Status:         constants.UserStatusActive,
			ReferrerUserID: &referrerID,
			TrackingID:     trackingID,
		}
		if err := userRepo.Create(user); err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		ownCode, err := s.issueCode(tx, user.ID)
		if err != nil {
			return err
		}

		lead := &models.FunnelEvent{
			AffiliateCodeID: code.ID,
			TrackingID:      trackingID,
			Kind:            constants.FunnelEventKindLead,
			ConvertedUserID: &user.ID,
			UserAgent:       input.UserAgent,
			Device:          detectDevice(input.UserAgent),
			ClientIP:        input.ClientIP,
		}
		if err := funnelRepo.Create(lead); err != nil {
			if !isUniqueViolation(err) {
				return err
			}
			found, ferr := funnelRepo.GetByCodeTrackingKind(code.ID, trackingID, constants.FunnelEventKindLead)
			if ferr != nil {
				return ferr
			}
			if found != nil {
				lead = found
			}
		}

		result.User = *user
		result.AffiliateCode = *ownCode
		result.LeadEvent = *lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RegisterConversionInput 转化事件输入
type RegisterConversionInput struct {
	TrackingID      string
	ProductID       uint
	ProductSlug     string
	SaleAmountCents int64
	ClientIP        string
	UserAgent       string
}

// RegisterConversion 记录转化事件并触发佣金计算。
// 归因不可解析时拒绝；同一 (推广码, 追踪标识) 的转化幂等返回原事件。
func (s *TrackerService) RegisterConversion(input RegisterConversionInput) (*models.FunnelEvent, error) {
	trackingID := strings.TrimSpace(input.TrackingID)
	if trackingID == "" {
		return nil, ErrMissingAttribution
	}

	click, err := s.funnelRepo.LatestClickByTrackingID(trackingID, time.Now().Add(-s.attributionWindow))
	if err != nil {
		return nil, err
	}
	if click == nil {
		return nil, ErrMissingAttribution
	}
	code, err := s.codeRepo.GetByID(click.AffiliateCodeID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrMissingAttribution
	}

	product, err := s.resolveProduct(input.ProductID, input.ProductSlug)
	if err != nil {
		return nil, err
	}

	existing, err := s.funnelRepo.GetByCodeTrackingKind(code.ID, trackingID, constants.FunnelEventKindConversion)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	saleAmount := input.SaleAmountCents
	if saleAmount <= 0 {
		saleAmount = product.PriceCents
	}

	var convertedUserID *uint
	if converted, err := s.findUserByTrackingID(trackingID); err != nil {
		return nil, err
	} else if converted != nil {
		convertedUserID = &converted.ID
	}

	event := &models.FunnelEvent{
		AffiliateCodeID: code.ID,
		TrackingID:      trackingID,
		Kind:            constants.FunnelEventKindConversion,
		ConvertedUserID: convertedUserID,
		ProductID:       &product.ID,
		SaleAmountCents: saleAmount,
		UserAgent:       input.UserAgent,
		Device:          detectDevice(input.UserAgent),
		ClientIP:        input.ClientIP,
	}
	if err := s.funnelRepo.Create(event); err != nil {
		if isUniqueViolation(err) {
			return s.funnelRepo.GetByCodeTrackingKind(code.ID, trackingID, constants.FunnelEventKindConversion)
		}
		return nil, err
	}

	s.dispatchCommissionCalculate(event.ID)
	return event, nil
}

// dispatchCommissionCalculate 触发佣金计算：优先走队列，队列关闭时同步执行
func (s *TrackerService) dispatchCommissionCalculate(conversionEventID uint) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueCommissionCalculate(queue.CommissionCalculatePayload{
			ConversionEventID: conversionEventID,
		})
		if err == nil {
			return
		}
		logger.Warnw("commission_calculate_enqueue_failed",
			"conversion_event_id", conversionEventID,
			"error", err,
		)
	}
	if s.commissionService == nil {
		return
	}
	if err := s.commissionService.Calculate(conversionEventID); err != nil {
		logger.Errorw("commission_calculate_sync_failed",
			"conversion_event_id", conversionEventID,
			"error", err,
		)
	}
}

func (s *TrackerService) resolveActiveCode(raw string) (*models.AffiliateCode, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}
	switch code.Status {
	case constants.AffiliateCodeStatusActive:
		return code, nil
	case constants.AffiliateCodeStatusFrozen:
		return nil, ErrCodeFrozen
	default:
		return nil, ErrCodeDisabled
	}
}

func (s *TrackerService) resolveProduct(productID uint, slug string) (*models.Product, error) {
	var product *models.Product
	var err error
	if productID != 0 {
		product, err = s.productRepo.GetByID(productID)
	} else {
		product, err = s.productRepo.GetBySlug(slug)
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	return product, nil
}

func (s *TrackerService) findUserByTrackingID(trackingID string) (*models.User, error) {
	return s.userRepo.GetByTrackingID(trackingID)
}

// issueCode 为用户发放推广码，冲突时重试
func (s *TrackerService) issueCode(tx *gorm.DB, userID uint) (*models.AffiliateCode, error) {
	codeRepo := s.codeRepo.WithTx(tx)
	const maxRetry = 8
	for i := 0; i < maxRetry; i++ {
		generated, err := generateAffiliateCode()
		if err != nil {
			return nil, err
		}
		record := &models.AffiliateCode{
			UserID: userID,
			Code:   generated,
			Status: constants.AffiliateCodeStatusActive,
		}
		if err := codeRepo.Create(record); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		return record, nil
	}
	return nil, ErrNotFound
}

func generateAffiliateCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var builder strings.Builder
	builder.Grow(affiliateCodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < affiliateCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func detectDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "tablet"
	case ua == "":
		return ""
	default:
		return "desktop"
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
