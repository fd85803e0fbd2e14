package service

import (
	"strings"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
)

// AffiliateCodeService 推广码管理服务
type AffiliateCodeService struct {
	codeRepo repository.AffiliateCodeRepository
	userRepo repository.UserRepository
}

// NewAffiliateCodeService 创建推广码管理服务
func NewAffiliateCodeService(codeRepo repository.AffiliateCodeRepository, userRepo repository.UserRepository) *AffiliateCodeService {
	return &AffiliateCodeService{codeRepo: codeRepo, userRepo: userRepo}
}

// GetByCode 按对外推广码查询
func (s *AffiliateCodeService) GetByCode(raw string) (*models.AffiliateCode, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}
	return code, nil
}

// UpdateStatus 管理端更新推广码状态
func (s *AffiliateCodeService) UpdateStatus(codeID uint, rawStatus string) (*models.AffiliateCode, error) {
	nextStatus := strings.TrimSpace(rawStatus)
	switch nextStatus {
	case constants.AffiliateCodeStatusActive,
		constants.AffiliateCodeStatusDisabled,
		constants.AffiliateCodeStatusFrozen:
	default:
		return nil, ErrCodeStatusInvalid
	}

	code, err := s.codeRepo.GetByID(codeID)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}
	if code.Status == nextStatus {
		return code, nil
	}

	previous := code.Status
	code.Status = nextStatus
	code.UpdatedAt = time.Now()
	if err := s.codeRepo.Update(code); err != nil {
		return nil, err
	}
	logger.Infow("affiliate_code_status_updated",
		"affiliate_code_id", code.ID,
		"from", previous,
		"to", nextStatus,
	)
	return code, nil
}

// CodeWithOwner 推广码及其归属用户摘要
type CodeWithOwner struct {
	models.AffiliateCode
	OwnerEmail       string `json:"owner_email"`
	OwnerDisplayName string `json:"owner_display_name"`
}

// ListWithOwners 管理端分页查询推广码，附带归属用户信息
func (s *AffiliateCodeService) ListWithOwners(filter repository.AffiliateCodeListFilter) ([]CodeWithOwner, int64, error) {
	codes, total, err := s.codeRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	ownerIDs := make([]uint, 0, len(codes))
	for i := range codes {
		ownerIDs = append(ownerIDs, codes[i].UserID)
	}
	owners, err := s.userRepo.GetByIDs(ownerIDs)
	if err != nil {
		return nil, 0, err
	}
	ownerByID := make(map[uint]models.User, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = owners[i]
	}

	items := make([]CodeWithOwner, 0, len(codes))
	for i := range codes {
		item := CodeWithOwner{AffiliateCode: codes[i]}
		if owner, ok := ownerByID[codes[i].UserID]; ok {
			item.OwnerEmail = owner.Email
			item.OwnerDisplayName = owner.DisplayName
		}
		items = append(items, item)
	}
	return items, total, nil
}
