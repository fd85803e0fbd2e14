package service

import (
	"strings"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"gorm.io/gorm"
)

// TransferService 码间余额转账服务
type TransferService struct {
	codeRepo      repository.AffiliateCodeRepository
	transferRepo  repository.TransferRepository
	ledgerService *LedgerService
}

// NewTransferService 创建转账服务
func NewTransferService(
	codeRepo repository.AffiliateCodeRepository,
	transferRepo repository.TransferRepository,
	ledgerService *LedgerService,
) *TransferService {
	return &TransferService{
		codeRepo:      codeRepo,
		transferRepo:  transferRepo,
		ledgerService: ledgerService,
	}
}

// TransferInput 转账输入
type TransferInput struct {
	OriginCode      string
	DestinationCode string
	AmountCents     int64
	Remark          string
}

// Transfer 在两个推广码之间转移余额。
// 借贷在同一事务内提交，两个码行按 ID 升序加锁避免交叉死锁；
// completed 后记录不可变更。
func (s *TransferService) Transfer(input TransferInput) (*models.Transfer, error) {
	origin, err := s.resolveCode(input.OriginCode)
	if err != nil {
		return nil, err
	}
	destination, err := s.resolveCode(input.DestinationCode)
	if err != nil {
		return nil, err
	}
	if origin.ID == destination.ID {
		return nil, ErrSelfTransfer
	}
	if input.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	var transfer *models.Transfer
	err = s.codeRepo.Transaction(func(tx *gorm.DB) error {
		codeRepo := s.codeRepo.WithTx(tx)

		// 固定按 ID 升序加锁
		firstID, secondID := origin.ID, destination.ID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := codeRepo.GetByIDForUpdate(firstID)
		if err != nil {
			return err
		}
		second, err := codeRepo.GetByIDForUpdate(secondID)
		if err != nil {
			return err
		}
		if first == nil || second == nil {
			return ErrNotFound
		}

		lockedOrigin, lockedDestination := first, second
		if lockedOrigin.ID != origin.ID {
			lockedOrigin, lockedDestination = second, first
		}
		if lockedOrigin.Status != constants.AffiliateCodeStatusActive {
			return codeStatusError(lockedOrigin.Status)
		}
		if lockedDestination.Status != constants.AffiliateCodeStatusActive {
			return codeStatusError(lockedDestination.Status)
		}

		balance, err := s.ledgerService.BalanceOfCodeIDTx(tx, lockedOrigin.ID)
		if err != nil {
			return err
		}
		if input.AmountCents > balance {
			return ErrInsufficientBalance
		}

		now := time.Now()
		transfer = &models.Transfer{
			OriginCodeID:      lockedOrigin.ID,
			DestinationCodeID: lockedDestination.ID,
			AmountCents:       input.AmountCents,
			Status:            constants.TransferStatusCompleted,
			Remark:            strings.TrimSpace(input.Remark),
			CompletedAt:       &now,
		}
		return s.transferRepo.WithTx(tx).Create(transfer)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("transfer_completed",
		"transfer_id", transfer.ID,
		"origin_code_id", transfer.OriginCodeID,
		"destination_code_id", transfer.DestinationCodeID,
		"amount_cents", transfer.AmountCents,
	)
	return transfer, nil
}

// ListByCode 查询推广码相关的转账历史（转入与转出）
func (s *TransferService) ListByCode(affiliateCode string, filter repository.TransferListFilter) ([]models.Transfer, int64, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(affiliateCode))
	if err != nil {
		return nil, 0, err
	}
	if code == nil {
		return nil, 0, ErrNotFound
	}
	filter.CodeID = code.ID
	return s.transferRepo.List(filter)
}

// List 管理端查询转账列表
func (s *TransferService) List(filter repository.TransferListFilter) ([]models.Transfer, int64, error) {
	return s.transferRepo.List(filter)
}

func (s *TransferService) resolveCode(raw string) (*models.AffiliateCode, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}
	if code.Status != constants.AffiliateCodeStatusActive {
		return nil, codeStatusError(code.Status)
	}
	return code, nil
}

func codeStatusError(status string) error {
	if status == constants.AffiliateCodeStatusFrozen {
		return ErrCodeFrozen
	}
	return ErrCodeDisabled
}
