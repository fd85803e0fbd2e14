package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// trc20AddressPattern TRC20 地址：T 开头 + 33 位 base58 字符
var trc20AddressPattern = regexp.MustCompile(`^T[1-9A-HJ-NP-Za-km-z]{33}$`)

// WithdrawalService 提现服务
type WithdrawalService struct {
	codeRepo         repository.AffiliateCodeRepository
	withdrawalRepo   repository.WithdrawalRepository
	ledgerService    *LedgerService
	minWithdrawCents int64
	feePercent       int
}

// NewWithdrawalService 创建提现服务
func NewWithdrawalService(
	codeRepo repository.AffiliateCodeRepository,
	withdrawalRepo repository.WithdrawalRepository,
	ledgerService *LedgerService,
	minWithdrawCents int64,
	feePercent int,
) *WithdrawalService {
	if minWithdrawCents <= 0 {
		minWithdrawCents = 5000
	}
	if feePercent < 0 {
		feePercent = 0
	}
	return &WithdrawalService{
		codeRepo:         codeRepo,
		withdrawalRepo:   withdrawalRepo,
		ledgerService:    ledgerService,
		minWithdrawCents: minWithdrawCents,
		feePercent:       feePercent,
	}
}

// WithdrawRequestInput 提现申请输入
type WithdrawRequestInput struct {
	AffiliateCode string
	AmountCents   int64
	WalletAddress string
}

// Request 发起提现申请。
// 校验顺序固定：金额下限 -> 钱包格式 -> 余额充足；
// 余额校验在持有码行锁的事务内完成，pending 申请立即预占余额。
func (s *WithdrawalService) Request(input WithdrawRequestInput) (*models.Withdrawal, error) {
	code, err := s.resolveActiveCode(input.AffiliateCode)
	if err != nil {
		return nil, err
	}

	if input.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if input.AmountCents < s.minWithdrawCents {
		return nil, ErrBelowMinimum
	}
	wallet := strings.TrimSpace(input.WalletAddress)
	if !trc20AddressPattern.MatchString(wallet) {
		return nil, ErrInvalidWalletFormat
	}

	var withdrawal *models.Withdrawal
	err = s.codeRepo.Transaction(func(tx *gorm.DB) error {
		locked, err := s.codeRepo.WithTx(tx).GetByIDForUpdate(code.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrNotFound
		}
		if locked.Status != constants.AffiliateCodeStatusActive {
			return ErrCodeDisabled
		}

		balance, err := s.ledgerService.BalanceOfCodeIDTx(tx, locked.ID)
		if err != nil {
			return err
		}
		if input.AmountCents > balance {
			return ErrInsufficientBalance
		}

		feeCents := withdrawalFeeCents(input.AmountCents, s.feePercent)
		withdrawal = &models.Withdrawal{
			AffiliateCodeID:      locked.ID,
			RequestedAmountCents: input.AmountCents,
			FeeCents:             feeCents,
			NetAmountCents:       input.AmountCents - feeCents,
			WalletAddress:        wallet,
			Network:              constants.WithdrawalNetworkTRC20,
			Status:               constants.WithdrawalStatusPending,
		}
		return s.withdrawalRepo.WithTx(tx).Create(withdrawal)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("withdrawal_requested",
		"withdrawal_id", withdrawal.ID,
		"affiliate_code_id", withdrawal.AffiliateCodeID,
		"amount_cents", withdrawal.RequestedAmountCents,
		"fee_cents", withdrawal.FeeCents,
	)
	return withdrawal, nil
}

// Cancel 用户取消自己的 pending 提现，释放预占余额
func (s *WithdrawalService) Cancel(withdrawalID uint, affiliateCode string) (*models.Withdrawal, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(affiliateCode))
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}

	var canceled *models.Withdrawal
	err = s.codeRepo.Transaction(func(tx *gorm.DB) error {
		withdrawal, err := s.withdrawalRepo.WithTx(tx).GetByIDForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal == nil || withdrawal.AffiliateCodeID != code.ID {
			return ErrNotFound
		}
		if withdrawal.Status != constants.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		now := time.Now()
		withdrawal.Status = constants.WithdrawalStatusRejected
		withdrawal.RejectReason = constants.WithdrawalRejectReasonCanceled
		withdrawal.ProcessedAt = &now
		if err := s.withdrawalRepo.WithTx(tx).Update(withdrawal); err != nil {
			return err
		}
		canceled = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return canceled, nil
}

// Review 管理端审核 pending 提现：打款或拒绝，终态不可再变更
func (s *WithdrawalService) Review(withdrawalID uint, adminID uint, action, reason string) (*models.Withdrawal, error) {
	action = strings.TrimSpace(action)
	if action != constants.WithdrawalActionPay && action != constants.WithdrawalActionReject {
		return nil, ErrWithdrawalActionInvalid
	}

	var reviewed *models.Withdrawal
	err := s.codeRepo.Transaction(func(tx *gorm.DB) error {
		withdrawal, err := s.withdrawalRepo.WithTx(tx).GetByIDForUpdate(withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal == nil {
			return ErrNotFound
		}
		if withdrawal.Status != constants.WithdrawalStatusPending {
			return ErrWithdrawalNotPending
		}

		now := time.Now()
		withdrawal.ProcessedBy = &adminID
		withdrawal.ProcessedAt = &now
		if action == constants.WithdrawalActionPay {
			withdrawal.Status = constants.WithdrawalStatusPaid
			withdrawal.PaidAt = &now
		} else {
			withdrawal.Status = constants.WithdrawalStatusRejected
			withdrawal.RejectReason = strings.TrimSpace(reason)
		}
		if err := s.withdrawalRepo.WithTx(tx).Update(withdrawal); err != nil {
			return err
		}
		reviewed = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("withdrawal_reviewed",
		"withdrawal_id", reviewed.ID,
		"action", action,
		"admin_id", adminID,
	)
	return reviewed, nil
}

// ListByCode 查询推广码的提现历史
func (s *WithdrawalService) ListByCode(affiliateCode string, filter repository.WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	code, err := s.codeRepo.GetByCode(strings.TrimSpace(affiliateCode))
	if err != nil {
		return nil, 0, err
	}
	if code == nil {
		return nil, 0, ErrNotFound
	}
	filter.AffiliateCodeID = code.ID
	return s.withdrawalRepo.List(filter)
}

// List 管理端查询提现列表
func (s *WithdrawalService) List(filter repository.WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	return s.withdrawalRepo.List(filter)
}

// GetByID 查询提现申请
func (s *WithdrawalService) GetByID(id uint) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrNotFound
	}
	return withdrawal, nil
}

func (s *WithdrawalService) resolveActiveCode(raw string) (*models.AffiliateCode, error) {
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

// withdrawalFeeCents 手续费按银行家舍入，申请时刻定格
func withdrawalFeeCents(amountCents int64, feePercent int) int64 {
	if feePercent <= 0 {
		return 0
	}
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromInt(int64(feePercent))).
		Div(decimal.NewFromInt(100)).
		RoundBank(0).
		IntPart()
}
