package service

import (
	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/repository"

	"gorm.io/gorm"
)

// 余额口径：confirmed 与 paid 的佣金同等计入，打款标记不改变余额；
// pending/paid 提现与 pending/completed 转出立即预占，转入只认 completed。
var (
	balanceCommissionStatuses  = []string{constants.CommissionStatusConfirmed, constants.CommissionStatusPaid}
	balanceWithdrawalStatuses  = []string{constants.WithdrawalStatusPending, constants.WithdrawalStatusPaid}
	balanceTransferOutStatuses = []string{constants.TransferStatusPending, constants.TransferStatusCompleted}
	balanceTransferInStatuses  = []string{constants.TransferStatusCompleted}
	summaryPendingStatuses     = []string{constants.CommissionStatusPending}
	summaryWithdrawnStatuses   = []string{constants.WithdrawalStatusPaid}
)

// LedgerService 余额派生与账务完整性服务。
// 余额没有独立存储，始终由佣金、提现、转账三张源表实时推导。
type LedgerService struct {
	codeRepo       repository.AffiliateCodeRepository
	commissionRepo repository.CommissionRepository
	withdrawalRepo repository.WithdrawalRepository
	transferRepo   repository.TransferRepository
	funnelRepo     repository.FunnelEventRepository
}

// NewLedgerService 创建账务服务
func NewLedgerService(
	codeRepo repository.AffiliateCodeRepository,
	commissionRepo repository.CommissionRepository,
	withdrawalRepo repository.WithdrawalRepository,
	transferRepo repository.TransferRepository,
	funnelRepo repository.FunnelEventRepository,
) *LedgerService {
	return &LedgerService{
		codeRepo:       codeRepo,
		commissionRepo: commissionRepo,
		withdrawalRepo: withdrawalRepo,
		transferRepo:   transferRepo,
		funnelRepo:     funnelRepo,
	}
}

// BalanceOf 按推广码字符串返回可用余额（分），未知码返回 ErrNotFound
func (s *LedgerService) BalanceOf(code string) (int64, error) {
	record, err := s.codeRepo.GetByCode(code)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, ErrNotFound
	}
	return s.balanceOfCode(nil, record.ID)
}

// BalanceOfCodeID 按推广码ID返回可用余额（分）
func (s *LedgerService) BalanceOfCodeID(codeID uint) (int64, error) {
	return s.balanceOfCode(nil, codeID)
}

// BalanceOfCodeIDTx 在既有事务内计算余额，调用方需已持有码行锁
func (s *LedgerService) BalanceOfCodeIDTx(tx *gorm.DB, codeID uint) (int64, error) {
	return s.balanceOfCode(tx, codeID)
}

func (s *LedgerService) balanceOfCode(tx *gorm.DB, codeID uint) (int64, error) {
	if codeID == 0 {
		return 0, nil
	}
	commissionRepo := s.commissionRepo.WithTx(tx)
	withdrawalRepo := s.withdrawalRepo.WithTx(tx)
	transferRepo := s.transferRepo.WithTx(tx)

	earned, err := commissionRepo.SumByCodeAndStatuses(codeID, balanceCommissionStatuses)
	if err != nil {
		return 0, err
	}
	reserved, err := withdrawalRepo.SumRequestedByCodeAndStatuses(codeID, balanceWithdrawalStatuses)
	if err != nil {
		return 0, err
	}
	transferredOut, err := transferRepo.SumOutgoingByCodeAndStatuses(codeID, balanceTransferOutStatuses)
	if err != nil {
		return 0, err
	}
	transferredIn, err := transferRepo.SumIncomingByCodeAndStatuses(codeID, balanceTransferInStatuses)
	if err != nil {
		return 0, err
	}
	return earned - reserved - transferredOut + transferredIn, nil
}

// Reconcile 校验推广码账务完整性。
// 派生余额为负说明源表被破坏，冻结该码并上报，绝不自动修数。
func (s *LedgerService) Reconcile(codeID uint) (int64, error) {
	code, err := s.codeRepo.GetByID(codeID)
	if err != nil {
		return 0, err
	}
	if code == nil {
		return 0, ErrNotFound
	}

	balance, err := s.balanceOfCode(nil, codeID)
	if err != nil {
		return 0, err
	}
	if balance >= 0 {
		return balance, nil
	}

	if code.Status != constants.AffiliateCodeStatusFrozen {
		code.Status = constants.AffiliateCodeStatusFrozen
		if err := s.codeRepo.Update(code); err != nil {
			return balance, err
		}
	}
	logger.Errorw("ledger_integrity_violation",
		"affiliate_code_id", codeID,
		"code", code.Code,
		"derived_balance_cents", balance,
	)
	return balance, ErrIntegrityViolation
}

// AffiliateSummary 推广码漏斗与账务概览
type AffiliateSummary struct {
	Code                  string  `json:"code"`
	Status                string  `json:"status"`
	ClickCount            int64   `json:"click_count"`
	LeadCount             int64   `json:"lead_count"`
	ConversionCount       int64   `json:"conversion_count"`
	ConversionRate        float64 `json:"conversion_rate"`
	PendingCents          int64   `json:"pending_cents"`
	ConfirmedCents        int64   `json:"confirmed_cents"`
	WithdrawnCents        int64   `json:"withdrawn_cents"`
	AvailableBalanceCents int64   `json:"available_balance_cents"`
}

// SummaryOf 汇总推广码的漏斗计数与账务概览
func (s *LedgerService) SummaryOf(code string) (*AffiliateSummary, error) {
	record, err := s.codeRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}

	clicks, err := s.funnelRepo.CountByCodeAndKind(record.ID, constants.FunnelEventKindClick)
	if err != nil {
		return nil, err
	}
	leads, err := s.funnelRepo.CountByCodeAndKind(record.ID, constants.FunnelEventKindLead)
	if err != nil {
		return nil, err
	}
	conversions, err := s.funnelRepo.CountByCodeAndKind(record.ID, constants.FunnelEventKindConversion)
	if err != nil {
		return nil, err
	}

	pending, err := s.commissionRepo.SumByCodeAndStatuses(record.ID, summaryPendingStatuses)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.commissionRepo.SumByCodeAndStatuses(record.ID, balanceCommissionStatuses)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.withdrawalRepo.SumRequestedByCodeAndStatuses(record.ID, summaryWithdrawnStatuses)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceOfCode(nil, record.ID)
	if err != nil {
		return nil, err
	}

	summary := &AffiliateSummary{
		Code:                  record.Code,
		Status:                record.Status,
		ClickCount:            clicks,
		LeadCount:             leads,
		ConversionCount:       conversions,
		PendingCents:          pending,
		ConfirmedCents:        confirmed,
		WithdrawnCents:        withdrawn,
		AvailableBalanceCents: balance,
	}
	if clicks > 0 {
		summary.ConversionRate = float64(conversions) / float64(clicks)
	}
	return summary, nil
}
