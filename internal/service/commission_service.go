package service

import (
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CommissionService 佣金计算与结算服务
type CommissionService struct {
	commissionRepo  repository.CommissionRepository
	funnelRepo      repository.FunnelEventRepository
	productRepo     repository.ProductRepository
	codeRepo        repository.AffiliateCodeRepository
	referralService *ReferralService
	confirmDays     int
}

// NewCommissionService 创建佣金服务
func NewCommissionService(
	commissionRepo repository.CommissionRepository,
	funnelRepo repository.FunnelEventRepository,
	productRepo repository.ProductRepository,
	codeRepo repository.AffiliateCodeRepository,
	referralService *ReferralService,
	confirmDays int,
) *CommissionService {
	if confirmDays < 0 {
		confirmDays = 0
	}
	return &CommissionService{
		commissionRepo:  commissionRepo,
		funnelRepo:      funnelRepo,
		productRepo:     productRepo,
		codeRepo:        codeRepo,
		referralService: referralService,
		confirmDays:     confirmDays,
	}
}

// Calculate 为转化事件生成各层级佣金。
// (conversion_event_id, level) 唯一约束保证至少一次投递下的幂等：
// 已存在的层级视为成功，重复调用不会产生第二份佣金。
func (s *CommissionService) Calculate(conversionEventID uint) error {
	event, err := s.funnelRepo.GetByID(conversionEventID)
	if err != nil {
		return err
	}
	if event == nil || event.Kind != constants.FunnelEventKindConversion {
		return ErrNotFound
	}
	if event.ConvertedUserID == nil || *event.ConvertedUserID == 0 {
		logger.Warnw("commission_calculate_skipped",
			"conversion_event_id", conversionEventID,
			"reason", "no_converted_user",
		)
		return nil
	}
	if event.ProductID == nil || *event.ProductID == 0 {
		return ErrNotFound
	}
	product, err := s.productRepo.GetByID(*event.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}

	ancestors, err := s.referralService.AncestorsOf(*event.ConvertedUserID, constants.MaxCommissionLevels)
	if err != nil {
		return err
	}

	// 重投递时已落库的层级直接跳过，唯一约束兜底并发竞争
	existing, err := s.commissionRepo.ListByConversionEvent(event.ID)
	if err != nil {
		return err
	}
	existingLevels := make(map[int]bool, len(existing))
	for i := range existing {
		existingLevels[existing[i].Level] = true
	}

	now := time.Now()
	for _, ancestor := range ancestors {
		if existingLevels[ancestor.Level] {
			continue
		}
		if ancestor.Code == nil || ancestor.Code.Status != constants.AffiliateCodeStatusActive {
			continue
		}
		percent := product.PercentForLevel(ancestor.Level)
		if !percent.Decimal.IsPositive() {
			continue
		}

		amountCents := commissionAmountCents(event.SaleAmountCents, percent)
		commission := &models.Commission{
			ConversionEventID: event.ID,
			Level:             ancestor.Level,
			BeneficiaryUserID: ancestor.User.ID,
			AffiliateCodeID:   ancestor.Code.ID,
			SourceUserID:      *event.ConvertedUserID,
			ProductID:         product.ID,
			SaleAmountCents:   event.SaleAmountCents,
			RatePercent:       percent,
			AmountCents:       amountCents,
			Status:            constants.CommissionStatusPending,
		}
		if s.confirmDays == 0 {
			commission.Status = constants.CommissionStatusConfirmed
			confirmedAt := now
			commission.ConfirmedAt = &confirmedAt
		} else {
			confirmAt := now.Add(time.Duration(s.confirmDays) * 24 * time.Hour)
			commission.ConfirmAt = &confirmAt
		}

		if err := s.commissionRepo.Create(commission); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return err
		}
		logger.Infow("commission_created",
			"conversion_event_id", event.ID,
			"level", ancestor.Level,
			"beneficiary_user_id", ancestor.User.ID,
			"amount_cents", amountCents,
		)
	}
	return nil
}

// ConfirmDueCommissions 将到期的 pending 佣金晋升为 confirmed。
// 状态只向前推进，不会回退；冻结码下的佣金跳过自动处理。
func (s *CommissionService) ConfirmDueCommissions(now time.Time) (int, error) {
	due, err := s.commissionRepo.ListDue(now, 200)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	frozenCodes := map[uint]bool{}
	for i := range due {
		commission := due[i]
		if commission.Status != constants.CommissionStatusPending {
			continue
		}

		frozen, known := frozenCodes[commission.AffiliateCodeID]
		if !known {
			code, err := s.codeRepo.GetByID(commission.AffiliateCodeID)
			if err != nil {
				return confirmed, err
			}
			frozen = code != nil && code.Status == constants.AffiliateCodeStatusFrozen
			frozenCodes[commission.AffiliateCodeID] = frozen
		}
		if frozen {
			continue
		}

		commission.Status = constants.CommissionStatusConfirmed
		confirmedAt := now
		commission.ConfirmedAt = &confirmedAt
		if err := s.commissionRepo.Update(&commission); err != nil {
			return confirmed, err
		}
		confirmed++
	}
	return confirmed, nil
}

// List 查询佣金列表
func (s *CommissionService) List(filter repository.CommissionListFilter) ([]models.Commission, int64, error) {
	return s.commissionRepo.List(filter)
}

// commissionAmountCents 按银行家舍入计算佣金金额（分）
func commissionAmountCents(saleAmountCents int64, percent models.Money) int64 {
	return decimal.NewFromInt(saleAmountCents).
		Mul(percent.Decimal).
		Div(decimal.NewFromInt(100)).
		RoundBank(0).
		IntPart()
}
