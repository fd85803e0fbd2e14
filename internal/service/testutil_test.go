package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.AffiliateCode{},
		&models.FunnelEvent{},
		&models.Product{},
		&models.Commission{},
		&models.Withdrawal{},
		&models.Transfer{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, referrerID *uint) models.User {
	t.Helper()

	row := models.User{
		Email:          email,
		DisplayName:    "tester",
		Status:         constants.UserStatusActive,
		ReferrerUserID: referrerID,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return row
}

func createTestCode(t *testing.T, db *gorm.DB, userID uint, code, status string) models.AffiliateCode {
	t.Helper()

	row := models.AffiliateCode{
		UserID: userID,
		Code:   code,
		Status: status,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create affiliate code failed: %v", err)
	}
	return row
}

func createTestProduct(t *testing.T, db *gorm.DB, slug string, priceCents int64, l1, l2, l3 int64) models.Product {
	t.Helper()

	row := models.Product{
		Slug:                slug,
		Name:                slug,
		Kind:                constants.ProductKindCourse,
		PriceCents:          priceCents,
		CommissionPercentL1: models.NewMoneyFromDecimal(decimal.NewFromInt(l1)),
		CommissionPercentL2: models.NewMoneyFromDecimal(decimal.NewFromInt(l2)),
		CommissionPercentL3: models.NewMoneyFromDecimal(decimal.NewFromInt(l3)),
		IsActive:            true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func createTestConversion(t *testing.T, db *gorm.DB, codeID uint, trackingID string, convertedUserID *uint, productID uint, saleCents int64) models.FunnelEvent {
	t.Helper()

	row := models.FunnelEvent{
		AffiliateCodeID: codeID,
		TrackingID:      trackingID,
		Kind:            constants.FunnelEventKindConversion,
		ConvertedUserID: convertedUserID,
		ProductID:       &productID,
		SaleAmountCents: saleCents,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create conversion event failed: %v", err)
	}
	return row
}

// createConfirmedCommission 直接写入一笔 confirmed 佣金，用于为测试码注入余额
func createConfirmedCommission(t *testing.T, db *gorm.DB, eventID uint, codeID, beneficiaryID, sourceUserID, productID uint, amountCents int64) models.Commission {
	t.Helper()

	now := time.Now()
	row := models.Commission{
		ConversionEventID: eventID,
		Level:             1,
		BeneficiaryUserID: beneficiaryID,
		AffiliateCodeID:   codeID,
		SourceUserID:      sourceUserID,
		ProductID:         productID,
		SaleAmountCents:   amountCents * 10,
		RatePercent:       models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		AmountCents:       amountCents,
		Status:            constants.CommissionStatusConfirmed,
		ConfirmedAt:       &now,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	return row
}

func newTestLedgerService(db *gorm.DB) *LedgerService {
	return NewLedgerService(
		repository.NewAffiliateCodeRepository(db),
		repository.NewCommissionRepository(db),
		repository.NewWithdrawalRepository(db),
		repository.NewTransferRepository(db),
		repository.NewFunnelEventRepository(db),
	)
}

func newTestReferralService(db *gorm.DB) *ReferralService {
	return NewReferralService(
		repository.NewUserRepository(db),
		repository.NewAffiliateCodeRepository(db),
		repository.NewCommissionRepository(db),
	)
}

func newTestCommissionService(db *gorm.DB, confirmDays int) *CommissionService {
	return NewCommissionService(
		repository.NewCommissionRepository(db),
		repository.NewFunnelEventRepository(db),
		repository.NewProductRepository(db),
		repository.NewAffiliateCodeRepository(db),
		newTestReferralService(db),
		confirmDays,
	)
}

func newTestTrackerService(db *gorm.DB, confirmDays, attributionWindowDays int) *TrackerService {
	return NewTrackerService(
		repository.NewAffiliateCodeRepository(db),
		repository.NewUserRepository(db),
		repository.NewFunnelEventRepository(db),
		repository.NewProductRepository(db),
		newTestCommissionService(db, confirmDays),
		nil,
		attributionWindowDays,
	)
}

func newTestCodeService(db *gorm.DB) *AffiliateCodeService {
	return NewAffiliateCodeService(
		repository.NewAffiliateCodeRepository(db),
		repository.NewUserRepository(db),
	)
}

func newTestWithdrawalService(db *gorm.DB, minWithdrawCents int64, feePercent int) *WithdrawalService {
	return NewWithdrawalService(
		repository.NewAffiliateCodeRepository(db),
		repository.NewWithdrawalRepository(db),
		newTestLedgerService(db),
		minWithdrawCents,
		feePercent,
	)
}

func newTestTransferService(db *gorm.DB) *TransferService {
	return NewTransferService(
		repository.NewAffiliateCodeRepository(db),
		repository.NewTransferRepository(db),
		newTestLedgerService(db),
	)
}
