package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
)

func TestBalanceDerivation(t *testing.T) {
	db := newServiceTestDB(t, "ledger_balance")
	ledger := newTestLedgerService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", nil)
	bobCode := createTestCode(t, db, bob.ID, "BOB23456", constants.AffiliateCodeStatusActive)

	// confirmed 10000 + paid 3000，pending 不计入
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 10000)
	paid := createConfirmedCommission(t, db, 2, code.ID, alice.ID, alice.ID, 1, 3000)
	if err := db.Model(&paid).Update("status", constants.CommissionStatusPaid).Error; err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	pending := createConfirmedCommission(t, db, 3, code.ID, alice.ID, alice.ID, 1, 9999)
	if err := db.Model(&pending).Update("status", constants.CommissionStatusPending).Error; err != nil {
		t.Fatalf("mark pending failed: %v", err)
	}

	// pending 提现 2000 预占
	if err := db.Create(&models.Withdrawal{
		AffiliateCodeID:      code.ID,
		RequestedAmountCents: 2000,
		FeeCents:             60,
		NetAmountCents:       1940,
		WalletAddress:        testWalletAddress,
		Network:              constants.WithdrawalNetworkTRC20,
		Status:               constants.WithdrawalStatusPending,
	}).Error; err != nil {
		t.Fatalf("create withdrawal failed: %v", err)
	}

	// 转出 1500，转入 500
	now := time.Now()
	if err := db.Create(&models.Transfer{
		OriginCodeID:      code.ID,
		DestinationCodeID: bobCode.ID,
		AmountCents:       1500,
		Status:            constants.TransferStatusCompleted,
		CompletedAt:       &now,
	}).Error; err != nil {
		t.Fatalf("create outgoing transfer failed: %v", err)
	}
	if err := db.Create(&models.Transfer{
		OriginCodeID:      bobCode.ID,
		DestinationCodeID: code.ID,
		AmountCents:       500,
		Status:            constants.TransferStatusCompleted,
		CompletedAt:       &now,
	}).Error; err != nil {
		t.Fatalf("create incoming transfer failed: %v", err)
	}

	balance, err := ledger.BalanceOf("ALICE234")
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	// 10000 + 3000 - 2000 - 1500 + 500
	if balance != 10000 {
		t.Fatalf("expected derived balance 10000, got %d", balance)
	}
}

func TestBalanceOfUnknownCode(t *testing.T) {
	db := newServiceTestDB(t, "ledger_unknown")
	ledger := newTestLedgerService(db)

	if _, err := ledger.BalanceOf("MISSING99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReconcileFreezesNegativeBalance(t *testing.T) {
	db := newServiceTestDB(t, "ledger_reconcile")
	ledger := newTestLedgerService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 1000)

	// 模拟源表被破坏：预占超过收入
	if err := db.Create(&models.Withdrawal{
		AffiliateCodeID:      code.ID,
		RequestedAmountCents: 5000,
		FeeCents:             150,
		NetAmountCents:       4850,
		WalletAddress:        testWalletAddress,
		Network:              constants.WithdrawalNetworkTRC20,
		Status:               constants.WithdrawalStatusPending,
	}).Error; err != nil {
		t.Fatalf("create withdrawal failed: %v", err)
	}

	balance, err := ledger.Reconcile(code.ID)
	if !errors.Is(err, ErrIntegrityViolation) {
		t.Fatalf("expected ErrIntegrityViolation, got %v", err)
	}
	if balance != -4000 {
		t.Fatalf("expected derived balance -4000, got %d", balance)
	}

	var frozen models.AffiliateCode
	if err := db.First(&frozen, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if frozen.Status != constants.AffiliateCodeStatusFrozen {
		t.Fatalf("expected code frozen, got %s", frozen.Status)
	}

	// 再次校验仍然上报，不自动修数
	if _, err := ledger.Reconcile(code.ID); !errors.Is(err, ErrIntegrityViolation) {
		t.Fatalf("expected repeated reconcile to keep reporting, got %v", err)
	}
}

func TestReconcileHealthyCode(t *testing.T) {
	db := newServiceTestDB(t, "ledger_reconcile_ok")
	ledger := newTestLedgerService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 2500)

	balance, err := ledger.Reconcile(code.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if balance != 2500 {
		t.Fatalf("expected balance 2500, got %d", balance)
	}

	var reloaded models.AffiliateCode
	if err := db.First(&reloaded, code.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if reloaded.Status != constants.AffiliateCodeStatusActive {
		t.Fatalf("expected code left active, got %s", reloaded.Status)
	}
}

func TestSummaryOfFunnelAndLedger(t *testing.T) {
	db := newServiceTestDB(t, "ledger_summary")
	ledger := newTestLedgerService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	for i, kind := range []string{
		constants.FunnelEventKindClick,
		constants.FunnelEventKindClick,
		constants.FunnelEventKindClick,
		constants.FunnelEventKindClick,
		constants.FunnelEventKindLead,
		constants.FunnelEventKindConversion,
	} {
		event := models.FunnelEvent{
			AffiliateCodeID: code.ID,
			TrackingID:      string(rune('a' + i)),
			Kind:            kind,
		}
		if err := db.Create(&event).Error; err != nil {
			t.Fatalf("create funnel event failed: %v", err)
		}
	}

	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 4000)
	pending := createConfirmedCommission(t, db, 2, code.ID, alice.ID, alice.ID, 1, 1000)
	if err := db.Model(&pending).Update("status", constants.CommissionStatusPending).Error; err != nil {
		t.Fatalf("mark pending failed: %v", err)
	}
	now := time.Now()
	if err := db.Create(&models.Withdrawal{
		AffiliateCodeID:      code.ID,
		RequestedAmountCents: 1500,
		FeeCents:             45,
		NetAmountCents:       1455,
		WalletAddress:        testWalletAddress,
		Network:              constants.WithdrawalNetworkTRC20,
		Status:               constants.WithdrawalStatusPaid,
		PaidAt:               &now,
	}).Error; err != nil {
		t.Fatalf("create paid withdrawal failed: %v", err)
	}

	summary, err := ledger.SummaryOf("ALICE234")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.ClickCount != 4 || summary.LeadCount != 1 || summary.ConversionCount != 1 {
		t.Fatalf("unexpected funnel counts: %+v", summary)
	}
	if summary.ConversionRate != 0.25 {
		t.Fatalf("expected conversion rate 0.25, got %f", summary.ConversionRate)
	}
	if summary.PendingCents != 1000 {
		t.Fatalf("expected pending 1000, got %d", summary.PendingCents)
	}
	if summary.ConfirmedCents != 4000 {
		t.Fatalf("expected confirmed 4000, got %d", summary.ConfirmedCents)
	}
	if summary.WithdrawnCents != 1500 {
		t.Fatalf("expected withdrawn 1500, got %d", summary.WithdrawnCents)
	}
	if summary.AvailableBalanceCents != 2500 {
		t.Fatalf("expected available 2500, got %d", summary.AvailableBalanceCents)
	}
}
