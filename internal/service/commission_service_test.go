package service

import (
	"testing"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
)

func TestCalculateThreeLevelCommissions(t *testing.T) {
	db := newServiceTestDB(t, "commission_levels")
	svc := newTestCommissionService(db, 0)

	// alice <- bob <- carol <- dave 的推荐链，dave 下单
	alice := createTestUser(t, db, "alice@example.com", nil)
	aliceCode := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)
	bobCode := createTestCode(t, db, bob.ID, "BOB23456", constants.AffiliateCodeStatusActive)
	carol := createTestUser(t, db, "carol@example.com", &bob.ID)
	carolCode := createTestCode(t, db, carol.ID, "CAROL234", constants.AffiliateCodeStatusActive)
	dave := createTestUser(t, db, "dave@example.com", &carol.ID)

	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)
	event := createTestConversion(t, db, carolCode.ID, "trk-dave", &dave.ID, product.ID, 10000)

	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	var commissions []models.Commission
	if err := db.Order("level asc").Find(&commissions).Error; err != nil {
		t.Fatalf("load commissions failed: %v", err)
	}
	if len(commissions) != 3 {
		t.Fatalf("expected 3 commissions, got %d", len(commissions))
	}

	expected := []struct {
		beneficiary uint
		codeID      uint
		amount      int64
	}{
		{carol.ID, carolCode.ID, 1000},
		{bob.ID, bobCode.ID, 500},
		{alice.ID, aliceCode.ID, 200},
	}
	for i, want := range expected {
		got := commissions[i]
		if got.Level != i+1 {
			t.Fatalf("commission %d: expected level %d, got %d", i, i+1, got.Level)
		}
		if got.BeneficiaryUserID != want.beneficiary {
			t.Fatalf("level %d: expected beneficiary %d, got %d", got.Level, want.beneficiary, got.BeneficiaryUserID)
		}
		if got.AffiliateCodeID != want.codeID {
			t.Fatalf("level %d: expected code %d, got %d", got.Level, want.codeID, got.AffiliateCodeID)
		}
		if got.AmountCents != want.amount {
			t.Fatalf("level %d: expected %d cents, got %d", got.Level, want.amount, got.AmountCents)
		}
		if got.Status != constants.CommissionStatusConfirmed {
			t.Fatalf("level %d: expected confirmed with confirm_days=0, got %s", got.Level, got.Status)
		}
	}
}

func TestCalculateIdempotentOnRedelivery(t *testing.T) {
	db := newServiceTestDB(t, "commission_idempotent")
	svc := newTestCommissionService(db, 0)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)
	bobCode := createTestCode(t, db, bob.ID, "BOB23456", constants.AffiliateCodeStatusActive)
	carol := createTestUser(t, db, "carol@example.com", &bob.ID)

	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)
	event := createTestConversion(t, db, bobCode.ID, "trk-carol", &carol.ID, product.ID, 10000)

	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("first calculate failed: %v", err)
	}
	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("second calculate failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Commission{}).Count(&count).Error; err != nil {
		t.Fatalf("count commissions failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 commissions after redelivery, got %d", count)
	}

	// 重投递不改写首次落库的记录
	commissionRepo := repository.NewCommissionRepository(db)
	level1, err := commissionRepo.GetByEventAndLevel(event.ID, 1)
	if err != nil {
		t.Fatalf("load level 1 commission failed: %v", err)
	}
	if level1 == nil || level1.BeneficiaryUserID != bob.ID || level1.AmountCents != 1000 {
		t.Fatalf("expected intact level 1 commission for bob, got %+v", level1)
	}
}

func TestCalculateSkipsInactiveAncestorCode(t *testing.T) {
	db := newServiceTestDB(t, "commission_inactive")
	svc := newTestCommissionService(db, 0)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusDisabled)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)
	bobCode := createTestCode(t, db, bob.ID, "BOB23456", constants.AffiliateCodeStatusActive)
	carol := createTestUser(t, db, "carol@example.com", &bob.ID)

	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)
	event := createTestConversion(t, db, bobCode.ID, "trk-carol", &carol.ID, product.ID, 10000)

	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	var commissions []models.Commission
	if err := db.Find(&commissions).Error; err != nil {
		t.Fatalf("load commissions failed: %v", err)
	}
	if len(commissions) != 1 {
		t.Fatalf("expected only L1 commission, got %d rows", len(commissions))
	}
	if commissions[0].BeneficiaryUserID != bob.ID || commissions[0].Level != 1 {
		t.Fatalf("expected L1 commission for bob, got level %d beneficiary %d", commissions[0].Level, commissions[0].BeneficiaryUserID)
	}
}

func TestCalculateBankersRounding(t *testing.T) {
	db := newServiceTestDB(t, "commission_rounding")
	svc := newTestCommissionService(db, 0)

	alice := createTestUser(t, db, "alice@example.com", nil)
	aliceCode := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)

	// 345 * 10% = 34.5 分，银行家舍入到偶数 34
	product := createTestProduct(t, db, "course", 345, 10, 0, 0)
	event := createTestConversion(t, db, aliceCode.ID, "trk-bob", &bob.ID, product.ID, 345)

	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	var commission models.Commission
	if err := db.First(&commission).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if commission.AmountCents != 34 {
		t.Fatalf("expected 34 cents after banker's rounding, got %d", commission.AmountCents)
	}
}

func TestConfirmDueCommissionsPromotesPending(t *testing.T) {
	db := newServiceTestDB(t, "commission_confirm_due")
	svc := newTestCommissionService(db, 7)

	alice := createTestUser(t, db, "alice@example.com", nil)
	aliceCode := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)

	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)
	event := createTestConversion(t, db, aliceCode.ID, "trk-bob", &bob.ID, product.ID, 10000)

	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	var pending models.Commission
	if err := db.First(&pending).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if pending.Status != constants.CommissionStatusPending || pending.ConfirmAt == nil {
		t.Fatalf("expected pending commission with confirm_at, got status %s", pending.Status)
	}

	// 到期前不确认
	confirmed, err := svc.ConfirmDueCommissions(time.Now())
	if err != nil {
		t.Fatalf("confirm due failed: %v", err)
	}
	if confirmed != 0 {
		t.Fatalf("expected no confirmations before due date, got %d", confirmed)
	}

	confirmed, err = svc.ConfirmDueCommissions(time.Now().Add(8 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("confirm due failed: %v", err)
	}
	if confirmed != 1 {
		t.Fatalf("expected 1 confirmation after due date, got %d", confirmed)
	}

	var updated models.Commission
	if err := db.First(&updated, pending.ID).Error; err != nil {
		t.Fatalf("reload commission failed: %v", err)
	}
	if updated.Status != constants.CommissionStatusConfirmed || updated.ConfirmedAt == nil {
		t.Fatalf("expected confirmed commission, got status %s", updated.Status)
	}
}

func TestConfirmDueCommissionsSkipsFrozenCode(t *testing.T) {
	db := newServiceTestDB(t, "commission_confirm_frozen")
	svc := newTestCommissionService(db, 7)

	alice := createTestUser(t, db, "alice@example.com", nil)
	aliceCode := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)

	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)
	event := createTestConversion(t, db, aliceCode.ID, "trk-bob", &bob.ID, product.ID, 10000)
	if err := svc.Calculate(event.ID); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	if err := db.Model(&models.AffiliateCode{}).
		Where("id = ?", aliceCode.ID).
		Update("status", constants.AffiliateCodeStatusFrozen).Error; err != nil {
		t.Fatalf("freeze code failed: %v", err)
	}

	confirmed, err := svc.ConfirmDueCommissions(time.Now().Add(8 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("confirm due failed: %v", err)
	}
	if confirmed != 0 {
		t.Fatalf("expected frozen code commissions skipped, got %d confirmed", confirmed)
	}

	var commission models.Commission
	if err := db.First(&commission).Error; err != nil {
		t.Fatalf("load commission failed: %v", err)
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected commission left pending, got %s", commission.Status)
	}
}
