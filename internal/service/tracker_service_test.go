package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
)

func TestRegisterClickFirstTouchIdempotent(t *testing.T) {
	db := newServiceTestDB(t, "tracker_click")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	first, err := svc.RegisterClick(TrackClickInput{
		AffiliateCode: "ALICE234",
		TrackingID:    "trk-1",
		UTMSource:     "newsletter",
	})
	if err != nil {
		t.Fatalf("first click failed: %v", err)
	}

	second, err := svc.RegisterClick(TrackClickInput{
		AffiliateCode: "ALICE234",
		TrackingID:    "trk-1",
		UTMSource:     "twitter",
	})
	if err != nil {
		t.Fatalf("second click failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected first-touch event reused, got %d and %d", first.ID, second.ID)
	}
	if second.UTMSource != "newsletter" {
		t.Fatalf("expected original utm preserved, got %s", second.UTMSource)
	}

	var count int64
	if err := db.Model(&models.FunnelEvent{}).Count(&count).Error; err != nil {
		t.Fatalf("count events failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single click event, got %d", count)
	}
}

func TestRegisterClickRejectsNonActiveCode(t *testing.T) {
	db := newServiceTestDB(t, "tracker_click_status")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "DISABLED1", constants.AffiliateCodeStatusDisabled)
	bob := createTestUser(t, db, "bob@example.com", nil)
	createTestCode(t, db, bob.ID, "FROZEN234", constants.AffiliateCodeStatusFrozen)

	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "DISABLED1", TrackingID: "trk-1"}); !errors.Is(err, ErrCodeDisabled) {
		t.Fatalf("expected ErrCodeDisabled, got %v", err)
	}
	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "FROZEN234", TrackingID: "trk-2"}); !errors.Is(err, ErrCodeFrozen) {
		t.Fatalf("expected ErrCodeFrozen, got %v", err)
	}
	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "MISSING99", TrackingID: "trk-3"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterSignupRequiresAttribution(t *testing.T) {
	db := newServiceTestDB(t, "tracker_signup_attribution")
	svc := newTestTrackerService(db, 0, 30)

	if _, err := svc.RegisterSignup(RegisterSignupInput{
		TrackingID: "trk-unknown",
		Email:      "new@example.com",
	}); !errors.Is(err, ErrMissingAttribution) {
		t.Fatalf("expected ErrMissingAttribution without click, got %v", err)
	}
}

func TestRegisterSignupIgnoresExpiredClick(t *testing.T) {
	db := newServiceTestDB(t, "tracker_signup_window")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	stale := models.FunnelEvent{
		AffiliateCodeID: code.ID,
		TrackingID:      "trk-old",
		Kind:            constants.FunnelEventKindClick,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("create click failed: %v", err)
	}
	if err := db.Model(&stale).Update("created_at", time.Now().Add(-40*24*time.Hour)).Error; err != nil {
		t.Fatalf("backdate click failed: %v", err)
	}

	if _, err := svc.RegisterSignup(RegisterSignupInput{
		TrackingID: "trk-old",
		Email:      "new@example.com",
	}); !errors.Is(err, ErrMissingAttribution) {
		t.Fatalf("expected expired click rejected, got %v", err)
	}
}

func TestRegisterSignupCreatesUserWithOwnCode(t *testing.T) {
	db := newServiceTestDB(t, "tracker_signup")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "ALICE234", TrackingID: "trk-bob"}); err != nil {
		t.Fatalf("click failed: %v", err)
	}

	result, err := svc.RegisterSignup(RegisterSignupInput{
		TrackingID:  "trk-bob",
		Email:       "Bob@Example.com",
		DisplayName: "Bob",
	})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if result.User.Email != "bob@example.com" {
		t.Fatalf("expected normalized email, got %s", result.User.Email)
	}
	if result.User.ReferrerUserID == nil || *result.User.ReferrerUserID != alice.ID {
		t.Fatalf("expected referrer %d, got %+v", alice.ID, result.User.ReferrerUserID)
	}
	if result.AffiliateCode.UserID != result.User.ID || result.AffiliateCode.Code == "" {
		t.Fatalf("expected own affiliate code issued, got %+v", result.AffiliateCode)
	}
	if result.LeadEvent.Kind != constants.FunnelEventKindLead {
		t.Fatalf("expected lead event, got %s", result.LeadEvent.Kind)
	}

	// 重复邮箱拒绝
	if _, err := svc.RegisterSignup(RegisterSignupInput{
		TrackingID: "trk-bob",
		Email:      "bob@example.com",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterConversionTriggersCommissions(t *testing.T) {
	db := newServiceTestDB(t, "tracker_conversion")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	aliceCode := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	product := createTestProduct(t, db, "course", 10000, 10, 5, 2)

	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "ALICE234", TrackingID: "trk-bob"}); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if _, err := svc.RegisterSignup(RegisterSignupInput{
		TrackingID: "trk-bob",
		Email:      "bob@example.com",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	event, err := svc.RegisterConversion(RegisterConversionInput{
		TrackingID:  "trk-bob",
		ProductSlug: "course",
	})
	if err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if event.AffiliateCodeID != aliceCode.ID {
		t.Fatalf("expected attribution to code %d, got %d", aliceCode.ID, event.AffiliateCodeID)
	}
	if event.SaleAmountCents != product.PriceCents {
		t.Fatalf("expected sale amount defaulted to product price %d, got %d", product.PriceCents, event.SaleAmountCents)
	}

	// 队列关闭时同步计算佣金
	var commission models.Commission
	if err := db.Where("conversion_event_id = ?", event.ID).First(&commission).Error; err != nil {
		t.Fatalf("expected commission created synchronously: %v", err)
	}
	if commission.AmountCents != 1000 {
		t.Fatalf("expected 1000 cents L1 commission, got %d", commission.AmountCents)
	}

	// 重复转化幂等
	again, err := svc.RegisterConversion(RegisterConversionInput{
		TrackingID:  "trk-bob",
		ProductSlug: "course",
	})
	if err != nil {
		t.Fatalf("repeated conversion failed: %v", err)
	}
	if again.ID != event.ID {
		t.Fatalf("expected original conversion reused, got %d and %d", event.ID, again.ID)
	}
}

func TestRegisterConversionWithoutAttributionRejected(t *testing.T) {
	db := newServiceTestDB(t, "tracker_conversion_attribution")
	svc := newTestTrackerService(db, 0, 30)

	createTestProduct(t, db, "course", 10000, 10, 5, 2)

	if _, err := svc.RegisterConversion(RegisterConversionInput{
		TrackingID:  "trk-unknown",
		ProductSlug: "course",
	}); !errors.Is(err, ErrMissingAttribution) {
		t.Fatalf("expected ErrMissingAttribution, got %v", err)
	}
}

func TestRegisterConversionInactiveProductRejected(t *testing.T) {
	db := newServiceTestDB(t, "tracker_conversion_product")
	svc := newTestTrackerService(db, 0, 30)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	product := createTestProduct(t, db, "retired", 10000, 10, 5, 2)
	if err := db.Model(&product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	if _, err := svc.RegisterClick(TrackClickInput{AffiliateCode: "ALICE234", TrackingID: "trk-1"}); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if _, err := svc.RegisterConversion(RegisterConversionInput{
		TrackingID:  "trk-1",
		ProductSlug: "retired",
	}); !errors.Is(err, ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}
}
