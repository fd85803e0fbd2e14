package service

import (
	"errors"
	"testing"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/repository"
)

func TestCodeUpdateStatusTransitions(t *testing.T) {
	db := newServiceTestDB(t, "code_status")
	svc := newTestCodeService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	updated, err := svc.UpdateStatus(code.ID, constants.AffiliateCodeStatusFrozen)
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.AffiliateCodeStatusFrozen {
		t.Fatalf("expected frozen, got %s", updated.Status)
	}

	// 同状态更新为空操作
	same, err := svc.UpdateStatus(code.ID, constants.AffiliateCodeStatusFrozen)
	if err != nil {
		t.Fatalf("idempotent update failed: %v", err)
	}
	if same.Status != constants.AffiliateCodeStatusFrozen {
		t.Fatalf("expected frozen unchanged, got %s", same.Status)
	}

	if _, err := svc.UpdateStatus(code.ID, "banned"); !errors.Is(err, ErrCodeStatusInvalid) {
		t.Fatalf("expected ErrCodeStatusInvalid, got %v", err)
	}
	if _, err := svc.UpdateStatus(9999, constants.AffiliateCodeStatusActive); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCodeGetByCodeTrimsInput(t *testing.T) {
	db := newServiceTestDB(t, "code_lookup")
	svc := newTestCodeService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)

	code, err := svc.GetByCode("  ALICE234  ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if code.Code != "ALICE234" {
		t.Fatalf("expected ALICE234, got %s", code.Code)
	}

	if _, err := svc.GetByCode("MISSING99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCodeListWithOwnersAttachesUserInfo(t *testing.T) {
	db := newServiceTestDB(t, "code_list_owners")
	svc := newTestCodeService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	bob := createTestUser(t, db, "bob@example.com", &alice.ID)
	createTestCode(t, db, bob.ID, "BOB23456", constants.AffiliateCodeStatusDisabled)

	items, total, err := svc.ListWithOwners(repository.AffiliateCodeListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list with owners failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 codes, got total=%d len=%d", total, len(items))
	}
	byCode := make(map[string]CodeWithOwner, len(items))
	for _, item := range items {
		byCode[item.Code] = item
	}
	if byCode["ALICE234"].OwnerEmail != "alice@example.com" {
		t.Fatalf("expected alice as owner of ALICE234, got %s", byCode["ALICE234"].OwnerEmail)
	}
	if byCode["BOB23456"].OwnerEmail != "bob@example.com" {
		t.Fatalf("expected bob as owner of BOB23456, got %s", byCode["BOB23456"].OwnerEmail)
	}

	disabledOnly, total, err := svc.ListWithOwners(repository.AffiliateCodeListFilter{
		Page:     1,
		PageSize: 20,
		Status:   constants.AffiliateCodeStatusDisabled,
	})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 1 || len(disabledOnly) != 1 || disabledOnly[0].Code != "BOB23456" {
		t.Fatalf("expected only BOB23456 disabled, got %+v", disabledOnly)
	}
}
