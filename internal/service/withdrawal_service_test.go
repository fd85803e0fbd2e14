package service

import (
	"errors"
	"testing"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
)

const testWalletAddress = "TQrY8bkbpXKPt2LZbU8jqYkW6eSBvMTdGW"

func TestWithdrawValidationOrder(t *testing.T) {
	db := newServiceTestDB(t, "withdrawal_validation")
	svc := newTestWithdrawalService(db, 5000, 3)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 10000)

	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   0,
		WalletAddress: testWalletAddress,
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   4999,
		WalletAddress: testWalletAddress,
	}); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum at 4999, got %v", err)
	}

	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   5000,
		WalletAddress: "not-a-trc20-address",
	}); !errors.Is(err, ErrInvalidWalletFormat) {
		t.Fatalf("expected ErrInvalidWalletFormat, got %v", err)
	}

	// 0/O/I/l 不属于 base58 字符集
	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   5000,
		WalletAddress: "T0rY8bkbpXKPt2LZbU8jqYkW6eSBvMTdGW",
	}); !errors.Is(err, ErrInvalidWalletFormat) {
		t.Fatalf("expected base58 charset rejection, got %v", err)
	}

	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   20000,
		WalletAddress: testWalletAddress,
	}); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestWithdrawFeeAtBoundary(t *testing.T) {
	db := newServiceTestDB(t, "withdrawal_fee")
	svc := newTestWithdrawalService(db, 5000, 3)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 5000)

	withdrawal, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   5000,
		WalletAddress: testWalletAddress,
	})
	if err != nil {
		t.Fatalf("withdraw at minimum failed: %v", err)
	}
	if withdrawal.FeeCents != 150 {
		t.Fatalf("expected 3%% fee of 150 cents, got %d", withdrawal.FeeCents)
	}
	if withdrawal.NetAmountCents != 4850 {
		t.Fatalf("expected net 4850 cents, got %d", withdrawal.NetAmountCents)
	}
	if withdrawal.Status != constants.WithdrawalStatusPending {
		t.Fatalf("expected pending withdrawal, got %s", withdrawal.Status)
	}
	if withdrawal.Network != constants.WithdrawalNetworkTRC20 {
		t.Fatalf("expected TRC20 network, got %s", withdrawal.Network)
	}
}

func TestWithdrawReservesBalanceWhilePending(t *testing.T) {
	db := newServiceTestDB(t, "withdrawal_reserve")
	svc := newTestWithdrawalService(db, 5000, 3)
	ledger := newTestLedgerService(db)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 12000)

	withdrawal, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   7000,
		WalletAddress: testWalletAddress,
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	balance, err := ledger.BalanceOfCodeID(code.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 5000 {
		t.Fatalf("expected 5000 cents after reservation, got %d", balance)
	}

	// 取消后释放预占
	if _, err := svc.Cancel(withdrawal.ID, "ALICE234"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	balance, err = ledger.BalanceOfCodeID(code.ID)
	if err != nil {
		t.Fatalf("balance failed: %v", err)
	}
	if balance != 12000 {
		t.Fatalf("expected full balance restored, got %d", balance)
	}
}

func TestWithdrawReviewTerminalStates(t *testing.T) {
	db := newServiceTestDB(t, "withdrawal_review")
	svc := newTestWithdrawalService(db, 5000, 3)

	alice := createTestUser(t, db, "alice@example.com", nil)
	code := createTestCode(t, db, alice.ID, "ALICE234", constants.AffiliateCodeStatusActive)
	createConfirmedCommission(t, db, 1, code.ID, alice.ID, alice.ID, 1, 20000)

	withdrawal, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "ALICE234",
		AmountCents:   6000,
		WalletAddress: testWalletAddress,
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	if _, err := svc.Review(withdrawal.ID, 1, "approve", ""); !errors.Is(err, ErrWithdrawalActionInvalid) {
		t.Fatalf("expected ErrWithdrawalActionInvalid, got %v", err)
	}

	paid, err := svc.Review(withdrawal.ID, 1, constants.WithdrawalActionPay, "")
	if err != nil {
		t.Fatalf("review pay failed: %v", err)
	}
	if paid.Status != constants.WithdrawalStatusPaid || paid.PaidAt == nil {
		t.Fatalf("expected paid withdrawal, got %s", paid.Status)
	}
	if paid.ProcessedBy == nil || *paid.ProcessedBy != 1 {
		t.Fatalf("expected processed_by recorded, got %+v", paid.ProcessedBy)
	}

	// 终态不可再变更
	if _, err := svc.Review(withdrawal.ID, 1, constants.WithdrawalActionReject, "late"); !errors.Is(err, ErrWithdrawalNotPending) {
		t.Fatalf("expected ErrWithdrawalNotPending on terminal state, got %v", err)
	}
	if _, err := svc.Cancel(withdrawal.ID, "ALICE234"); !errors.Is(err, ErrWithdrawalNotPending) {
		t.Fatalf("expected cancel rejected on terminal state, got %v", err)
	}
}

func TestWithdrawFromNonActiveCodeRejected(t *testing.T) {
	db := newServiceTestDB(t, "withdrawal_code_status")
	svc := newTestWithdrawalService(db, 5000, 3)

	alice := createTestUser(t, db, "alice@example.com", nil)
	createTestCode(t, db, alice.ID, "FROZEN234", constants.AffiliateCodeStatusFrozen)

	if _, err := svc.Request(WithdrawRequestInput{
		AffiliateCode: "FROZEN234",
		AmountCents:   5000,
		WalletAddress: testWalletAddress,
	}); !errors.Is(err, ErrCodeFrozen) {
		t.Fatalf("expected ErrCodeFrozen, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Withdrawal{}).Count(&count).Error; err != nil {
		t.Fatalf("count withdrawals failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no withdrawal rows, got %d", count)
	}
}
