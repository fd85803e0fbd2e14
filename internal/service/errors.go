package service

import "errors"

// 业务哨兵错误，handler 层通过 errors.Is 映射为 HTTP 状态码与 reason
var (
	ErrNotFound                = errors.New("record not found")
	ErrEmailTaken              = errors.New("email already registered")
	ErrMissingAttribution      = errors.New("tracking id cannot be attributed to any affiliate code")
	ErrCodeDisabled            = errors.New("affiliate code is disabled")
	ErrCodeFrozen              = errors.New("affiliate code is frozen")
	ErrCodeStatusInvalid       = errors.New("affiliate code status is invalid")
	ErrUserStatusInvalid       = errors.New("user status is invalid")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrBelowMinimum            = errors.New("amount below withdrawal minimum")
	ErrInvalidWalletFormat     = errors.New("wallet address format is invalid")
	ErrInsufficientBalance     = errors.New("balance is insufficient")
	ErrSelfTransfer            = errors.New("cannot transfer to the same affiliate code")
	ErrWithdrawalNotPending    = errors.New("withdrawal is not pending")
	ErrWithdrawalActionInvalid = errors.New("withdrawal review action is invalid")
	ErrIntegrityViolation      = errors.New("ledger integrity violation")
	ErrProductInactive         = errors.New("product is not active")
	ErrProductInputInvalid     = errors.New("product input is invalid")
	ErrProductKindInvalid      = errors.New("product kind is invalid")
	ErrPercentOutOfRange       = errors.New("commission percent out of range")
	ErrSlugTaken               = errors.New("product slug already exists")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrTokenInvalid            = errors.New("token is invalid or expired")
)
