package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
)

func TestAuthLoginAndParseToken(t *testing.T) {
	db := newServiceTestDB(t, "auth_login")
	svc := NewAuthService(repository.NewAdminRepository(db), "test-secret", 1)

	if _, err := svc.EnsureAdmin("root", "s3cret", true); err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}

	token, admin, err := svc.Login("root", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !admin.IsSuper {
		t.Fatalf("expected signed token for super admin")
	}

	parsed, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if parsed.ID != admin.ID {
		t.Fatalf("expected admin %d, got %d", admin.ID, parsed.ID)
	}

	if _, _, err := svc.Login("root", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login("nobody", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAuthParseTokenRejectsRevoked(t *testing.T) {
	db := newServiceTestDB(t, "auth_revoke")
	svc := NewAuthService(repository.NewAdminRepository(db), "test-secret", 1)

	admin, err := svc.EnsureAdmin("root", "s3cret", true)
	if err != nil {
		t.Fatalf("ensure admin failed: %v", err)
	}
	token, _, err := svc.Login("root", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// token_version 变更后旧 Token 立即失效
	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("token_version", admin.TokenVersion+1).Error; err != nil {
		t.Fatalf("bump token version failed: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after version bump, got %v", err)
	}

	// token_invalid_before 晚于签发时间同样拒绝
	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("token_version", admin.TokenVersion).Error; err != nil {
		t.Fatalf("restore token version failed: %v", err)
	}
	cutoff := time.Now().Add(time.Hour)
	if err := db.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Update("token_invalid_before", cutoff).Error; err != nil {
		t.Fatalf("set invalid-before failed: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid after cutoff, got %v", err)
	}

	if _, err := svc.ParseToken("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage token, got %v", err)
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	db := newServiceTestDB(t, "auth_ensure")
	svc := NewAuthService(repository.NewAdminRepository(db), "test-secret", 1)

	first, err := svc.EnsureAdmin("ops", "one", false)
	if err != nil {
		t.Fatalf("first ensure failed: %v", err)
	}
	second, err := svc.EnsureAdmin("ops", "two", true)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing admin reused, got %d and %d", first.ID, second.ID)
	}
	if second.IsSuper {
		t.Fatalf("expected original is_super preserved")
	}
}
