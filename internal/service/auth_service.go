package service

import (
	"strings"
	"time"

	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 管理员认证服务
type AuthService struct {
	adminRepo   repository.AdminRepository
	secret      []byte
	expireHours int
}

// NewAuthService 创建认证服务
func NewAuthService(adminRepo repository.AdminRepository, secret string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		adminRepo:   adminRepo,
		secret:      []byte(secret),
		expireHours: expireHours,
	}
}

// AdminClaims 管理员 Token 声明
type AdminClaims struct {
	AdminID      uint   `json:"admin_id"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// Login 管理员登录，签发 JWT
func (s *AuthService) Login(username, password string) (string, *models.Admin, error) {
	username = strings.TrimSpace(username)
	admin, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := AdminClaims{
		AdminID:      admin.ID,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expireHours) * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	lastLogin := now
	admin.LastLoginAt = &lastLogin
	if err := s.adminRepo.Update(admin); err != nil {
		logger.Warnw("admin_last_login_update_failed", "admin_id", admin.ID, "error", err)
	}
	return token, admin, nil
}

// ParseToken 解析并校验管理员 Token
func (s *AuthService) ParseToken(raw string) (*models.Admin, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	admin, err := s.adminRepo.GetByID(claims.AdminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrTokenInvalid
	}
	if admin.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	if admin.TokenInvalidBefore != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(*admin.TokenInvalidBefore) {
		return nil, ErrTokenInvalid
	}
	return admin, nil
}

// EnsureAdmin 确保管理员存在，不存在则按给定口令创建
func (s *AuthService) EnsureAdmin(username, password string, isSuper bool) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		IsSuper:      isSuper,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	logger.Infow("admin_created", "username", username, "is_super", isSuper)
	return admin, nil
}
