package service

import (
	"strings"
	"time"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
)

// UserService 用户管理服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List 管理端分页查询用户
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UpdateStatus 管理端启用或停用用户。
// 停用只影响用户本人登录态，不回收其历史佣金。
func (s *UserService) UpdateStatus(userID uint, rawStatus string) (*models.User, error) {
	nextStatus := strings.TrimSpace(rawStatus)
	switch nextStatus {
	case constants.UserStatusActive, constants.UserStatusDisabled:
	default:
		return nil, ErrUserStatusInvalid
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == nextStatus {
		return user, nil
	}

	previous := user.Status
	user.Status = nextStatus
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	logger.Infow("user_status_updated",
		"user_id", user.ID,
		"from", previous,
		"to", nextStatus,
	)
	return user, nil
}
