package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/nivelup-next/internal/models"

	"gorm.io/gorm"
)

// FunnelEventRepository 漏斗事件数据访问接口
type FunnelEventRepository interface {
	Create(event *models.FunnelEvent) error
	GetByID(id uint) (*models.FunnelEvent, error)
	GetByCodeTrackingKind(codeID uint, trackingID, kind string) (*models.FunnelEvent, error)
	LatestClickByTrackingID(trackingID string, since time.Time) (*models.FunnelEvent, error)
	CountByCodeAndKind(codeID uint, kind string) (int64, error)
	List(filter FunnelEventListFilter) ([]models.FunnelEvent, int64, error)
	WithTx(tx *gorm.DB) *GormFunnelEventRepository
}

// GormFunnelEventRepository GORM 漏斗事件仓储实现
type GormFunnelEventRepository struct {
	db *gorm.DB
}

// NewFunnelEventRepository 创建漏斗事件仓储
func NewFunnelEventRepository(db *gorm.DB) *GormFunnelEventRepository {
	return &GormFunnelEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFunnelEventRepository) WithTx(tx *gorm.DB) *GormFunnelEventRepository {
	if tx == nil {
		return r
	}
	return &GormFunnelEventRepository{db: tx}
}

// Create 创建漏斗事件
func (r *GormFunnelEventRepository) Create(event *models.FunnelEvent) error {
	return r.db.Create(event).Error
}

// GetByID 按ID获取漏斗事件
func (r *GormFunnelEventRepository) GetByID(id uint) (*models.FunnelEvent, error) {
	if id == 0 {
		return nil, nil
	}
	var event models.FunnelEvent
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// GetByCodeTrackingKind 按幂等键获取事件（首触点判定用）
func (r *GormFunnelEventRepository) GetByCodeTrackingKind(codeID uint, trackingID, kind string) (*models.FunnelEvent, error) {
	trackingID = strings.TrimSpace(trackingID)
	if codeID == 0 || trackingID == "" || kind == "" {
		return nil, nil
	}
	var event models.FunnelEvent
	if err := r.db.Where("affiliate_code_id = ? AND tracking_id = ? AND kind = ?", codeID, trackingID, kind).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// LatestClickByTrackingID 查询追踪标识在归因窗口内最近一次点击
func (r *GormFunnelEventRepository) LatestClickByTrackingID(trackingID string, since time.Time) (*models.FunnelEvent, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, nil
	}
	var event models.FunnelEvent
	if err := r.db.Where("tracking_id = ? AND kind = ? AND created_at >= ?",
		trackingID, "click", since).
		Order("created_at desc").
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// CountByCodeAndKind 统计推广码下某类事件数量
func (r *GormFunnelEventRepository) CountByCodeAndKind(codeID uint, kind string) (int64, error) {
	if codeID == 0 {
		return 0, nil
	}
	var total int64
	query := r.db.Model(&models.FunnelEvent{}).Where("affiliate_code_id = ?", codeID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List 分页查询漏斗事件
func (r *GormFunnelEventRepository) List(filter FunnelEventListFilter) ([]models.FunnelEvent, int64, error) {
	query := r.db.Model(&models.FunnelEvent{})
	if filter.AffiliateCodeID != 0 {
		query = query.Where("affiliate_code_id = ?", filter.AffiliateCodeID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.TrackingID != "" {
		query = query.Where("tracking_id = ?", filter.TrackingID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var events []models.FunnelEvent
	if err := query.Order("id desc").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
