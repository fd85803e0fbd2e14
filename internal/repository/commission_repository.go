package repository

import (
	"errors"
	"time"

	"github.com/nivelup-next/internal/models"

	"gorm.io/gorm"
)

// CommissionRepository 佣金数据访问接口
type CommissionRepository interface {
	Create(commission *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	GetByEventAndLevel(conversionEventID uint, level int) (*models.Commission, error)
	ListByConversionEvent(conversionEventID uint) ([]models.Commission, error)
	ListDue(now time.Time, limit int) ([]models.Commission, error)
	Update(commission *models.Commission) error
	SumByCodeAndStatuses(codeID uint, statuses []string) (int64, error)
	SumBySourceUsers(beneficiaryUserID uint, sourceUserIDs []uint, statuses []string) (map[uint]int64, error)
	List(filter CommissionListFilter) ([]models.Commission, int64, error)
	WithTx(tx *gorm.DB) *GormCommissionRepository
}

// GormCommissionRepository GORM 佣金仓储实现
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository 创建佣金仓储
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) *GormCommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Create 创建佣金记录
func (r *GormCommissionRepository) Create(commission *models.Commission) error {
	return r.db.Create(commission).Error
}

// GetByID 按ID获取佣金记录
func (r *GormCommissionRepository) GetByID(id uint) (*models.Commission, error) {
	if id == 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.First(&commission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// GetByEventAndLevel 按幂等键获取佣金记录
func (r *GormCommissionRepository) GetByEventAndLevel(conversionEventID uint, level int) (*models.Commission, error) {
	if conversionEventID == 0 || level <= 0 {
		return nil, nil
	}
	var commission models.Commission
	if err := r.db.Where("conversion_event_id = ? AND level = ?", conversionEventID, level).
		First(&commission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &commission, nil
}

// ListByConversionEvent 查询转化事件产生的全部佣金
func (r *GormCommissionRepository) ListByConversionEvent(conversionEventID uint) ([]models.Commission, error) {
	if conversionEventID == 0 {
		return []models.Commission{}, nil
	}
	var commissions []models.Commission
	if err := r.db.Where("conversion_event_id = ?", conversionEventID).
		Order("level asc").Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// ListDue 查询到期待确认的佣金
func (r *GormCommissionRepository) ListDue(now time.Time, limit int) ([]models.Commission, error) {
	query := r.db.Where("status = ? AND confirm_at IS NOT NULL AND confirm_at <= ?",
		"pending", now).
		Order("confirm_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var commissions []models.Commission
	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// Update 更新佣金记录
func (r *GormCommissionRepository) Update(commission *models.Commission) error {
	return r.db.Save(commission).Error
}

// SumByCodeAndStatuses 按推广码汇总指定状态的佣金金额（分）
func (r *GormCommissionRepository) SumByCodeAndStatuses(codeID uint, statuses []string) (int64, error) {
	if codeID == 0 || len(statuses) == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Commission{}).
		Where("affiliate_code_id = ? AND status IN ?", codeID, statuses).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumBySourceUsers 按来源用户分组汇总受益人的佣金金额（分）
func (r *GormCommissionRepository) SumBySourceUsers(beneficiaryUserID uint, sourceUserIDs []uint, statuses []string) (map[uint]int64, error) {
	result := make(map[uint]int64, len(sourceUserIDs))
	if beneficiaryUserID == 0 || len(sourceUserIDs) == 0 || len(statuses) == 0 {
		return result, nil
	}
	var rows []struct {
		SourceUserID uint
		Total        int64
	}
	if err := r.db.Model(&models.Commission{}).
		Where("beneficiary_user_id = ? AND source_user_id IN ? AND status IN ?",
			beneficiaryUserID, sourceUserIDs, statuses).
		Select("source_user_id, COALESCE(SUM(amount_cents), 0) AS total").
		Group("source_user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.SourceUserID] = row.Total
	}
	return result, nil
}

// List 分页查询佣金记录
func (r *GormCommissionRepository) List(filter CommissionListFilter) ([]models.Commission, int64, error) {
	query := r.db.Model(&models.Commission{})
	if filter.AffiliateCodeID != 0 {
		query = query.Where("affiliate_code_id = ?", filter.AffiliateCodeID)
	}
	if filter.BeneficiaryUserID != 0 {
		query = query.Where("beneficiary_user_id = ?", filter.BeneficiaryUserID)
	}
	if filter.SourceUserID != 0 {
		query = query.Where("source_user_id = ?", filter.SourceUserID)
	}
	if filter.Level != 0 {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var commissions []models.Commission
	if err := query.Order("id desc").Find(&commissions).Error; err != nil {
		return nil, 0, err
	}
	return commissions, total, nil
}
