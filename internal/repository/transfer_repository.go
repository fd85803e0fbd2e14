package repository

import (
	"errors"

	"github.com/nivelup-next/internal/models"

	"gorm.io/gorm"
)

// TransferRepository 转账数据访问接口
type TransferRepository interface {
	Create(transfer *models.Transfer) error
	GetByID(id uint) (*models.Transfer, error)
	Update(transfer *models.Transfer) error
	SumOutgoingByCodeAndStatuses(codeID uint, statuses []string) (int64, error)
	SumIncomingByCodeAndStatuses(codeID uint, statuses []string) (int64, error)
	List(filter TransferListFilter) ([]models.Transfer, int64, error)
	WithTx(tx *gorm.DB) *GormTransferRepository
}

// GormTransferRepository GORM 转账仓储实现
type GormTransferRepository struct {
	db *gorm.DB
}

// NewTransferRepository 创建转账仓储
func NewTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTransferRepository) WithTx(tx *gorm.DB) *GormTransferRepository {
	if tx == nil {
		return r
	}
	return &GormTransferRepository{db: tx}
}

// Create 创建转账记录
func (r *GormTransferRepository) Create(transfer *models.Transfer) error {
	return r.db.Create(transfer).Error
}

// GetByID 按ID获取转账记录
func (r *GormTransferRepository) GetByID(id uint) (*models.Transfer, error) {
	if id == 0 {
		return nil, nil
	}
	var transfer models.Transfer
	if err := r.db.First(&transfer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transfer, nil
}

// Update 更新转账记录
func (r *GormTransferRepository) Update(transfer *models.Transfer) error {
	return r.db.Save(transfer).Error
}

// SumOutgoingByCodeAndStatuses 按转出码汇总指定状态的转账金额（分）
func (r *GormTransferRepository) SumOutgoingByCodeAndStatuses(codeID uint, statuses []string) (int64, error) {
	if codeID == 0 || len(statuses) == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Transfer{}).
		Where("origin_code_id = ? AND status IN ?", codeID, statuses).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// SumIncomingByCodeAndStatuses 按转入码汇总指定状态的转账金额（分）
func (r *GormTransferRepository) SumIncomingByCodeAndStatuses(codeID uint, statuses []string) (int64, error) {
	if codeID == 0 || len(statuses) == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Transfer{}).
		Where("destination_code_id = ? AND status IN ?", codeID, statuses).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// List 分页查询转账记录
func (r *GormTransferRepository) List(filter TransferListFilter) ([]models.Transfer, int64, error) {
	query := r.db.Model(&models.Transfer{})
	if filter.CodeID != 0 {
		query = query.Where("(origin_code_id = ? OR destination_code_id = ?)", filter.CodeID, filter.CodeID)
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

	var transfers []models.Transfer
	if err := query.Order("id desc").Find(&transfers).Error; err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}
