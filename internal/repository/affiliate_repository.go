package repository

import (
	"errors"
	"strings"

	"github.com/nivelup-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AffiliateCodeRepository 推广码数据访问接口
type AffiliateCodeRepository interface {
	GetByID(id uint) (*models.AffiliateCode, error)
	GetByIDForUpdate(id uint) (*models.AffiliateCode, error)
	GetByCode(code string) (*models.AffiliateCode, error)
	GetByUserIDs(userIDs []uint) ([]models.AffiliateCode, error)
	Create(code *models.AffiliateCode) error
	Update(code *models.AffiliateCode) error
	List(filter AffiliateCodeListFilter) ([]models.AffiliateCode, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormAffiliateCodeRepository
}

// GormAffiliateCodeRepository GORM 推广码仓储实现
type GormAffiliateCodeRepository struct {
	db *gorm.DB
}

// NewAffiliateCodeRepository 创建推广码仓储
func NewAffiliateCodeRepository(db *gorm.DB) *GormAffiliateCodeRepository {
	return &GormAffiliateCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAffiliateCodeRepository) WithTx(tx *gorm.DB) *GormAffiliateCodeRepository {
	if tx == nil {
		return r
	}
	return &GormAffiliateCodeRepository{db: tx}
}

// Transaction 开启数据库事务
func (r *GormAffiliateCodeRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetByID 按ID获取推广码
func (r *GormAffiliateCodeRepository) GetByID(id uint) (*models.AffiliateCode, error) {
	if id == 0 {
		return nil, nil
	}
	var code models.AffiliateCode
	if err := r.db.First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByIDForUpdate 按ID加锁获取推广码，余额变动前必须先持有该行锁
func (r *GormAffiliateCodeRepository) GetByIDForUpdate(id uint) (*models.AffiliateCode, error) {
	if id == 0 {
		return nil, nil
	}
	var code models.AffiliateCode
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&code, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

// GetByCode 按对外推广码获取
func (r *GormAffiliateCodeRepository) GetByCode(code string) (*models.AffiliateCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var record models.AffiliateCode
	if err := r.db.Where("code = ?", code).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByUserIDs 按用户ID批量获取推广码
func (r *GormAffiliateCodeRepository) GetByUserIDs(userIDs []uint) ([]models.AffiliateCode, error) {
	if len(userIDs) == 0 {
		return []models.AffiliateCode{}, nil
	}
	var records []models.AffiliateCode
	if err := r.db.Where("user_id IN ?", userIDs).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create 创建推广码
func (r *GormAffiliateCodeRepository) Create(code *models.AffiliateCode) error {
	return r.db.Create(code).Error
}

// Update 更新推广码
func (r *GormAffiliateCodeRepository) Update(code *models.AffiliateCode) error {
	return r.db.Save(code).Error
}

// List 分页查询推广码
func (r *GormAffiliateCodeRepository) List(filter AffiliateCodeListFilter) ([]models.AffiliateCode, int64, error) {
	query := r.db.Model(&models.AffiliateCode{})
	if filter.Code != "" {
		query = query.Where("code LIKE ?", "%"+filter.Code+"%")
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.AffiliateCode
	if err := query.Order("id desc").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
