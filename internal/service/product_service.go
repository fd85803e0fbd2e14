package service

import (
	"strings"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品服务，商品上的分层比例是佣金计算的唯一依据
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Slug                string
	Name                string
	Kind                string
	PriceCents          int64
	CommissionPercentL1 models.Money
	CommissionPercentL2 models.Money
	CommissionPercentL3 models.Money
	IsActive            *bool
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	product := &models.Product{
		Slug:                slug,
		Name:                strings.TrimSpace(input.Name),
		Kind:                strings.TrimSpace(input.Kind),
		PriceCents:          input.PriceCents,
		CommissionPercentL1: input.CommissionPercentL1,
		CommissionPercentL2: input.CommissionPercentL2,
		CommissionPercentL3: input.CommissionPercentL3,
		IsActive:            true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Create(product); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(productID uint, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	if slug != product.Slug {
		existing, err := s.productRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, ErrSlugTaken
		}
		product.Slug = slug
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Kind = strings.TrimSpace(input.Kind)
	product.PriceCents = input.PriceCents
	product.CommissionPercentL1 = input.CommissionPercentL1
	product.CommissionPercentL2 = input.CommissionPercentL2
	product.CommissionPercentL3 = input.CommissionPercentL3
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID 按ID获取商品
func (s *ProductService) GetByID(productID uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// List 分页查询商品
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

var maxPercent = decimal.NewFromInt(100)

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Slug) == "" || strings.TrimSpace(input.Name) == "" {
		return ErrProductInputInvalid
	}
	kind := strings.TrimSpace(input.Kind)
	if kind != constants.ProductKindCourse && kind != constants.ProductKindService {
		return ErrProductKindInvalid
	}
	if input.PriceCents < 0 {
		return ErrInvalidAmount
	}
	for _, percent := range []models.Money{
		input.CommissionPercentL1,
		input.CommissionPercentL2,
		input.CommissionPercentL3,
	} {
		if percent.Decimal.IsNegative() || percent.Decimal.GreaterThan(maxPercent) {
			return ErrPercentOutOfRange
		}
	}
	return nil
}
