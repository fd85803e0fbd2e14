package service

import (
	"errors"
	"testing"

	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestProductService(db *gorm.DB) *ProductService {
	return NewProductService(repository.NewProductRepository(db))
}

func validProductInput(slug string) ProductInput {
	return ProductInput{
		Slug:                slug,
		Name:                "Go 进阶课",
		Kind:                constants.ProductKindCourse,
		PriceCents:          19900,
		CommissionPercentL1: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		CommissionPercentL2: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
		CommissionPercentL3: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
	}
}

func TestProductCreateAndSlugUnique(t *testing.T) {
	db := newServiceTestDB(t, "product_create")
	svc := newTestProductService(db)

	product, err := svc.Create(validProductInput("go-course"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !product.IsActive {
		t.Fatalf("expected product active by default")
	}

	if _, err := svc.Create(validProductInput("go-course")); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestProductInputValidation(t *testing.T) {
	db := newServiceTestDB(t, "product_validation")
	svc := newTestProductService(db)

	missingName := validProductInput("p1")
	missingName.Name = "  "
	if _, err := svc.Create(missingName); !errors.Is(err, ErrProductInputInvalid) {
		t.Fatalf("expected ErrProductInputInvalid, got %v", err)
	}

	badKind := validProductInput("p2")
	badKind.Kind = "ebook"
	if _, err := svc.Create(badKind); !errors.Is(err, ErrProductKindInvalid) {
		t.Fatalf("expected ErrProductKindInvalid, got %v", err)
	}

	negativePrice := validProductInput("p3")
	negativePrice.PriceCents = -1
	if _, err := svc.Create(negativePrice); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	overPercent := validProductInput("p4")
	overPercent.CommissionPercentL2 = models.NewMoneyFromDecimal(decimal.NewFromInt(101))
	if _, err := svc.Create(overPercent); !errors.Is(err, ErrPercentOutOfRange) {
		t.Fatalf("expected ErrPercentOutOfRange, got %v", err)
	}
}

func TestProductUpdateSlugConflict(t *testing.T) {
	db := newServiceTestDB(t, "product_update")
	svc := newTestProductService(db)

	first, err := svc.Create(validProductInput("first"))
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if _, err := svc.Create(validProductInput("second")); err != nil {
		t.Fatalf("create second failed: %v", err)
	}

	conflicting := validProductInput("second")
	if _, err := svc.Update(first.ID, conflicting); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken on update, got %v", err)
	}

	inactive := false
	renamed := validProductInput("first-v2")
	renamed.IsActive = &inactive
	updated, err := svc.Update(first.ID, renamed)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Slug != "first-v2" || updated.IsActive {
		t.Fatalf("expected renamed inactive product, got %+v", updated)
	}
}
