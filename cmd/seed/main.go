package main

import (
	"github.com/nivelup-next/internal/config"
	"github.com/nivelup-next/internal/constants"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	adminRepo := repository.NewAdminRepository(models.DB)
	authService := service.NewAuthService(adminRepo, cfg.JWT.SecretKey, cfg.JWT.ExpireHours)
	if _, err := authService.EnsureAdmin("admin", "admin123", true); err != nil {
		stdLog.Printf("Failed to ensure default admin: %v", err)
	}

	// 演示商品：一门课程 + 一项服务
	products := []models.Product{
		{
			Slug:                "golang-mastery",
			Name:                "Go 实战进阶课程",
			Kind:                constants.ProductKindCourse,
			PriceCents:          19900,
			CommissionPercentL1: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			CommissionPercentL2: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			CommissionPercentL3: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
			IsActive:            true,
		},
		{
			Slug:                "resume-review",
			Name:                "简历深度诊断服务",
			Kind:                constants.ProductKindService,
			PriceCents:          9900,
			CommissionPercentL1: models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			CommissionPercentL2: models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			CommissionPercentL3: models.NewMoneyFromDecimal(decimal.NewFromInt(1)),
			IsActive:            true,
		},
	}
	for i := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", products[i].Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&products[i]).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", products[i].Slug, err)
			} else {
				stdLog.Printf("Created product: %s", products[i].Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", products[i].Slug)
		}
	}

	// 演示推荐链：alice -> bob -> carol -> dave（四级，佣金只计算到三级）
	seedUsers := []struct {
		Email       string
		DisplayName string
		Code        string
	}{
		{Email: "alice@example.com", DisplayName: "Alice", Code: "ALICE234"},
		{Email: "bob@example.com", DisplayName: "Bob", Code: "BOB23456"},
		{Email: "carol@example.com", DisplayName: "Carol", Code: "CAROL234"},
		{Email: "dave@example.com", DisplayName: "Dave", Code: "DAVE2345"},
	}

	var referrerID *uint
	for _, seed := range seedUsers {
		var existing models.User
		if err := models.DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", seed.Email)
			id := existing.ID
			referrerID = &id
			continue
		}

		user := models.User{
			Email:          seed.Email,
			DisplayName:    seed.DisplayName,
			Status:         constants.UserStatusActive,
			ReferrerUserID: referrerID,
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seed.Email, err)
			continue
		}
		code := models.AffiliateCode{
			UserID: user.ID,
			Code:   seed.Code,
			Status: constants.AffiliateCodeStatusActive,
		}
		if err := models.DB.Create(&code).Error; err != nil {
			stdLog.Printf("Failed to create affiliate code for %s: %v", seed.Email, err)
			continue
		}
		stdLog.Printf("Created user %s with code %s", seed.Email, seed.Code)
		id := user.ID
		referrerID = &id
	}

	stdLog.Printf("Seed completed")
}
