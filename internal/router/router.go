package router

import (
	"fmt"
	"strings"

	"github.com/nivelup-next/internal/cache"
	"github.com/nivelup-next/internal/config"
	adminhandlers "github.com/nivelup-next/internal/http/handlers/admin"
	publichandlers "github.com/nivelup-next/internal/http/handlers/public"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.NewHandler(
		c.TrackerService,
		c.ReferralService,
		c.LedgerService,
		c.WithdrawalService,
		c.TransferService,
		c.ProductService,
	)
	adminHandler := adminhandlers.NewHandler(
		c.AuthService,
		c.CodeService,
		c.CommissionService,
		c.LedgerService,
		c.WithdrawalService,
		c.TransferService,
		c.ProductService,
		c.UserService,
	)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "nu"
	}
	redisClient := cache.Client()
	clickRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:click", redisPrefix),
		WindowSeconds: cfg.Security.ClickRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ClickRateLimit.MaxRequests,
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.ListProducts)
		}

		// 推广漏斗与账务接口
		affiliate := apiV1.Group("/affiliate")
		{
			affiliate.POST("/click", RateLimitMiddleware(redisClient, clickRule, KeyByIP), publicHandler.TrackClick)
			affiliate.POST("/register", publicHandler.Register)
			affiliate.POST("/conversions", publicHandler.TrackConversion)

			affiliate.GET("/:code/balance", publicHandler.Balance)
			affiliate.GET("/:code/referrals", publicHandler.Referrals)
			affiliate.GET("/:code/summary", publicHandler.Summary)
			affiliate.GET("/:code/withdrawals", publicHandler.ListWithdrawals)
			affiliate.GET("/:code/transfers", publicHandler.ListTransfers)

			affiliate.POST("/withdraw", publicHandler.Withdraw)
			affiliate.POST("/withdrawals/:id/cancel", publicHandler.CancelWithdrawal)
			affiliate.POST("/transfer", publicHandler.Transfer)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authorized := admin.Use(AdminAuthMiddleware(c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/codes", adminHandler.ListCodes)
				authorized.PUT("/codes/:id/status", adminHandler.UpdateCodeStatus)
				authorized.POST("/codes/:id/reconcile", adminHandler.ReconcileCode)

				authorized.GET("/users", adminHandler.ListUsers)
				authorized.PUT("/users/:id/status", adminHandler.UpdateUserStatus)

				authorized.GET("/commissions", adminHandler.ListCommissions)
				authorized.POST("/commissions/confirm-due", adminHandler.ConfirmDueCommissions)

				authorized.GET("/withdrawals", adminHandler.ListWithdrawals)
				authorized.POST("/withdrawals/:id/review", adminHandler.ReviewWithdrawal)

				authorized.GET("/transfers", adminHandler.ListTransfers)

				authorized.GET("/products", adminHandler.ListProducts)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.GET("/products/:id", adminHandler.GetProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
