package provider

import (
	"github.com/nivelup-next/internal/authz"
	"github.com/nivelup-next/internal/cache"
	"github.com/nivelup-next/internal/config"
	"github.com/nivelup-next/internal/logger"
	"github.com/nivelup-next/internal/models"
	"github.com/nivelup-next/internal/queue"
	"github.com/nivelup-next/internal/repository"
	"github.com/nivelup-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	UserRepo       repository.UserRepository
	CodeRepo       repository.AffiliateCodeRepository
	FunnelRepo     repository.FunnelEventRepository
	ProductRepo    repository.ProductRepository
	CommissionRepo repository.CommissionRepository
	WithdrawalRepo repository.WithdrawalRepository
	TransferRepo   repository.TransferRepository

	// Services
	AuthzService      *authz.Service
	AuthService       *service.AuthService
	ReferralService   *service.ReferralService
	CommissionService *service.CommissionService
	TrackerService    *service.TrackerService
	LedgerService     *service.LedgerService
	WithdrawalService *service.WithdrawalService
	TransferService   *service.TransferService
	CodeService       *service.AffiliateCodeService
	ProductService    *service.ProductService
	UserService       *service.UserService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CodeRepo = repository.NewAffiliateCodeRepository(db)
	c.FunnelRepo = repository.NewFunnelEventRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.WithdrawalRepo = repository.NewWithdrawalRepository(db)
	c.TransferRepo = repository.NewTransferRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	affiliateCfg := c.Config.Affiliate

	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT.SecretKey, c.Config.JWT.ExpireHours)
	c.ReferralService = service.NewReferralService(c.UserRepo, c.CodeRepo, c.CommissionRepo)
	c.CommissionService = service.NewCommissionService(
		c.CommissionRepo,
		c.FunnelRepo,
		c.ProductRepo,
		c.CodeRepo,
		c.ReferralService,
		affiliateCfg.ConfirmDays,
	)
	c.TrackerService = service.NewTrackerService(
		c.CodeRepo,
		c.UserRepo,
		c.FunnelRepo,
		c.ProductRepo,
		c.CommissionService,
		c.QueueClient,
		affiliateCfg.AttributionWindowDays,
	)
	c.LedgerService = service.NewLedgerService(
		c.CodeRepo,
		c.CommissionRepo,
		c.WithdrawalRepo,
		c.TransferRepo,
		c.FunnelRepo,
	)
	c.WithdrawalService = service.NewWithdrawalService(
		c.CodeRepo,
		c.WithdrawalRepo,
		c.LedgerService,
		affiliateCfg.MinWithdrawCents,
		affiliateCfg.FeePercent,
	)
	c.TransferService = service.NewTransferService(c.CodeRepo, c.TransferRepo, c.LedgerService)
	c.CodeService = service.NewAffiliateCodeService(c.CodeRepo, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.UserService = service.NewUserService(c.UserRepo)
}
