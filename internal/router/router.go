package router

import (
	"context"
	"net/http"
	"time"

	"brandhub/config"
	"brandhub/internal/domain"
	"brandhub/internal/handler"
	"brandhub/internal/middleware"
	"brandhub/internal/repository"
	"brandhub/internal/service"
	"brandhub/internal/ws"
	"brandhub/pkg/events"
	"brandhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers. pub receives every domain event;
// ledgerHub is also expected to be one of its sinks so admins see events live.
func Setup(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logger.Logger, pub events.Publisher, ledgerHub *ws.LedgerHub) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.RequestLogger(log))
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(ctx, 100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	influencerRepo := repository.NewInfluencerRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	prRepo := repository.NewPrCommissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath, log)
	if fcmSvc != nil {
		log.Info("fcm: push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Warn("fcm: push notifications disabled, failed to init (check service account file)")
	} else {
		log.Info("fcm: push notifications disabled, set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, log)

	settlementSvc := service.NewSettlementService(service.SettlementDeps{
		Applications: applicationRepo,
		Brands:       brandRepo,
		Influencers:  influencerRepo,
		Calculator:   service.NewPayoutCalculator(cfg.Rates.Platform),
		Badges:       service.NewBadgeService(influencerRepo),
		Referrals:    service.NewReferralCommissionService(referralRepo, cfg.Rates.Referral),
		PRs:          service.NewPrCommissionService(brandRepo, prRepo, cfg.Rates.PR),
		Notifier:     notifSvc,
		Events:       pub,
		Log:          log.WithField("component", "settlement"),
	})
	applicationSvc := service.NewApplicationService(applicationRepo, brandRepo, brandRepo, influencerRepo)
	influencerSvc := service.NewInfluencerService(influencerRepo)
	ledgerSvc := service.NewLedgerService(referralRepo, prRepo, influencerRepo, adminRepo, pub, log.WithField("component", "ledger"))

	// Handlers
	applicationHandler := handler.NewApplicationHandler(settlementSvc, applicationSvc, log)
	ledgerHandler := handler.NewLedgerHandler(ledgerSvc, log)
	referralHandler := handler.NewReferralHandler(influencerSvc, log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	meHandler := handler.NewMeHandler(userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminMw := middleware.AdminRequired()
	influencerOnly := middleware.RequireRole(domain.RoleInfluencer)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")
	api.Use(authMw)
	{
		applications := api.Group("/applications")
		{
			applications.POST("/approve/:id", middleware.RequireRole(domain.RoleAdmin, domain.RoleBrand), applicationHandler.Approve)
			applications.POST("", influencerOnly, applicationHandler.Apply)
			applications.POST("/:id/submit", influencerOnly, applicationHandler.Submit)
			applications.GET("/:id", applicationHandler.Get)
		}

		api.GET("/influencers/:id/progress", referralHandler.Progress)

		me := api.Group("/me")
		{
			me.GET("/referral-code", influencerOnly, referralHandler.GetMyReferralCode)
			me.POST("/referral/redeem", influencerOnly, referralHandler.Redeem)
			me.GET("/referral-commissions", influencerOnly, ledgerHandler.MyReferralCommissions)
			me.GET("/pr-commissions", middleware.RequireRole(domain.RolePR), ledgerHandler.MyPrCommissions)
			me.GET("/notifications", notificationHandler.List)
			me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			me.POST("/fcm-token", meHandler.RegisterFCMToken)
		}

		admin := api.Group("")
		admin.Use(adminMw)
		{
			admin.GET("/referral-commissions", ledgerHandler.ListReferralCommissions)
			admin.PUT("/referral-commissions/:id/paid", ledgerHandler.MarkReferralPaid)
			admin.GET("/pr-commissions", ledgerHandler.ListPrCommissions)
			admin.PUT("/pr-commissions/:id/paid", ledgerHandler.MarkPrPaid)
			admin.GET("/admin/settlement-stats", ledgerHandler.SettlementStats)
		}
	}

	r.GET("/ws/ledger", ws.UpgradeLedgerWS(&cfg.JWT, ledgerHub))

	return r
}
