package router

import (
	"net/http"
	"time"

	"qipad/config"
	"qipad/internal/domain"
	"qipad/internal/handler"
	"qipad/internal/middleware"
	"qipad/internal/repository"
	"qipad/internal/service"
	"qipad/internal/ws"
	"qipad/pkg/cloudinary"
	"qipad/pkg/payment"

	"firebase.google.com/go/v4/messaging"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Services exposes what the background jobs need after wiring.
type Services struct {
	Payments  *service.PaymentService
	Referrals *service.ReferralService
	Outbox    *repository.OutboxRepository
}

func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, cloud cloudinary.Client, fcm *messaging.Client) (*gin.Engine, *Services) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(300, time.Minute)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	jobRepo := repository.NewJobRepository(db)
	eventRepo := repository.NewEventRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	fundingHub := ws.NewFundingHub()

	// Services
	walletSvc := service.NewWalletService(db, walletRepo, redisClient)
	creditSvc := service.NewCreditService(walletSvc)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcm)
	referralSvc := service.NewReferralService(db, referralRepo, userRepo, walletSvc, outboxRepo, settingRepo, cfg, notifSvc)
	provider := payment.NewPayUProvider(cfg.PayU.MerchantKey, cfg.PayU.Salt, cfg.PayU.BaseURL)
	paymentSvc := service.NewPaymentService(db, paymentRepo, investmentRepo, projectRepo, eventRepo, companyRepo,
		outboxRepo, userRepo, walletSvc, referralSvc, provider, cfg, notifSvc, fundingHub)
	investmentSvc := service.NewInvestmentService(investmentRepo, projectRepo, paymentSvc, notifSvc)
	projectSvc := service.NewProjectService(projectRepo, creditSvc)
	jobSvc := service.NewJobService(jobRepo, creditSvc)
	eventSvc := service.NewEventService(eventRepo, creditSvc, paymentSvc)
	companySvc := service.NewCompanyService(companyRepo, creditSvc, paymentSvc, db)
	authSvc := service.NewAuthService(userRepo, walletSvc, referralSvc, settingRepo, cfg)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleHandler := handler.NewGoogleOAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	creditHandler := handler.NewCreditHandler(creditSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	investmentHandler := handler.NewInvestmentHandler(investmentSvc)
	projectHandler := handler.NewProjectHandler(projectSvc, creditSvc)
	jobHandler := handler.NewJobHandler(jobSvc, creditSvc)
	eventHandler := handler.NewEventHandler(eventSvc, creditSvc)
	companyHandler := handler.NewCompanyHandler(companySvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	uploadHandler := handler.NewUploadHandler(cloud, projectSvc)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	authLimiter := middleware.NewRateLimiter(20, time.Minute)
	authGroup := v1.Group("/auth", middleware.RateLimit(authLimiter))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/google", googleHandler.Login)
		authGroup.GET("/google/callback", googleHandler.Callback)
	}

	// Gateway server-to-server callback; authenticated by its hash, not JWT.
	v1.POST("/payments/callback", paymentHandler.Callback)

	authed := v1.Group("", middleware.AuthRequired(&cfg.JWT))
	{
		authed.GET("/me", authHandler.Me)
		authed.POST("/me/change-password", authHandler.ChangePassword)
		authed.POST("/me/kyc/complete", authHandler.CompleteKYC)
		authed.PUT("/me/fcm-token", authHandler.UpdateFCMToken)
		authed.GET("/me/projects", projectHandler.Mine)
		authed.GET("/me/companies", companyHandler.Mine)
		authed.GET("/me/investments", investmentHandler.ListMine)

		authed.GET("/wallet", walletHandler.Balance)
		authed.GET("/wallet/transactions", walletHandler.Transactions)

		authed.GET("/credits/check", creditHandler.Check)
		authed.GET("/credits/costs", creditHandler.Costs)

		authed.POST("/payments/deposit", paymentHandler.Deposit)
		authed.GET("/payments", paymentHandler.List)
		authed.GET("/payments/:id", paymentHandler.Get)

		authed.GET("/projects", projectHandler.List)
		authed.GET("/projects/:id", projectHandler.Get)
		authed.POST("/projects", middleware.RequireRole(domain.RoleEntrepreneur), projectHandler.Create)
		authed.POST("/projects/:id/close", projectHandler.Close)
		authed.POST("/projects/:id/media", uploadHandler.ProjectMedia)
		authed.GET("/projects/:id/investments", investmentHandler.ListByProject)
		authed.POST("/projects/:id/interest", middleware.RequireRole(domain.RoleInvestor), investmentHandler.ExpressInterest)
		authed.POST("/projects/:id/invest", middleware.RequireRole(domain.RoleInvestor), investmentHandler.Invest)

		authed.GET("/jobs", jobHandler.List)
		authed.GET("/jobs/:id", jobHandler.Get)
		authed.POST("/jobs", jobHandler.Create)
		authed.POST("/jobs/:id/apply", jobHandler.Apply)
		authed.GET("/jobs/:id/applications", jobHandler.Applications)

		authed.GET("/events", eventHandler.List)
		authed.GET("/events/:id", eventHandler.Get)
		authed.POST("/events", eventHandler.Create)
		authed.POST("/events/:id/register", eventHandler.Register)
		authed.GET("/events/:id/registrations", eventHandler.Registrations)

		authed.POST("/companies", middleware.RequireRole(domain.RoleEntrepreneur), companyHandler.Register)
		authed.GET("/companies/:id", companyHandler.Get)

		authed.GET("/referrals/code", referralHandler.MyCode)
		authed.GET("/referrals", referralHandler.MyReferrals)

		authed.GET("/notifications", notificationHandler.List)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	}

	r.GET("/ws/funding", ws.UpgradeFundingWS(&cfg.JWT, fundingHub))

	return r, &Services{
		Payments:  paymentSvc,
		Referrals: referralSvc,
		Outbox:    outboxRepo,
	}
}
