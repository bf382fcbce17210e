package router

import (
	"chillconnect/config"
	"chillconnect/internal/domain"
	"chillconnect/internal/handler"
	"chillconnect/internal/middleware"
	"chillconnect/internal/repository"
	"chillconnect/internal/service"
	"chillconnect/pkg/payment"
	"chillconnect/pkg/sms"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider payment.Provider, sender sms.Sender) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	verifRepo := repository.NewVerificationRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	itemRepo := repository.NewWorkItemRepository(db)

	// Services
	notifSvc := service.NewNotificationService(notificationRepo)
	otpSvc := service.NewOTPService(&cfg.OTP, db, sender, notifSvc)
	bookingSvc := service.NewBookingService(db, &cfg.Token, otpSvc, notifSvc)
	assignSvc := service.NewAssignmentService(db, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(&cfg.JWT, userRepo)
	bookingHandler := handler.NewBookingHandler(bookingSvc, otpSvc, bookingRepo)
	walletHandler := handler.NewWalletHandler(&cfg.Token, walletRepo, withdrawalRepo, provider)
	webhookHandler := handler.NewPaymentWebhookHandler(walletRepo, withdrawalRepo, provider, notifSvc)
	verificationHandler := handler.NewVerificationHandler(verifRepo, itemRepo, assignSvc, notifSvc)
	disputeHandler := handler.NewDisputeHandler(disputeRepo, bookingRepo, itemRepo, walletRepo, assignSvc, notifSvc)
	ratingHandler := handler.NewRatingHandler(ratingRepo, bookingRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	staffHandler := handler.NewStaffHandler(itemRepo, userRepo, assignSvc, otpSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	// Registered after authMw so the limiter keys on the user ID; the auth
	// endpoints get it on their own and are limited per client IP.
	rateMw := middleware.RateLimit(middleware.NewClientLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateMw)
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw, rateMw)
		{
			bookings.POST("", middleware.RequireRole(domain.RoleSeeker), bookingHandler.Create)
			bookings.GET("", bookingHandler.ListMine)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.GET("/:id/otp", middleware.RequireRole(domain.RoleSeeker), bookingHandler.SeekerOTP)
			bookings.POST("/:id/otp/sms", middleware.RequireRole(domain.RoleProvider), bookingHandler.ProviderOTP)
			bookings.POST("/:id/disputes", disputeHandler.File)
			bookings.GET("/:id/disputes", disputeHandler.ListForBooking)
			bookings.POST("/:id/ratings", ratingHandler.Create)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw, rateMw)
		{
			wallet.GET("", walletHandler.GetBalance)
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.POST("/purchase", middleware.RequireRole(domain.RoleSeeker), walletHandler.Purchase)
			wallet.POST("/withdraw", middleware.RequireRole(domain.RoleProvider), walletHandler.Withdraw)
			wallet.GET("/withdrawals", middleware.RequireRole(domain.RoleProvider), walletHandler.ListWithdrawals)
		}

		api.GET("/users/:id/ratings", authMw, rateMw, ratingHandler.ListForUser)

		verifications := api.Group("/verifications")
		verifications.Use(authMw, rateMw)
		{
			verifications.POST("", middleware.RequireRole(domain.RoleProvider), verificationHandler.Submit)
			verifications.GET("", middleware.RequireRole(domain.RoleProvider), verificationHandler.ListMine)
			verifications.POST("/:id/decide", middleware.RequireRole(domain.RoleEmployee, domain.RoleAdmin), verificationHandler.Decide)
		}

		api.POST("/disputes/:id/resolve", authMw, rateMw, middleware.RequireRole(domain.RoleManager, domain.RoleAdmin), disputeHandler.Resolve)

		notifications := api.Group("/notifications")
		notifications.Use(authMw, rateMw)
		{
			notifications.GET("", notificationHandler.ListMine)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		staff := api.Group("/staff")
		staff.Use(authMw, rateMw, middleware.RequireRole(domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin))
		{
			staff.GET("/work-items", staffHandler.MyWorkItems)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, rateMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/pools/:pool/assign-next", staffHandler.AssignNext)
			admin.PUT("/pools/:pool/members", staffHandler.SetPoolMembership)
			admin.POST("/work-items/:id/reassign", staffHandler.Reassign)
			admin.POST("/bookings/:id/otp-unlock", staffHandler.UnlockOTPGate)
		}

		api.POST("/webhooks/payment", webhookHandler.PurchaseConfirmed)
		api.POST("/webhooks/payout", webhookHandler.PayoutConfirmed)
	}

	return r
}
