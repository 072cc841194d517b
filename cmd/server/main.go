package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/reviewpop/reviewpop-backend/config"
	"github.com/reviewpop/reviewpop-backend/internal/app/controller"
	"github.com/reviewpop/reviewpop-backend/internal/app/repository"
	"github.com/reviewpop/reviewpop-backend/internal/app/service"
	"github.com/reviewpop/reviewpop-backend/internal/db"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
	"github.com/reviewpop/reviewpop-backend/internal/router"
	"github.com/reviewpop/reviewpop-backend/internal/scheduler"
	"github.com/reviewpop/reviewpop-backend/internal/storage"
	"github.com/reviewpop/reviewpop-backend/internal/websocket"
	"github.com/reviewpop/reviewpop-backend/pkg/logger"
	"github.com/reviewpop/reviewpop-backend/pkg/payment/paypal"
	"github.com/reviewpop/reviewpop-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting ReviewPop Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the widget config cache and the submission rate
	// limiter; both degrade gracefully without it.
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, widget caching and rate limiting disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// PayPal client for subscription billing
	var paypalClient *paypal.Client
	if cfg.Payment.PayPal.ClientID != "" {
		paypalClient, err = paypal.NewClient(paypal.Config{
			ClientID:  cfg.Payment.PayPal.ClientID,
			Secret:    cfg.Payment.PayPal.Secret,
			BaseURL:   cfg.Payment.PayPal.BaseURL,
			ReturnURL: cfg.Payment.PayPal.ReturnURL,
			CancelURL: cfg.Payment.PayPal.CancelURL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize PayPal client", err)
		}
	} else {
		logger.Warn("PayPal credentials not configured, paid plans disabled")
	}

	// S3 publishing for hosted embed assets
	var s3Storage *storage.S3Storage
	if cfg.S3.Enabled {
		s3Storage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	widgetRepo := repository.NewWidgetRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	analyticsRepo := repository.NewAnalyticsRepository(db.GetDB())
	subscriptionRepo := repository.NewSubscriptionRepository(db.GetDB())

	// Live dashboard feed
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		businessRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	businessService := service.NewBusinessService(businessRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, paypalClient, cfg.Payment.PayPal.PortalURL)
	widgetService := service.NewWidgetService(widgetRepo, subscriptionService, s3Storage, cfg.Widget.PublicBaseURL)
	reviewService := service.NewReviewService(reviewRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo)
	submissionService := service.NewSubmissionService(
		widgetRepo,
		reviewRepo,
		analyticsRepo,
		hub,
		cfg.Widget.SubmitRateLimit,
		cfg.Widget.CacheTTL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	businessController := controller.NewBusinessController(businessService)
	widgetController := controller.NewWidgetController(widgetService, businessService)
	reviewController := controller.NewReviewController(reviewService, businessService)
	submissionController := controller.NewSubmissionController(submissionService)
	analyticsController := controller.NewAnalyticsController(analyticsService, businessService)
	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	wsController := controller.NewWSController(hub, businessService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Daily analytics rollup
	analyticsScheduler := scheduler.NewAnalyticsScheduler(analyticsService)
	if err := analyticsScheduler.Start(); err != nil {
		logger.Fatal("Failed to start analytics scheduler", err)
	}
	defer analyticsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		businessController,
		widgetController,
		reviewController,
		submissionController,
		analyticsController,
		subscriptionController,
		wsController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
