package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reviewpop/reviewpop-backend/config"
	"github.com/reviewpop/reviewpop-backend/internal/app/controller"
	apperrors "github.com/reviewpop/reviewpop-backend/internal/errors"
	"github.com/reviewpop/reviewpop-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	businessController     *controller.BusinessController
	widgetController       *controller.WidgetController
	reviewController       *controller.ReviewController
	submissionController   *controller.SubmissionController
	analyticsController    *controller.AnalyticsController
	subscriptionController *controller.SubscriptionController
	wsController           *controller.WSController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	widgetController *controller.WidgetController,
	reviewController *controller.ReviewController,
	submissionController *controller.SubmissionController,
	analyticsController *controller.AnalyticsController,
	subscriptionController *controller.SubscriptionController,
	wsController *controller.WSController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		businessController:     businessController,
		widgetController:       widgetController,
		reviewController:       reviewController,
		submissionController:   submissionController,
		analyticsController:    analyticsController,
		subscriptionController: subscriptionController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(dashboardCORS(r.config.CORS.AllowedOrigins))

	// The embed snippet probes unregistered methods on public paths;
	// answer 405 instead of gin's default 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			middleware.SetWidgetCORSHeaders(c)
		}
		apperrors.RespondWithError(c, 405, apperrors.MethodNotAllowed, "Method not allowed")
	})
	router.NoRoute(func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			middleware.SetWidgetCORSHeaders(c)
		}
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Route not found")
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ReviewPop API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
		}

		business := v1.Group("/business")
		business.Use(r.authMiddleware.Authenticate())
		{
			business.GET("", r.businessController.GetBusiness)
			business.PUT("", r.businessController.UpdateBusiness)
		}

		widgets := v1.Group("/widgets")
		widgets.Use(r.authMiddleware.Authenticate())
		{
			widgets.GET("", r.widgetController.ListWidgets)
			widgets.POST("", r.widgetController.CreateWidget)
			widgets.GET("/:id", r.widgetController.GetWidget)
			widgets.PUT("/:id", r.widgetController.UpdateWidget)
			widgets.DELETE("/:id", r.widgetController.DeleteWidget)
			widgets.PATCH("/:id/active", r.widgetController.SetWidgetActive)
			widgets.GET("/:id/snippet", r.widgetController.GetEmbedSnippet)
			widgets.POST("/:id/publish", r.widgetController.PublishEmbed)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.GET("", r.reviewController.ListReviews)
			reviews.POST("", r.reviewController.CreateReview)
			reviews.GET("/stats", r.reviewController.GetReviewStats)
			reviews.GET("/export", r.reviewController.ExportReviews)
			reviews.GET("/:id", r.reviewController.GetReview)
			reviews.PUT("/:id", r.reviewController.UpdateReview)
			reviews.PATCH("/:id/status", r.reviewController.SetReviewStatus)
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
		}

		analytics := v1.Group("/analytics")
		analytics.Use(r.authMiddleware.Authenticate())
		{
			analytics.GET("/summary", r.analyticsController.GetSummary)
			analytics.GET("/daily", r.analyticsController.GetDaily)
			analytics.POST("/events", r.analyticsController.RecordEvent)
		}

		billing := v1.Group("/billing")
		billing.Use(r.authMiddleware.Authenticate())
		{
			billing.GET("/plans", r.subscriptionController.ListPlans)
			billing.POST("/subscriptions", r.subscriptionController.CreateSubscription)
			billing.POST("/subscriptions/approve", r.subscriptionController.ApproveSubscription)
			billing.GET("/subscriptions/current", r.subscriptionController.GetCurrentSubscription)
			billing.POST("/subscriptions/cancel", r.subscriptionController.CancelSubscription)
			billing.POST("/portal", r.subscriptionController.GetBillingPortal)
		}

		// Public endpoints hit by the embed snippet from arbitrary
		// origins. WidgetCORS answers preflights; no auth.
		public := v1.Group("/public")
		public.Use(middleware.WidgetCORS())
		{
			public.POST("/reviews", r.submissionController.SubmitReview)
			public.OPTIONS("/reviews", preflightHandled)
			public.POST("/widgets/:code/view", r.submissionController.TrackWidgetView)
			public.OPTIONS("/widgets/:code/view", preflightHandled)
		}
	}

	router.GET("/ws/dashboard", r.authMiddleware.Authenticate(), r.wsController.DashboardFeed)

	return router
}

// preflightHandled exists so OPTIONS routes match; WidgetCORS aborts
// the preflight before this runs.
func preflightHandled(c *gin.Context) {
	c.JSON(200, gin.H{"message": "OK"})
}

func isPublicPath(path string) bool {
	return strings.HasPrefix(path, "/api/v1/public/")
}

// dashboardCORS handles CORS for the owner dashboard origins. Public
// widget paths carry their own wildcard CORS and are skipped here.
func dashboardCORS(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
