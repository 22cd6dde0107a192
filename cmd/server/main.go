package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/contracthub/cms-backend/internal/config"
	"github.com/contracthub/cms-backend/internal/database"
	"github.com/contracthub/cms-backend/internal/events"
	"github.com/contracthub/cms-backend/internal/handlers"
	"github.com/contracthub/cms-backend/internal/middleware"
	"github.com/contracthub/cms-backend/internal/models"
	"github.com/contracthub/cms-backend/internal/services"
	"github.com/contracthub/cms-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting ContractHub CMS Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	promoterRepository := database.NewPromoterRepository(db)
	contractRepository := database.NewContractRepository(db)
	partyRepository := database.NewPartyRepository(db)
	notificationRepository := database.NewNotificationRepository(db)
	adminUserRepository := database.NewAdminUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	hub := events.NewHub(logger)
	rateLimitService := services.NewRateLimitService(db, cfg.RateLimit)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)
	authService := services.NewAuthService(
		adminUserRepository,
		rateLimitService,
		auditService,
		jwtService,
		cfg.JWT.AccessTokenExpiry,
		logger,
	)
	promoterService := services.NewPromoterService(promoterRepository, hub, logger)
	contractService := services.NewContractService(contractRepository, hub, logger)
	partyService := services.NewPartyService(partyRepository, hub, logger)
	notificationService := services.NewNotificationService(notificationRepository, hub, logger)
	expiryNotifier := services.NewExpiryNotifierService(
		promoterRepository,
		contractRepository,
		notificationRepository,
		notificationService,
		cfg.Notifier,
		logger,
	)

	if err := expiryNotifier.Start(); err != nil {
		logger.Fatalf("Failed to start expiry notifier: %v", err)
	}
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	promoterHandler := handlers.NewPromoterHandler(promoterService, contractService, auditService, logger)
	contractHandler := handlers.NewContractHandler(contractService, auditService, logger)
	partyHandler := handlers.NewPartyHandler(partyService, auditService, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger)
	dashboardHandler := handlers.NewDashboardHandler(promoterService, contractService, notificationService, expiryNotifier, logger)
	eventsHandler := handlers.NewEventsHandler(hub, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(jwtService))
			{
				authProtected.GET("/me", authHandler.Me)
			}
		}

		// Everything below requires a valid access token
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))

		// Change feed for open dashboard views
		protected.GET("/events", eventsHandler.Stream)

		// Dashboard routes
		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardHandler.Summary)
			dashboard.GET("/expiring", dashboardHandler.Expiring)
			dashboard.POST("/expiry-scan", middleware.RequireRole(models.RoleAdmin), dashboardHandler.RunExpiryScan)
		}

		// Promoter routes
		promoters := protected.Group("/promoters")
		{
			promoters.GET("", promoterHandler.List)
			promoters.GET("/export", promoterHandler.Export)
			promoters.GET("/:id", promoterHandler.Get)
			promoters.GET("/:id/contracts", promoterHandler.Contracts)
			promoters.POST("", middleware.RequireRole(models.RoleAdmin), promoterHandler.Create)
			promoters.PUT("/:id", middleware.RequireRole(models.RoleAdmin), promoterHandler.Update)
			promoters.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), promoterHandler.Delete)
		}

		// Contract routes
		contracts := protected.Group("/contracts")
		{
			contracts.GET("", contractHandler.List)
			contracts.GET("/export", contractHandler.Export)
			contracts.GET("/:id", contractHandler.Get)
			contracts.POST("", middleware.RequireRole(models.RoleAdmin), contractHandler.Create)
			contracts.PUT("/:id", middleware.RequireRole(models.RoleAdmin), contractHandler.Update)
			contracts.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), contractHandler.Delete)
		}

		// Party routes
		parties := protected.Group("/parties")
		{
			parties.GET("", partyHandler.List)
			parties.GET("/:id", partyHandler.Get)
			parties.POST("", middleware.RequireRole(models.RoleAdmin), partyHandler.Create)
			parties.PUT("/:id", middleware.RequireRole(models.RoleAdmin), partyHandler.Update)
			parties.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), partyHandler.Delete)
		}

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("", middleware.RequireRole(models.RoleAdmin), notificationHandler.Create)
			notifications.POST("/mark-all-read", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/:id/star", notificationHandler.Star)
			notifications.PATCH("/:id/archive", notificationHandler.Archive)
			notifications.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), notificationHandler.Delete)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	expiryNotifier.Stop()
	hub.Close()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed with errors")
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
