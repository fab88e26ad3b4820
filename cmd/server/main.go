package main

import (
	"fmt"
	"log"

	adminHandlers "github.com/architect/rizal-quest/internal/admin/handlers"
	adminServices "github.com/architect/rizal-quest/internal/admin/services"
	analyticsHandlers "github.com/architect/rizal-quest/internal/analytics/handlers"
	analyticsModels "github.com/architect/rizal-quest/internal/analytics/models"
	badgeHandlers "github.com/architect/rizal-quest/internal/badges/handlers"
	badgeModels "github.com/architect/rizal-quest/internal/badges/models"
	badgeRepo "github.com/architect/rizal-quest/internal/badges/repository"
	"github.com/architect/rizal-quest/internal/common/database"
	commonHandlers "github.com/architect/rizal-quest/internal/common/handlers"
	"github.com/architect/rizal-quest/internal/common/health"
	"github.com/architect/rizal-quest/internal/common/middleware"
	progressHandlers "github.com/architect/rizal-quest/internal/progress/handlers"
	progressModels "github.com/architect/rizal-quest/internal/progress/models"
	"github.com/architect/rizal-quest/pkg/config"
	"github.com/architect/rizal-quest/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database (SQLite for development, PostgreSQL for production)
	if err := database.InitWithType(cfg.Database.Type, cfg.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := badgeRepo.SeedCatalog(database.DB); err != nil {
		log.Fatalf("Failed to seed badge catalog: %v", err)
	}

	adminServices.ConfigureSessions(cfg.Session.TTLHours)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.ErrorHandler())

	// Health check endpoints
	healthHandler := commonHandlers.NewHealthHandler(health.NewChecker(database.GetDB(), version))
	router.GET("/health", healthHandler.Health)
	router.GET("/health/readiness", healthHandler.Readiness)
	router.GET("/health/liveness", healthHandler.Liveness)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", adminHandlers.Register)
			authGroup.POST("/login", adminHandlers.Login)
			authGroup.POST("/logout", middleware.AuthRequired(), adminHandlers.Logout)
		}

		progressGroup := v1.Group("/progress", middleware.AuthRequired())
		{
			progressGroup.POST("/complete", progressHandlers.SubmitCompletion)
			progressGroup.GET("", progressHandlers.GetProgress)
			progressGroup.GET("/statistics", progressHandlers.GetStatistics)
		}

		badgeGroup := v1.Group("/badges")
		{
			badgeGroup.GET("/catalog", badgeHandlers.GetCatalog)
			badgeGroup.GET("", middleware.AuthRequired(), badgeHandlers.GetUserBadges)
		}

		analyticsGroup := v1.Group("/analytics", middleware.AuthRequired())
		{
			analyticsGroup.POST("/events", analyticsHandlers.TrackEvent)
			analyticsGroup.GET("/report", analyticsHandlers.GetReport)
			analyticsGroup.GET("/export", analyticsHandlers.ExportData)
		}

		adminGroup := v1.Group("/admin", middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminGroup.GET("/users", adminHandlers.ListUsers)
			adminGroup.GET("/users/:id", adminHandlers.GetUserDetail)
			adminGroup.PUT("/users/:id/active", adminHandlers.SetActive)
			adminGroup.PUT("/users/:id/admin", adminHandlers.SetAdmin)
			adminGroup.POST("/users/:id/reset", adminHandlers.ResetUserProgress)
		}
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", zap.String("address", address), zap.String("env", cfg.Server.Env))

	if err := router.Run(address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func migrate() error {
	return database.DB.AutoMigrate(
		&database.User{},
		&database.Session{},
		&progressModels.CompletionRecord{},
		&progressModels.UserStatistics{},
		&badgeModels.Badge{},
		&badgeModels.BadgeDefinition{},
		&analyticsModels.Activity{},
	)
}
