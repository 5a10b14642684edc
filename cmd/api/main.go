package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sargassum-ops-api/config"
	"sargassum-ops-api/handlers"
	"sargassum-ops-api/logging"
	"sargassum-ops-api/middleware"
	"sargassum-ops-api/repository"
	"sargassum-ops-api/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatalf("Failed to load config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	// Database
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logging.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatalf("Failed to get sql db handle: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logging.Fatalf("Failed to ping database: %v", err)
	}

	store := repository.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		logging.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis is optional: without it the API runs uncached and the live
	// alert feed is unavailable.
	cache, err := services.NewCacheService(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	}
	defer cache.Close()

	// Services
	authService := services.NewAuthService(cfg.JWT)
	clock := services.SystemClock()
	riskSource := services.NewSyntheticSource(nil)
	ingestion := services.NewIngestionService(store, riskSource, clock, cache)
	queries := services.NewRiskQueryService(store, clock)
	aiService := services.NewAIService(cfg.OpenAI)

	ctx := context.Background()
	if cfg.Ingestion.SeedOnStartup {
		if _, err := ingestion.SeedBeachesIfEmpty(ctx); err != nil {
			slog.Error("beach seeding failed", "error", err)
		}
	}

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SetupCORS(cfg.CORS))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Sargassum Operations API running",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authHandler := handlers.NewAuthHandler(db, authService)
	beachesHandler := handlers.NewBeachesHandler(db, cache)
	campaignsHandler := handlers.NewCampaignsHandler(db)
	tasksHandler := handlers.NewTasksHandler(db)
	satLayersHandler := handlers.NewSatLayersHandler(db)
	riskHandler := handlers.NewRiskHandler(ingestion, queries, cache, clock, cfg.Ingestion.MaxBackfillDays)
	alertsHandler := handlers.NewAlertsHandler(store, queries)
	aiHandler := handlers.NewAIHandler(aiService)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/beaches", beachesHandler.List)
		api.GET("/beaches/:id", beachesHandler.Get)
		api.GET("/campaigns", campaignsHandler.List)
		api.GET("/campaigns/:id", campaignsHandler.Get)
		api.GET("/tasks", tasksHandler.List)
		api.GET("/tasks/:id", tasksHandler.Get)
		api.GET("/sat-layers", satLayersHandler.List)

		api.GET("/risk/beach/:beach_id", riskHandler.GetBeachHistory)
		api.GET("/risk/high", riskHandler.GetHighRisk)
		api.GET("/risk/summary", riskHandler.GetSummary)
		api.GET("/alerts", alertsHandler.List)

		protected := api.Group("", middleware.RequireAuth(authService))
		{
			protected.POST("/beaches", beachesHandler.Create)
			protected.PUT("/beaches/:id", beachesHandler.Update)
			protected.DELETE("/beaches/:id", beachesHandler.Delete)

			protected.POST("/campaigns", campaignsHandler.Create)
			protected.PUT("/campaigns/:id", campaignsHandler.Update)
			protected.DELETE("/campaigns/:id", campaignsHandler.Delete)

			protected.POST("/tasks", tasksHandler.Create)
			protected.PUT("/tasks/:id", tasksHandler.Update)
			protected.DELETE("/tasks/:id", tasksHandler.Delete)

			protected.POST("/risk/update-today", riskHandler.UpdateToday)
			protected.POST("/risk/simulate-ingestion", riskHandler.SimulateIngestion)
			protected.PUT("/alerts/:id/resolve", alertsHandler.Resolve)

			protected.POST("/ai/chat", aiHandler.Chat)
		}
	}

	router.GET("/ws/alerts", handlers.AlertsWebSocket(cache, authService))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
