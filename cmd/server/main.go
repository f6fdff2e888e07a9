package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cmarkle/trade-analyzer/internal/api"
	"github.com/cmarkle/trade-analyzer/internal/api/handlers"
	"github.com/cmarkle/trade-analyzer/internal/api/middleware"
	"github.com/cmarkle/trade-analyzer/internal/espn"
	"github.com/cmarkle/trade-analyzer/internal/services"
	"github.com/cmarkle/trade-analyzer/internal/valuation"
	"github.com/cmarkle/trade-analyzer/pkg/config"
	"github.com/cmarkle/trade-analyzer/pkg/database"
	"github.com/cmarkle/trade-analyzer/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger("", cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)

	// Load the valuation pipeline before serving; predictions are the whole
	// point of the service, so a load failure is fatal.
	valuationService := valuation.NewService(cfg.ModelPath, cfg.DatasetPath, log)
	if err := valuationService.Load(); err != nil {
		log.Fatalf("Failed to load valuation pipeline: %v", err)
	}

	espnClient := espn.NewClient(cacheService, log,
		cfg.ESPNRateLimit, cfg.ESPNTimeout, cfg.CircuitBreakerThreshold)

	// Parse refresh interval
	refreshInterval, err := time.ParseDuration(cfg.RosterRefreshInterval)
	if err != nil {
		log.Warnf("Invalid refresh interval, using default 2h: %v", err)
		refreshInterval = 2 * time.Hour
	}

	refresher := services.NewRefresherService(db, cacheService, espnClient,
		log, refreshInterval, cfg.HistoryRetentionDays)
	if cfg.EnableBackgroundJobs {
		if err := refresher.Start(); err != nil {
			log.Errorf("Failed to start league refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health endpoints at root level
	healthHandler := handlers.NewHealthHandler(valuationService)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, cfg, valuationService, espnClient, refresher, log)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
