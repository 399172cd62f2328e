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

	"github.com/fairwaylabs/roundtrack/internal/api"
	"github.com/fairwaylabs/roundtrack/internal/api/middleware"
	"github.com/fairwaylabs/roundtrack/internal/providers"
	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/config"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis; the profile cache is optional and the app degrades
	// to database reads without it
	var cacheService *services.CacheService
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Warnf("Redis unavailable, profile cache disabled: %v", err)
	} else {
		cacheService = services.NewCacheService(redisClient)
		defer redisClient.Close()
	}

	// Initialize services
	wsHub := services.NewWebSocketHub()
	go wsHub.Run()

	analyzer := services.NewShotAnalysisService(db, logger, cfg.MissDirectionToleranceM, cfg.MissLengthToleranceM)
	clubStats := services.NewClubStatsService(db, cacheService, logger, time.Duration(cfg.ProfileCacheTTL)*time.Second)
	overpass := providers.NewOverpassClient(cfg.OverpassURL, cfg.OverpassRateLimitRPS,
		time.Duration(cfg.OverpassTimeout)*time.Second, logger)

	// Nightly profile recompute
	scheduler := services.NewStatsScheduler(clubStats, logger, cfg.StatsRecomputeCron)
	if err := scheduler.Start(); err != nil {
		logrus.Errorf("Failed to start stats scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, wsHub, cfg, analyzer, clubStats, overpass, logger)

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
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
