package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fairwaylabs/roundtrack/internal/api/handlers"
	"github.com/fairwaylabs/roundtrack/internal/providers"
	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/config"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	cache *services.CacheService,
	wsHub *services.WebSocketHub,
	cfg *config.Config,
	analyzer *services.ShotAnalysisService,
	clubStats *services.ClubStatsService,
	overpass *providers.OverpassClient,
	logger *logrus.Logger,
) {
	healthHandler := handlers.NewHealthHandler(db)
	courseHandler := handlers.NewCourseHandler(db, cache, logger, overpass)
	roundHandler := handlers.NewRoundHandler(db, logger, analyzer, wsHub)
	statsHandler := handlers.NewStatsHandler(clubStats, wsHub, logger)
	wsHandler := handlers.NewWebSocketHandler(wsHub, logger)

	// Health endpoints
	group.GET("/health", healthHandler.GetHealth)
	group.GET("/ready", healthHandler.GetReady)

	// Course endpoints
	group.GET("/courses", courseHandler.ListCourses)
	group.GET("/courses/:id", courseHandler.GetCourse)
	group.POST("/courses/import", courseHandler.ImportCourses)

	// Round and shot endpoints
	group.POST("/rounds", roundHandler.CreateRound)
	group.GET("/rounds/:id", roundHandler.GetRound)
	group.POST("/rounds/:id/shots", roundHandler.RecordShot)
	group.GET("/rounds/:id/holes/:hole/analysis", roundHandler.GetHoleAnalysis)

	// Club statistics endpoints
	group.GET("/stats/clubs", statsHandler.GetClubProfiles)
	group.POST("/stats/clubs/recompute", statsHandler.RecomputeClubProfiles)

	// Live round events
	group.GET("/ws", wsHandler.Serve)
}
