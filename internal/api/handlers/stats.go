package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/utils"
)

// StatsHandler serves club distance profiles and the manual recompute
// trigger.
type StatsHandler struct {
	clubStats *services.ClubStatsService
	wsHub     *services.WebSocketHub
	logger    *logrus.Logger
}

func NewStatsHandler(clubStats *services.ClubStatsService, wsHub *services.WebSocketHub, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{
		clubStats: clubStats,
		wsHub:     wsHub,
		logger:    logger,
	}
}

// GetClubProfiles returns the stored per-club distance profiles. Distances
// are meters unless units=yards is passed.
func (h *StatsHandler) GetClubProfiles(c *gin.Context) {
	profiles, err := h.clubStats.GetProfiles(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to load club profiles: %v", err)
		utils.SendInternalError(c, "Failed to load club profiles")
		return
	}

	if c.Query("units") == "yards" {
		for i := range profiles {
			p := &profiles[i]
			p.AverageDistance = utils.MetersToYards(p.AverageDistance)
			p.MedianDistance = utils.MetersToYards(p.MedianDistance)
			p.StdDeviation = utils.MetersToYards(p.StdDeviation)
			p.MinDistance = utils.MetersToYards(p.MinDistance)
			p.MaxDistance = utils.MetersToYards(p.MaxDistance)
		}
	}

	utils.SendSuccess(c, profiles)
}

// RecomputeClubProfiles rebuilds all profiles from the stored shot history
// and notifies stats subscribers.
func (h *StatsHandler) RecomputeClubProfiles(c *gin.Context) {
	profiles, err := h.clubStats.Recompute(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Club profile recompute failed: %v", err)
		utils.SendInternalError(c, "Recompute failed")
		return
	}

	if h.wsHub != nil {
		if err := h.wsHub.BroadcastToTopic(services.StatsTopic, "profiles_recomputed", profiles); err != nil {
			h.logger.Warnf("Failed to broadcast profiles: %v", err)
		}
	}

	utils.SendSuccess(c, profiles)
}
