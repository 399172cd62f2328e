package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fairwaylabs/roundtrack/internal/analysis"
	"github.com/fairwaylabs/roundtrack/internal/geo"
	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

// ClubStatsService rebuilds per-club distance profiles from the full stored
// shot history. Every recompute is wholesale: the profile table is replaced
// in one transaction, never merged incrementally, so running it twice on
// unchanged data is idempotent.
type ClubStatsService struct {
	db       *database.DB
	cache    *CacheService
	logger   *logrus.Logger
	cacheTTL time.Duration
}

func NewClubStatsService(db *database.DB, cache *CacheService, logger *logrus.Logger, cacheTTL time.Duration) *ClubStatsService {
	return &ClubStatsService{
		db:       db,
		cache:    cache,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Recompute walks the whole shot history ordered by round, hole and
// sequence, collects qualifying club-distance samples, and replaces the
// stored profiles with the fresh aggregation.
func (s *ClubStatsService) Recompute(ctx context.Context) ([]models.ClubDistanceProfile, error) {
	var shots []models.Shot
	err := s.db.WithContext(ctx).
		Order("round_id ASC, hole_number ASC, sequence ASC").
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shot history: %w", err)
	}

	points := make([]analysis.ShotPoint, 0, len(shots))
	for _, shot := range shots {
		points = append(points, analysis.ShotPoint{
			RoundID:    shot.RoundID.String(),
			HoleNumber: shot.HoleNumber,
			Sequence:   shot.Sequence,
			Club:       shot.ClubName(),
			IsPutt:     shot.IsPutt,
			Coordinate: geo.Coordinate{Latitude: shot.Latitude, Longitude: shot.Longitude},
		})
	}

	summaries := analysis.SummarizeByClub(analysis.CollectDistanceSamples(points))

	now := time.Now().UTC()
	profiles := make([]models.ClubDistanceProfile, 0, len(summaries))
	for _, sum := range summaries {
		profiles = append(profiles, models.ClubDistanceProfile{
			Club:            sum.Club,
			AverageDistance: sum.AverageDistance,
			MedianDistance:  sum.MedianDistance,
			StdDeviation:    sum.StdDeviation,
			MinDistance:     sum.MinDistance,
			MaxDistance:     sum.MaxDistance,
			SampleCount:     sum.SampleCount,
			LastComputedAt:  now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Wholesale rebuild: clubs that no longer have qualifying samples
		// must lose their row, so clear the table first.
		if err := tx.Where("1 = 1").Delete(&models.ClubDistanceProfile{}).Error; err != nil {
			return err
		}
		if len(profiles) == 0 {
			return nil
		}
		return tx.Create(&profiles).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store club profiles: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"shots":    len(shots),
		"profiles": len(profiles),
	}).Info("Recomputed club distance profiles")

	if s.cache != nil {
		if err := s.cache.Set(ctx, ClubProfilesCacheKey(), profiles, s.cacheTTL); err != nil {
			s.logger.Warnf("Failed to cache club profiles: %v", err)
		}
	}

	return profiles, nil
}

// GetProfiles returns the stored profiles, serving from cache when warm.
func (s *ClubStatsService) GetProfiles(ctx context.Context) ([]models.ClubDistanceProfile, error) {
	if s.cache != nil {
		var cached []models.ClubDistanceProfile
		if err := s.cache.Get(ctx, ClubProfilesCacheKey(), &cached); err == nil {
			return cached, nil
		}
	}

	var profiles []models.ClubDistanceProfile
	err := s.db.WithContext(ctx).Order("club ASC").Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load club profiles: %w", err)
	}
	return profiles, nil
}
