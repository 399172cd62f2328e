package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatsScheduler runs the club-profile recompute on a cron schedule,
// mirroring the nightly-rebuild lifecycle of the profiles: computed in
// bulk, cached until the next run.
type StatsScheduler struct {
	clubStats *ClubStatsService
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	mu        sync.Mutex
	isRunning bool
}

func NewStatsScheduler(clubStats *ClubStatsService, logger *logrus.Logger, schedule string) *StatsScheduler {
	return &StatsScheduler{
		clubStats: clubStats,
		logger:    logger,
		cron:      cron.New(),
		schedule:  schedule,
	}
}

// Start schedules the recompute job and begins the cron loop.
func (s *StatsScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("stats scheduler is already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runRecompute); err != nil {
		return fmt.Errorf("failed to schedule stats recompute: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Stats scheduler started with schedule %q", s.schedule)
	return nil
}

// Stop halts the cron loop. In-flight recomputes run to completion.
func (s *StatsScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cron.Stop()
	s.isRunning = false
	s.logger.Info("Stats scheduler stopped")
}

func (s *StatsScheduler) runRecompute() {
	if _, err := s.clubStats.Recompute(context.Background()); err != nil {
		s.logger.Errorf("Scheduled club profile recompute failed: %v", err)
	}
}
