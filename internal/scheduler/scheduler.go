package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/config"
	"github.com/fabstash/backend/internal/service/snapshot"
)

// Scheduler runs the nightly stats snapshot job.
type Scheduler struct {
	cron        *cron.Cron
	snapshotSvc *snapshot.Service
	cfg         config.SnapshotConfig
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SnapshotConfig, snapshotSvc *snapshot.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:        cron.New(),
		snapshotSvc: snapshotSvc,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSnapshot); err != nil {
		s.logger.Error("failed to schedule stats snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runSnapshot() {
	s.logger.Info("running stats snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.snapshotSvc.Run(ctx); err != nil {
		s.logger.Error("stats snapshot failed", zap.Error(err))
	}
}
