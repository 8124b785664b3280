package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/repository/mongodb"
	"github.com/fabstash/backend/internal/repository/sheets"
)

const sheetRange = "Snapshots!A:G"

// Service captures per-owner inventory stats. Snapshots always land in
// MongoDB; rows are additionally appended to a Google Sheet when a sheets
// repository is supplied.
type Service struct {
	fabrics   mongodb.FabricStore
	snapshots mongodb.SnapshotStore
	sheet     sheets.Repository
	logger    *zap.Logger
}

// NewService wires the snapshot service. sheet may be nil.
func NewService(fabrics mongodb.FabricStore, snapshots mongodb.SnapshotStore, sheet sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fabrics: fabrics, snapshots: snapshots, sheet: sheet, logger: logger}
}

// Run computes and stores a stats snapshot for every owner with inventory.
// Per-owner failures are logged and skipped so one bad owner does not stall
// the whole run.
func (s *Service) Run(ctx context.Context) error {
	owners, err := s.fabrics.DistinctOwners(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, owner := range owners {
		ps := query.BuildFilter(owner, query.FilterRequest{})

		stats, err := s.fabrics.Stats(ctx, ps)
		if err != nil {
			s.logger.Error("snapshot stats failed", zap.String("ownerId", owner.Hex()), zap.Error(err))
			continue
		}
		stats.TotalLength = query.Round2(stats.TotalLength)
		stats.TotalUsedLength = query.Round2(stats.TotalUsedLength)
		stats.RemainingLength = query.Round2(stats.RemainingLength)
		stats.TotalValue = query.Round2(stats.TotalValue)

		snap := models.StatsSnapshot{
			OwnerID:   owner,
			Date:      day,
			Stats:     stats,
			CreatedAt: now,
		}
		if err := s.snapshots.Insert(ctx, snap); err != nil {
			s.logger.Error("snapshot insert failed", zap.String("ownerId", owner.Hex()), zap.Error(err))
			continue
		}

		if s.sheet != nil {
			row := []interface{}{
				day.Format("2006-01-02"),
				owner.Hex(),
				stats.TotalCount,
				stats.TotalLength,
				stats.TotalUsedLength,
				stats.RemainingLength,
				stats.TotalValue,
			}
			if err := s.sheet.AppendRow(ctx, sheetRange, row); err != nil {
				s.logger.Warn("snapshot sheet append failed", zap.String("ownerId", owner.Hex()), zap.Error(err))
			}
		}
	}

	s.logger.Info("stats snapshot completed", zap.Int("owners", len(owners)))
	return nil
}
