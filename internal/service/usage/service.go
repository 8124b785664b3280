package usage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

// ErrFabricNotFound is returned when the referenced fabric does not exist
// for this owner.
var ErrFabricNotFound = errors.New("fabric not found")

// ErrExceedsRemaining is returned when a usage would consume more than the
// fabric has left.
var ErrExceedsRemaining = errors.New("used length exceeds remaining length")

// ErrInvalidLength flags a non-positive consumption amount.
var ErrInvalidLength = errors.New("used length must be positive")

// Service records fabric consumption. Creating a record and advancing the
// fabric's usedLength happen through a single conditional store update, so
// two concurrent usages cannot overdraw the remaining length.
type Service struct {
	fabrics mongodb.FabricStore
	usages  mongodb.UsageStore
	logger  *zap.Logger
}

// NewService wires the usage service.
func NewService(fabrics mongodb.FabricStore, usages mongodb.UsageStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fabrics: fabrics, usages: usages, logger: logger}
}

// Create consumes length from a fabric and records the event. The length is
// in the fabric's own unit.
func (s *Service) Create(ctx context.Context, ownerID, fabricID primitive.ObjectID, usedLength float64) (models.UsageRecord, error) {
	if usedLength <= 0 {
		return models.UsageRecord{}, ErrInvalidLength
	}

	// Existence check first so a failed conditional update below can be
	// attributed to the remaining-length guard rather than a missing fabric.
	if _, err := s.fabrics.FindByID(ctx, ownerID, fabricID); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return models.UsageRecord{}, ErrFabricNotFound
		}
		return models.UsageRecord{}, err
	}

	if _, err := s.fabrics.ApplyUsage(ctx, ownerID, fabricID, usedLength); err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return models.UsageRecord{}, ErrExceedsRemaining
		}
		return models.UsageRecord{}, err
	}

	record, err := s.usages.Insert(ctx, models.UsageRecord{
		FabricID:   fabricID,
		UsedLength: usedLength,
		UsageDate:  time.Now(),
		CreatedBy:  ownerID,
	})
	if err != nil {
		// The fabric increment already happened; surface the error but log it
		// loudly since the journal entry is now missing.
		s.logger.Error("usage applied but record insert failed",
			zap.String("fabricId", fabricID.Hex()), zap.Error(err))
		return models.UsageRecord{}, err
	}

	return record, nil
}

// List returns the owner's usage records, newest first, each carrying the
// {id, name} projection of its fabric. A fabric deleted since the usage was
// recorded resolves to nil rather than failing the listing.
func (s *Service) List(ctx context.Context, ownerID primitive.ObjectID) ([]models.UsageWithFabric, error) {
	records, err := s.usages.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	resolved := make(map[primitive.ObjectID]*models.NamedRef, len(records))
	out := make([]models.UsageWithFabric, 0, len(records))
	for _, record := range records {
		ref, seen := resolved[record.FabricID]
		if !seen {
			fabric, err := s.fabrics.FindByID(ctx, ownerID, record.FabricID)
			if err == nil {
				ref = &models.NamedRef{ID: fabric.ID.Hex(), Name: fabric.Name}
			} else if !errors.Is(err, mongodb.ErrNotFound) {
				return nil, err
			}
			resolved[record.FabricID] = ref
		}
		out = append(out, models.UsageWithFabric{UsageRecord: record, Fabric: ref})
	}
	return out, nil
}
