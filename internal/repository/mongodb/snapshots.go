package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabstash/backend/internal/domain/models"
)

// SnapshotStore is the persistence contract of the snapshot job.
type SnapshotStore interface {
	Insert(ctx context.Context, snapshot models.StatsSnapshot) error
}

// SnapshotRepository persists nightly stats snapshots.
type SnapshotRepository struct {
	coll *mongo.Collection
}

// NewSnapshotRepository builds the snapshot collection adapter.
func NewSnapshotRepository(store *Store) *SnapshotRepository {
	return &SnapshotRepository{coll: store.db.Collection(collSnapshots)}
}

// Insert stores one owner's snapshot.
func (r *SnapshotRepository) Insert(ctx context.Context, snapshot models.StatsSnapshot) error {
	if _, err := r.coll.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("insert stats snapshot: %w", err)
	}
	return nil
}
