package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fabstash/backend/internal/domain/models"
)

// UsageStore is the persistence contract of the usage service.
type UsageStore interface {
	Insert(ctx context.Context, record models.UsageRecord) (models.UsageRecord, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.UsageRecord, error)
}

// UsageRepository persists fabric consumption records.
type UsageRepository struct {
	coll *mongo.Collection
}

// NewUsageRepository builds the usage collection adapter.
func NewUsageRepository(store *Store) *UsageRepository {
	return &UsageRepository{coll: store.db.Collection(collUsages)}
}

// Insert stores a new usage record.
func (r *UsageRepository) Insert(ctx context.Context, record models.UsageRecord) (models.UsageRecord, error) {
	res, err := r.coll.InsertOne(ctx, record)
	if err != nil {
		return models.UsageRecord{}, fmt.Errorf("insert usage record: %w", err)
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return record, nil
}

// ListByOwner returns an owner's usage records, newest first.
func (r *UsageRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.UsageRecord, error) {
	cursor, err := r.coll.Find(ctx,
		bson.D{{Key: "createdBy", Value: ownerID}},
		options.Find().SetSort(bson.D{{Key: "usageDate", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []models.UsageRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode usage records: %w", err)
	}
	return records, nil
}
