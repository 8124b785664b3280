package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document scoped to the requesting owner
// does not exist.
var ErrNotFound = errors.New("document not found")

// Store owns the MongoDB client and hands out collection repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri string, dbName string) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call on
// every startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	fabricIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := s.db.Collection(collFabrics).Indexes().CreateMany(ctx, fabricIndexes); err != nil {
		return fmt.Errorf("create fabric indexes: %w", err)
	}

	// Tag names are unique per owner; the index backs the duplicate check.
	tagIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "createdBy", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(collTags).Indexes().CreateOne(ctx, tagIndex); err != nil {
		return fmt.Errorf("create tag index: %w", err)
	}

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "openid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.db.Collection(collUsers).Indexes().CreateOne(ctx, userIndex); err != nil {
		return fmt.Errorf("create user index: %w", err)
	}

	return nil
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

const (
	collFabrics   = "fabrics"
	collUsers     = "users"
	collUsages    = "fabric_usages"
	collSnapshots = "stats_snapshots"
	collTags      = "tags"
)
