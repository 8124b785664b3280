package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fabstash/backend/internal/domain/models"
)

// CatalogStore is the persistence contract shared by the brand, material,
// tag and purchase channel collections.
type CatalogStore interface {
	Insert(ctx context.Context, item models.CatalogItem) (models.CatalogItem, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID, keyword string) ([]models.CatalogItem, error)
	FindByName(ctx context.Context, ownerID primitive.ObjectID, name string) (models.CatalogItem, error)
	ResolveNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// CatalogRepository serves one catalog collection. The four catalog kinds
// share the same document shape, so the collection name is the only
// difference between instances.
type CatalogRepository struct {
	coll *mongo.Collection
}

// NewCatalogRepository builds an adapter for the named catalog collection.
func NewCatalogRepository(store *Store, collection string) *CatalogRepository {
	return &CatalogRepository{coll: store.db.Collection(collection)}
}

// Insert stores a new catalog item.
func (r *CatalogRepository) Insert(ctx context.Context, item models.CatalogItem) (models.CatalogItem, error) {
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("insert catalog item: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

// Delete removes an owner's catalog item.
func (r *CatalogRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, ownerScoped(ownerID, id))
	if err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns an owner's items, newest first, optionally filtered by a
// case-insensitive name substring.
func (r *CatalogRepository) List(ctx context.Context, ownerID primitive.ObjectID, keyword string) ([]models.CatalogItem, error) {
	filter := bson.D{{Key: "createdBy", Value: ownerID}}
	if keyword != "" {
		filter = append(filter, bson.E{Key: "name", Value: primitive.Regex{Pattern: keyword, Options: "i"}})
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.CatalogItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	return items, nil
}

// FindByName looks up an owner's item by exact name. Backs the per-owner
// uniqueness check for tags.
func (r *CatalogRepository) FindByName(ctx context.Context, ownerID primitive.ObjectID, name string) (models.CatalogItem, error) {
	var item models.CatalogItem
	err := r.coll.FindOne(ctx, bson.D{
		{Key: "name", Value: name},
		{Key: "createdBy", Value: ownerID},
	}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.CatalogItem{}, ErrNotFound
	}
	if err != nil {
		return models.CatalogItem{}, fmt.Errorf("find catalog item: %w", err)
	}
	return item, nil
}

// ResolveNames fetches the id → name projection for the given ids. Missing
// ids are simply absent from the result map.
func (r *CatalogRepository) ResolveNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]string{}, nil
	}

	cursor, err := r.coll.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		options.Find().SetProjection(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog names: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.CatalogItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode catalog names: %w", err)
	}

	names := make(map[primitive.ObjectID]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	return names, nil
}
