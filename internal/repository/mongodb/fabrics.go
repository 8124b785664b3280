package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
)

// FabricStore defines the persistence operations the inventory services
// need. *FabricRepository is the MongoDB implementation.
type FabricStore interface {
	Insert(ctx context.Context, fabric models.Fabric) (models.Fabric, error)
	FindByID(ctx context.Context, ownerID, id primitive.ObjectID) (models.Fabric, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, fabric models.Fabric) (models.Fabric, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	ToggleFavorite(ctx context.Context, ownerID, id primitive.ObjectID) (models.Fabric, error)
	ApplyUsage(ctx context.Context, ownerID, id primitive.ObjectID, usedLength float64) (models.Fabric, error)
	List(ctx context.Context, ps query.PredicateSet, plan query.SortPlan, page query.PageRequest) ([]models.Fabric, error)
	ListAll(ctx context.Context, ps query.PredicateSet, plan query.SortPlan) ([]models.Fabric, error)
	Count(ctx context.Context, ps query.PredicateSet) (int64, error)
	Stats(ctx context.Context, ps query.PredicateSet) (models.Stats, error)
	DistinctOwners(ctx context.Context) ([]primitive.ObjectID, error)
}

// FabricRepository persists fabrics and runs the compiled query pipelines.
type FabricRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewFabricRepository builds the fabric collection adapter.
func NewFabricRepository(store *Store, logger *zap.Logger) *FabricRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FabricRepository{coll: store.db.Collection(collFabrics), logger: logger}
}

// Insert stores a new fabric and returns it with its assigned id.
func (r *FabricRepository) Insert(ctx context.Context, fabric models.Fabric) (models.Fabric, error) {
	res, err := r.coll.InsertOne(ctx, fabric)
	if err != nil {
		return models.Fabric{}, fmt.Errorf("insert fabric: %w", err)
	}
	fabric.ID = res.InsertedID.(primitive.ObjectID)
	return fabric, nil
}

// FindByID loads one fabric scoped to its owner.
func (r *FabricRepository) FindByID(ctx context.Context, ownerID, id primitive.ObjectID) (models.Fabric, error) {
	var fabric models.Fabric
	err := r.coll.FindOne(ctx, ownerScoped(ownerID, id)).Decode(&fabric)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Fabric{}, ErrNotFound
	}
	if err != nil {
		return models.Fabric{}, fmt.Errorf("find fabric: %w", err)
	}
	return fabric, nil
}

// Update replaces the mutable fields of a fabric and returns the updated
// document.
func (r *FabricRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, fabric models.Fabric) (models.Fabric, error) {
	set := bson.D{
		{Key: "name", Value: fabric.Name},
		{Key: "brandId", Value: fabric.BrandID},
		{Key: "brandText", Value: fabric.BrandText},
		{Key: "length", Value: fabric.Length},
		{Key: "width", Value: fabric.Width},
		{Key: "lengthUnit", Value: fabric.LengthUnit},
		{Key: "usedLength", Value: fabric.UsedLength},
		{Key: "price", Value: fabric.Price},
		{Key: "origin", Value: fabric.Origin},
		{Key: "purchaseDate", Value: fabric.PurchaseDate},
		{Key: "materialsId", Value: fabric.MaterialsID},
		{Key: "materialsText", Value: fabric.MaterialsText},
		{Key: "coverImage", Value: fabric.CoverImage},
		{Key: "detailImages", Value: fabric.DetailImages},
		{Key: "tagsId", Value: fabric.TagsID},
		{Key: "tagsText", Value: fabric.TagsText},
		{Key: "isFavorite", Value: fabric.IsFavorite},
		{Key: "notes", Value: fabric.Notes},
		{Key: "purchaseChannelId", Value: fabric.PurchaseChannelID},
		{Key: "purchaseChannelText", Value: fabric.PurchaseChannelText},
		{Key: "updatedAt", Value: time.Now()},
	}

	var updated models.Fabric
	err := r.coll.FindOneAndUpdate(ctx, ownerScoped(ownerID, id),
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Fabric{}, ErrNotFound
	}
	if err != nil {
		return models.Fabric{}, fmt.Errorf("update fabric: %w", err)
	}
	return updated, nil
}

// Delete removes a fabric owned by the caller.
func (r *FabricRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, ownerScoped(ownerID, id))
	if err != nil {
		return fmt.Errorf("delete fabric: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite flips isFavorite in a single atomic document update, so
// concurrent toggles serialize rather than losing a flip.
func (r *FabricRepository) ToggleFavorite(ctx context.Context, ownerID, id primitive.ObjectID) (models.Fabric, error) {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "isFavorite", Value: bson.D{{Key: "$not", Value: "$isFavorite"}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}

	var updated models.Fabric
	err := r.coll.FindOneAndUpdate(ctx, ownerScoped(ownerID, id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Fabric{}, ErrNotFound
	}
	if err != nil {
		return models.Fabric{}, fmt.Errorf("toggle favorite: %w", err)
	}
	return updated, nil
}

// ApplyUsage advances usedLength by the given amount. The filter embeds the
// remaining-length invariant, so the check and the increment are one atomic
// operation; ErrNotFound covers both a missing fabric and an increment that
// would exceed the total length.
func (r *FabricRepository) ApplyUsage(ctx context.Context, ownerID, id primitive.ObjectID, usedLength float64) (models.Fabric, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "createdBy", Value: ownerID},
		{Key: "$expr", Value: bson.D{{Key: "$lte", Value: bson.A{
			bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$usedLength", 0}}},
				usedLength,
			}}},
			"$length",
		}}}},
	}

	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "usedLength", Value: usedLength}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: time.Now()}}},
	}

	var updated models.Fabric
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Fabric{}, ErrNotFound
	}
	if err != nil {
		return models.Fabric{}, fmt.Errorf("apply usage: %w", err)
	}
	return updated, nil
}

// List runs the compiled fetch pipeline for one page of results.
func (r *FabricRepository) List(ctx context.Context, ps query.PredicateSet, plan query.SortPlan, page query.PageRequest) ([]models.Fabric, error) {
	return r.runList(ctx, listPipeline(ps, plan, page))
}

// ListAll fetches the whole filtered, sorted set without pagination. Used by
// the export path.
func (r *FabricRepository) ListAll(ctx context.Context, ps query.PredicateSet, plan query.SortPlan) ([]models.Fabric, error) {
	return r.runList(ctx, listPipeline(ps, plan, query.PageRequest{}))
}

func (r *FabricRepository) runList(ctx context.Context, pipeline mongo.Pipeline) ([]models.Fabric, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list fabrics: %w", err)
	}
	defer cursor.Close(ctx)

	var fabrics []models.Fabric
	if err := cursor.All(ctx, &fabrics); err != nil {
		return nil, fmt.Errorf("decode fabrics: %w", err)
	}
	return fabrics, nil
}

// Count returns the size of the filtered set before pagination. Pure stored
// filters use a direct count; derived filters go through the pipeline.
func (r *FabricRepository) Count(ctx context.Context, ps query.PredicateSet) (int64, error) {
	if !ps.NeedsDerived() {
		total, err := r.coll.CountDocuments(ctx, compileStored(ps))
		if err != nil {
			return 0, fmt.Errorf("count fabrics: %w", err)
		}
		return total, nil
	}

	cursor, err := r.coll.Aggregate(ctx, countPipeline(ps))
	if err != nil {
		return 0, fmt.Errorf("count fabrics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// Stats folds the filtered set into totals. An empty set yields the zero
// value, never an error.
func (r *FabricRepository) Stats(ctx context.Context, ps query.PredicateSet) (models.Stats, error) {
	cursor, err := r.coll.Aggregate(ctx, statsPipeline(ps))
	if err != nil {
		return models.Stats{}, fmt.Errorf("aggregate stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Stats
	if err := cursor.All(ctx, &results); err != nil {
		return models.Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	if len(results) == 0 {
		return models.Stats{}, nil
	}
	return results[0], nil
}

// DistinctOwners lists every owner with at least one fabric. Used by the
// snapshot job.
func (r *FabricRepository) DistinctOwners(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := r.coll.Distinct(ctx, "createdBy", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct owners: %w", err)
	}

	owners := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}

func ownerScoped(ownerID, id primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "createdBy", Value: ownerID},
	}
}
