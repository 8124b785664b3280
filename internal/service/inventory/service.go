package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

// ErrNotFound is returned when the fabric does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("fabric not found")

// ErrValidation flags rejected write input.
var ErrValidation = errors.New("invalid fabric input")

// Service executes inventory queries and owns the fabric write paths. Each
// call is a stateless computation over a store snapshot; the favorite toggle
// is the only mutation the query surface performs.
type Service struct {
	fabrics   mongodb.FabricStore
	brands    mongodb.CatalogStore
	materials mongodb.CatalogStore
	tags      mongodb.CatalogStore
	channels  mongodb.CatalogStore
	logger    *zap.Logger
}

// NewService wires the inventory service.
func NewService(fabrics mongodb.FabricStore, brands, materials, tags, channels mongodb.CatalogStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fabrics:   fabrics,
		brands:    brands,
		materials: materials,
		tags:      tags,
		channels:  channels,
		logger:    logger,
	}
}

// FabricInput is the write payload for create and update.
type FabricInput struct {
	Name                string            `json:"name" binding:"required"`
	BrandID             string            `json:"brandId"`
	BrandText           string            `json:"brandText"`
	Length              float64           `json:"length"`
	Width               float64           `json:"width"`
	LengthUnit          models.LengthUnit `json:"lengthUnit"`
	UsedLength          float64           `json:"usedLength"`
	Price               float64           `json:"price"`
	Origin              string            `json:"origin"`
	PurchaseDate        *time.Time        `json:"purchaseDate"`
	MaterialsID         []string          `json:"materialsId"`
	MaterialsText       string            `json:"materialsText"`
	CoverImage          string            `json:"coverImage"`
	DetailImages        []string          `json:"detailImages"`
	TagsID              []string          `json:"tagsId"`
	TagsText            string            `json:"tagsText"`
	IsFavorite          bool              `json:"isFavorite"`
	Notes               string            `json:"notes"`
	PurchaseChannelID   string            `json:"purchaseChannelId"`
	PurchaseChannelText string            `json:"purchaseChannelText"`
}

func (in FabricInput) validate() error {
	if in.Length < 0 || in.Width < 0 || in.Price < 0 || in.UsedLength < 0 {
		return fmt.Errorf("%w: measurements and price must be non-negative", ErrValidation)
	}
	if in.UsedLength > in.Length {
		return fmt.Errorf("%w: usedLength must not exceed length", ErrValidation)
	}
	if in.LengthUnit != "" && !in.LengthUnit.Valid() {
		return fmt.Errorf("%w: unsupported length unit %q", ErrValidation, in.LengthUnit)
	}
	return nil
}

func (in FabricInput) toFabric(ownerID primitive.ObjectID) models.Fabric {
	unit := in.LengthUnit
	if unit == "" {
		unit = models.UnitMeter
	}

	return models.Fabric{
		Name:                in.Name,
		BrandID:             parseOptionalID(in.BrandID),
		BrandText:           in.BrandText,
		Length:              in.Length,
		Width:               in.Width,
		LengthUnit:          unit,
		UsedLength:          in.UsedLength,
		Price:               in.Price,
		Origin:              in.Origin,
		PurchaseDate:        in.PurchaseDate,
		MaterialsID:         query.ParseIDs(in.MaterialsID),
		MaterialsText:       in.MaterialsText,
		CoverImage:          in.CoverImage,
		DetailImages:        in.DetailImages,
		TagsID:              query.ParseIDs(in.TagsID),
		TagsText:            in.TagsText,
		IsFavorite:          in.IsFavorite,
		Notes:               in.Notes,
		CreatedBy:           ownerID,
		PurchaseChannelID:   parseOptionalID(in.PurchaseChannelID),
		PurchaseChannelText: in.PurchaseChannelText,
	}
}

// Create stores a new fabric for the owner.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, input FabricInput) (models.FabricView, error) {
	if err := input.validate(); err != nil {
		return models.FabricView{}, err
	}

	fabric := input.toFabric(ownerID)
	now := time.Now()
	fabric.CreatedAt = now
	fabric.UpdatedAt = now

	created, err := s.fabrics.Insert(ctx, fabric)
	if err != nil {
		return models.FabricView{}, err
	}
	return s.resolveOne(ctx, created), nil
}

// Update replaces the mutable fields of an owner's fabric.
func (s *Service) Update(ctx context.Context, ownerID, id primitive.ObjectID, input FabricInput) (models.FabricView, error) {
	if err := input.validate(); err != nil {
		return models.FabricView{}, err
	}

	updated, err := s.fabrics.Update(ctx, ownerID, id, input.toFabric(ownerID))
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.FabricView{}, ErrNotFound
	}
	if err != nil {
		return models.FabricView{}, err
	}
	return s.resolveOne(ctx, updated), nil
}

// Get loads one fabric with its references resolved.
func (s *Service) Get(ctx context.Context, ownerID, id primitive.ObjectID) (models.FabricView, error) {
	fabric, err := s.fabrics.FindByID(ctx, ownerID, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.FabricView{}, ErrNotFound
	}
	if err != nil {
		return models.FabricView{}, err
	}
	return s.resolveOne(ctx, fabric), nil
}

// Delete removes an owner's fabric.
func (s *Service) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	err := s.fabrics.Delete(ctx, ownerID, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Service) ToggleFavorite(ctx context.Context, ownerID, id primitive.ObjectID) (bool, error) {
	fabric, err := s.fabrics.ToggleFavorite(ctx, ownerID, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return fabric.IsFavorite, nil
}

// List runs one query cycle: build predicates, count the whole filtered set,
// fetch the sorted page, resolve references, and return the envelope with
// the effective pagination echoed back.
func (s *Service) List(ctx context.Context, ownerID primitive.ObjectID, filter query.FilterRequest, plan query.SortPlan, page query.PageRequest) (models.FabricPage, error) {
	ps := query.BuildFilter(ownerID, filter)

	total, err := s.fabrics.Count(ctx, ps)
	if err != nil {
		return models.FabricPage{}, err
	}

	fabrics, err := s.fabrics.List(ctx, ps, plan, page)
	if err != nil {
		return models.FabricPage{}, err
	}

	return models.FabricPage{
		Total: total,
		List:  s.resolveViews(ctx, fabrics),
		Page:  page.Page,
		Limit: page.Limit,
	}, nil
}

// ListAll fetches the whole filtered set, resolved, without pagination.
func (s *Service) ListAll(ctx context.Context, ownerID primitive.ObjectID, filter query.FilterRequest, plan query.SortPlan) ([]models.FabricView, error) {
	ps := query.BuildFilter(ownerID, filter)
	fabrics, err := s.fabrics.ListAll(ctx, ps, plan)
	if err != nil {
		return nil, err
	}
	return s.resolveViews(ctx, fabrics), nil
}

// Stats summarizes the filtered set. Length totals come back canonicalized
// from the store and are rounded here; an empty set yields explicit zeros.
func (s *Service) Stats(ctx context.Context, ownerID primitive.ObjectID, filter query.FilterRequest) (models.Stats, error) {
	ps := query.BuildFilter(ownerID, filter)

	stats, err := s.fabrics.Stats(ctx, ps)
	if err != nil {
		return models.Stats{}, err
	}

	stats.TotalLength = query.Round2(stats.TotalLength)
	stats.TotalUsedLength = query.Round2(stats.TotalUsedLength)
	stats.RemainingLength = query.Round2(stats.RemainingLength)
	stats.TotalValue = query.Round2(stats.TotalValue)
	return stats, nil
}

func parseOptionalID(raw string) *primitive.ObjectID {
	if raw == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil
	}
	return &id
}
