package inventory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

// nameLookup holds the id → name projections for one page of results.
type nameLookup struct {
	brands    map[primitive.ObjectID]string
	materials map[primitive.ObjectID]string
	tags      map[primitive.ObjectID]string
	channels  map[primitive.ObjectID]string
}

// resolveViews turns stored fabrics into API views with their catalog
// references replaced by {id, name} projections. A reference that cannot be
// resolved is omitted (nil for single-valued, dropped from lists) instead of
// failing the request.
func (s *Service) resolveViews(ctx context.Context, fabrics []models.Fabric) []models.FabricView {
	lookup := s.lookupNames(ctx, fabrics)

	views := make([]models.FabricView, 0, len(fabrics))
	for _, fabric := range fabrics {
		views = append(views, buildView(fabric, lookup))
	}
	return views
}

func (s *Service) resolveOne(ctx context.Context, fabric models.Fabric) models.FabricView {
	lookup := s.lookupNames(ctx, []models.Fabric{fabric})
	return buildView(fabric, lookup)
}

func (s *Service) lookupNames(ctx context.Context, fabrics []models.Fabric) nameLookup {
	var brandIDs, materialIDs, tagIDs, channelIDs []primitive.ObjectID
	for _, fabric := range fabrics {
		if fabric.BrandID != nil {
			brandIDs = append(brandIDs, *fabric.BrandID)
		}
		if fabric.PurchaseChannelID != nil {
			channelIDs = append(channelIDs, *fabric.PurchaseChannelID)
		}
		materialIDs = append(materialIDs, fabric.MaterialsID...)
		tagIDs = append(tagIDs, fabric.TagsID...)
	}

	return nameLookup{
		brands:    s.safeResolve(ctx, s.brands, brandIDs, "brands"),
		materials: s.safeResolve(ctx, s.materials, materialIDs, "materials"),
		tags:      s.safeResolve(ctx, s.tags, tagIDs, "tags"),
		channels:  s.safeResolve(ctx, s.channels, channelIDs, "channels"),
	}
}

// safeResolve degrades a failed lookup to an empty map: the page renders
// with unresolved references instead of erroring out.
func (s *Service) safeResolve(ctx context.Context, store mongodb.CatalogStore, ids []primitive.ObjectID, kind string) map[primitive.ObjectID]string {
	names, err := store.ResolveNames(ctx, ids)
	if err != nil {
		s.logger.Warn("reference resolution failed", zap.String("catalog", kind), zap.Error(err))
		return map[primitive.ObjectID]string{}
	}
	return names
}

func buildView(f models.Fabric, lookup nameLookup) models.FabricView {
	return models.FabricView{
		ID:                      f.ID.Hex(),
		Name:                    f.Name,
		Brand:                   namedRef(f.BrandID, lookup.brands),
		BrandText:               f.BrandText,
		Length:                  f.Length,
		Width:                   f.Width,
		LengthUnit:              f.LengthUnit,
		UsedLength:              f.UsedLength,
		RemainingLength:         query.Round2(f.Length - f.UsedLength),
		LengthInMeters:          query.Round2(query.CanonicalLength(f.Length, f.LengthUnit)),
		RemainingLengthInMeters: query.Round2(query.RemainingCanonical(f.Length, f.UsedLength, f.LengthUnit)),
		Price:                   f.Price,
		Origin:                  f.Origin,
		PurchaseDate:            f.PurchaseDate,
		Materials:               namedRefs(f.MaterialsID, lookup.materials),
		MaterialsText:           f.MaterialsText,
		CoverImage:              f.CoverImage,
		DetailImages:            f.DetailImages,
		Tags:                    namedRefs(f.TagsID, lookup.tags),
		TagsText:                f.TagsText,
		IsFavorite:              f.IsFavorite,
		Notes:                   f.Notes,
		PurchaseChannel:         namedRef(f.PurchaseChannelID, lookup.channels),
		PurchaseChannelText:     f.PurchaseChannelText,
		CreatedAt:               f.CreatedAt,
		UpdatedAt:               f.UpdatedAt,
	}
}

func namedRef(id *primitive.ObjectID, names map[primitive.ObjectID]string) *models.NamedRef {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &models.NamedRef{ID: id.Hex(), Name: name}
}

func namedRefs(ids []primitive.ObjectID, names map[primitive.ObjectID]string) []models.NamedRef {
	refs := make([]models.NamedRef, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			refs = append(refs, models.NamedRef{ID: id.Hex(), Name: name})
		}
	}
	return refs
}
