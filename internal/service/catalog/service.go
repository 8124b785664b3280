package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

// ErrNotFound is returned when an item does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("catalog item not found")

// ErrDuplicateName flags a create that would violate per-owner name
// uniqueness.
var ErrDuplicateName = errors.New("name already exists")

// ErrEmptyName flags a create with no usable name.
var ErrEmptyName = errors.New("name must not be empty")

// Service manages one catalog kind (brands, materials, tags or purchase
// channels). Tags additionally enforce unique names per owner.
type Service struct {
	store      mongodb.CatalogStore
	uniqueName bool
	logger     *zap.Logger
}

// NewService wires a catalog service for one collection.
func NewService(store mongodb.CatalogStore, uniqueName bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, uniqueName: uniqueName, logger: logger}
}

// Create stores a new item for the owner.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, name string) (models.CatalogItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.CatalogItem{}, ErrEmptyName
	}

	if s.uniqueName {
		_, err := s.store.FindByName(ctx, ownerID, name)
		switch {
		case err == nil:
			return models.CatalogItem{}, ErrDuplicateName
		case !errors.Is(err, mongodb.ErrNotFound):
			return models.CatalogItem{}, err
		}
	}

	return s.store.Insert(ctx, models.CatalogItem{
		Name:      name,
		CreatedBy: ownerID,
		CreatedAt: time.Now(),
	})
}

// List returns the owner's items, optionally filtered by keyword.
func (s *Service) List(ctx context.Context, ownerID primitive.ObjectID, keyword string) ([]models.CatalogItem, error) {
	return s.store.List(ctx, ownerID, strings.TrimSpace(keyword))
}

// Delete removes an owner's item.
func (s *Service) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	err := s.store.Delete(ctx, ownerID, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
