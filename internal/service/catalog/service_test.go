package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

type fakeStore struct {
	byName   map[string]models.CatalogItem
	inserted []models.CatalogItem
	items    []models.CatalogItem
}

func (f *fakeStore) Insert(_ context.Context, item models.CatalogItem) (models.CatalogItem, error) {
	item.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, item)
	return item, nil
}

func (f *fakeStore) Delete(_ context.Context, _, id primitive.ObjectID) error {
	for _, item := range f.items {
		if item.ID == id {
			return nil
		}
	}
	return mongodb.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, _ primitive.ObjectID, _ string) ([]models.CatalogItem, error) {
	return f.items, nil
}

func (f *fakeStore) FindByName(_ context.Context, _ primitive.ObjectID, name string) (models.CatalogItem, error) {
	if item, ok := f.byName[name]; ok {
		return item, nil
	}
	return models.CatalogItem{}, mongodb.ErrNotFound
}

func (f *fakeStore) ResolveNames(_ context.Context, _ []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return map[primitive.ObjectID]string{}, nil
}

func TestCreateTrimsName(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, false, nil)

	item, err := svc.Create(context.Background(), primitive.NewObjectID(), "  silk  ")
	require.NoError(t, err)
	require.Equal(t, "silk", item.Name)
	require.False(t, item.ID.IsZero())
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc := NewService(&fakeStore{}, false, nil)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), "   ")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateEnforcesUniqueNamesWhenConfigured(t *testing.T) {
	store := &fakeStore{byName: map[string]models.CatalogItem{
		"vintage": {ID: primitive.NewObjectID(), Name: "vintage"},
	}}

	unique := NewService(store, true, nil)
	_, err := unique.Create(context.Background(), primitive.NewObjectID(), "vintage")
	require.ErrorIs(t, err, ErrDuplicateName)

	// the same name passes when uniqueness is off
	relaxed := NewService(store, false, nil)
	_, err = relaxed.Create(context.Background(), primitive.NewObjectID(), "vintage")
	require.NoError(t, err)
}

func TestDeleteMapsMissingItem(t *testing.T) {
	svc := NewService(&fakeStore{}, false, nil)

	err := svc.Delete(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}
