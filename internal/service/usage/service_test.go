package usage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/repository/mongodb"
)

type fakeFabricStore struct {
	fabric models.Fabric
	exists bool
}

func (f *fakeFabricStore) FindByID(_ context.Context, _, id primitive.ObjectID) (models.Fabric, error) {
	if f.exists && f.fabric.ID == id {
		return f.fabric, nil
	}
	return models.Fabric{}, mongodb.ErrNotFound
}

func (f *fakeFabricStore) ApplyUsage(_ context.Context, _, id primitive.ObjectID, usedLength float64) (models.Fabric, error) {
	if !f.exists || f.fabric.ID != id {
		return models.Fabric{}, mongodb.ErrNotFound
	}
	if f.fabric.UsedLength+usedLength > f.fabric.Length {
		return models.Fabric{}, mongodb.ErrNotFound
	}
	f.fabric.UsedLength += usedLength
	return f.fabric, nil
}

func (f *fakeFabricStore) Insert(_ context.Context, fabric models.Fabric) (models.Fabric, error) {
	return fabric, nil
}

func (f *fakeFabricStore) Update(_ context.Context, _, _ primitive.ObjectID, fabric models.Fabric) (models.Fabric, error) {
	return fabric, nil
}

func (f *fakeFabricStore) Delete(_ context.Context, _, _ primitive.ObjectID) error {
	return nil
}

func (f *fakeFabricStore) ToggleFavorite(_ context.Context, _, _ primitive.ObjectID) (models.Fabric, error) {
	return models.Fabric{}, mongodb.ErrNotFound
}

func (f *fakeFabricStore) List(_ context.Context, _ query.PredicateSet, _ query.SortPlan, _ query.PageRequest) ([]models.Fabric, error) {
	return nil, nil
}

func (f *fakeFabricStore) ListAll(_ context.Context, _ query.PredicateSet, _ query.SortPlan) ([]models.Fabric, error) {
	return nil, nil
}

func (f *fakeFabricStore) Count(_ context.Context, _ query.PredicateSet) (int64, error) {
	return 0, nil
}

func (f *fakeFabricStore) Stats(_ context.Context, _ query.PredicateSet) (models.Stats, error) {
	return models.Stats{}, nil
}

func (f *fakeFabricStore) DistinctOwners(_ context.Context) ([]primitive.ObjectID, error) {
	return nil, nil
}

type fakeUsageStore struct {
	records []models.UsageRecord
}

func (f *fakeUsageStore) Insert(_ context.Context, record models.UsageRecord) (models.UsageRecord, error) {
	record.ID = primitive.NewObjectID()
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeUsageStore) ListByOwner(_ context.Context, _ primitive.ObjectID) ([]models.UsageRecord, error) {
	return f.records, nil
}

func TestCreateRejectsNonPositiveLength(t *testing.T) {
	svc := NewService(&fakeFabricStore{}, &fakeUsageStore{}, nil)

	for _, length := range []float64{0, -1.5} {
		_, err := svc.Create(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), length)
		require.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestCreateMissingFabric(t *testing.T) {
	svc := NewService(&fakeFabricStore{}, &fakeUsageStore{}, nil)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	require.ErrorIs(t, err, ErrFabricNotFound)
}

func TestCreateGuardsRemainingLength(t *testing.T) {
	fabricID := primitive.NewObjectID()
	fabrics := &fakeFabricStore{
		exists: true,
		fabric: models.Fabric{ID: fabricID, Length: 5, UsedLength: 4},
	}
	svc := NewService(fabrics, &fakeUsageStore{}, nil)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), fabricID, 2)
	require.ErrorIs(t, err, ErrExceedsRemaining)
	require.Equal(t, 4.0, fabrics.fabric.UsedLength)
}

func TestCreateAdvancesUsedLengthAndRecords(t *testing.T) {
	fabricID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	fabrics := &fakeFabricStore{
		exists: true,
		fabric: models.Fabric{ID: fabricID, Length: 5, UsedLength: 1},
	}
	usages := &fakeUsageStore{}
	svc := NewService(fabrics, usages, nil)

	record, err := svc.Create(context.Background(), owner, fabricID, 2.5)
	require.NoError(t, err)
	require.Equal(t, 2.5, record.UsedLength)
	require.Equal(t, fabricID, record.FabricID)
	require.Equal(t, owner, record.CreatedBy)
	require.False(t, record.UsageDate.IsZero())

	require.Equal(t, 3.5, fabrics.fabric.UsedLength)
	require.Len(t, usages.records, 1)
}

func TestListResolvesFabricProjection(t *testing.T) {
	fabricID := primitive.NewObjectID()
	gone := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	fabrics := &fakeFabricStore{
		exists: true,
		fabric: models.Fabric{ID: fabricID, Name: "denim roll"},
	}
	usages := &fakeUsageStore{records: []models.UsageRecord{
		{ID: primitive.NewObjectID(), FabricID: fabricID, UsedLength: 1},
		{ID: primitive.NewObjectID(), FabricID: gone, UsedLength: 2},
		{ID: primitive.NewObjectID(), FabricID: fabricID, UsedLength: 0.5},
	}}
	svc := NewService(fabrics, usages, nil)

	out, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, out, 3)

	require.NotNil(t, out[0].Fabric)
	require.Equal(t, "denim roll", out[0].Fabric.Name)
	require.Equal(t, fabricID.Hex(), out[0].Fabric.ID)

	// a deleted fabric resolves to nil, the record still lists
	require.Nil(t, out[1].Fabric)

	require.NotNil(t, out[2].Fabric)
}
