package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabstash/backend/internal/query"
)

func TestBuildFilterAlwaysAnchorsOwnerFirst(t *testing.T) {
	owner := primitive.NewObjectID()

	ps := query.BuildFilter(owner, query.FilterRequest{})
	require.Len(t, ps, 1)
	require.Equal(t, query.OwnerIs{OwnerID: owner}, ps[0])

	used := true
	ps = query.BuildFilter(owner, query.FilterRequest{
		Keyword:     "linen",
		Favorite:    true,
		IsUsed:      &used,
		LengthRange: "1-3",
	})
	require.Equal(t, query.OwnerIs{OwnerID: owner}, ps[0])
	require.Len(t, ps, 5)
}

func TestBuildFilterDropsInvalidReferenceIDs(t *testing.T) {
	owner := primitive.NewObjectID()
	valid := primitive.NewObjectID()

	ps := query.BuildFilter(owner, query.FilterRequest{
		TagsID: valid.Hex() + ",not-an-id,123",
	})
	require.Len(t, ps, 2)

	ref, ok := ps[1].(query.RefAnyOf)
	require.True(t, ok)
	require.Equal(t, query.RefTags, ref.Dimension)
	require.Equal(t, []primitive.ObjectID{valid}, ref.IDs)
}

func TestBuildFilterDropsDimensionWhenAllIDsInvalid(t *testing.T) {
	owner := primitive.NewObjectID()

	ps := query.BuildFilter(owner, query.FilterRequest{
		MaterialsID: "garbage,also-garbage",
		BrandID:     ",,",
	})
	require.Len(t, ps, 1)
}

func TestBuildFilterFavoriteFalseImposesNoConstraint(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{Favorite: false})
	require.Len(t, ps, 1)
}

func TestBuildFilterUsageState(t *testing.T) {
	owner := primitive.NewObjectID()

	used := true
	ps := query.BuildFilter(owner, query.FilterRequest{IsUsed: &used})
	require.Contains(t, ps, query.Predicate(query.UsageIs{Used: true}))

	unused := false
	ps = query.BuildFilter(owner, query.FilterRequest{IsUsed: &unused})
	require.Contains(t, ps, query.Predicate(query.UsageIs{Used: false}))
}

func TestBuildFilterUnknownBucketKeyAddsNothing(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{
		LengthRange:          "2-4",
		RemainingLengthRange: "huge",
	})
	require.Len(t, ps, 1)
	require.False(t, ps.NeedsDerived())
}

func TestBuildFilterBucketPredicatesTargetDerivedFields(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{
		LengthRange:          "3-5",
		RemainingLengthRange: "0-1",
	})
	require.True(t, ps.NeedsDerived())

	var fields []query.DerivedField
	for _, p := range ps {
		if lw, ok := p.(query.LengthWithin); ok {
			fields = append(fields, lw.Field)
		}
	}
	require.ElementsMatch(t, []query.DerivedField{query.DerivedLengthMeters, query.DerivedRemainingMeters}, fields)
}

func TestParseIDListTrimsAndFilters(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	ids := query.ParseIDList(" " + a.Hex() + " , nope ," + b.Hex())
	require.Equal(t, []primitive.ObjectID{a, b}, ids)

	require.Nil(t, query.ParseIDList(""))
}
