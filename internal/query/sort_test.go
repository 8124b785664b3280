package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabstash/backend/internal/query"
)

func TestResolveSortStoredFields(t *testing.T) {
	for _, field := range []string{"createdAt", "updatedAt", "width", "price", "length"} {
		plan := query.ResolveSort(field, "asc")
		require.Equal(t, field, plan.Field)
		require.False(t, plan.Derived)
		require.False(t, plan.Descending)
	}
}

func TestResolveSortDerivedField(t *testing.T) {
	plan := query.ResolveSort("remainingLength", "asc")
	require.True(t, plan.Derived)
	require.Equal(t, string(query.DerivedRemainingMeters), plan.Field)
	require.False(t, plan.Descending)
}

func TestResolveSortDefaultsAndFallback(t *testing.T) {
	// Unknown keys fall back to createdAt descending regardless of order.
	plan := query.ResolveSort("nonsense", "asc")
	require.Equal(t, query.SortPlan{Field: "createdAt", Descending: true}, plan)

	// Anything other than asc sorts descending.
	require.True(t, query.ResolveSort("price", "").Descending)
	require.True(t, query.ResolveSort("price", "desc").Descending)
	require.True(t, query.ResolveSort("price", "DESC").Descending)
}
