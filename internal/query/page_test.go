package query_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fabstash/backend/internal/query"
)

func TestParsePageCoercion(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"both absent", "", "", 1, 10},
		{"plain values", "3", "25", 3, 25},
		{"malformed falls back", "abc", "x", 1, 10},
		{"zero clamps to one", "0", "0", 1, 1},
		{"negative clamps to one", "-5", "-1", 1, 1},
		{"float is malformed", "2.5", "", 1, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := query.ParsePage(tc.page, tc.limit)
			require.Equal(t, tc.wantPage, got.Page)
			require.Equal(t, tc.wantLimit, got.Limit)
		})
	}
}

func TestPageSkip(t *testing.T) {
	require.EqualValues(t, 0, query.PageRequest{Page: 1, Limit: 10}.Skip())
	require.EqualValues(t, 40, query.PageRequest{Page: 5, Limit: 10}.Skip())
	require.EqualValues(t, 6, query.PageRequest{Page: 4, Limit: 2}.Skip())
}
