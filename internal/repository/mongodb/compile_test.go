package mongodb

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabstash/backend/internal/query"
)

func stageKey(t *testing.T, stage bson.D) string {
	t.Helper()
	require.Len(t, stage, 1)
	return stage[0].Key
}

func TestCompileStoredOwnerFirst(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{Keyword: "silk", Favorite: true})

	match := compileStored(ps)
	require.Equal(t, "createdBy", match[0].Key)
	require.Equal(t, owner, match[0].Value)
}

func TestCompileStoredKeywordSearchesTextProjections(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{Keyword: "100% cotton"})

	match := compileStored(ps)
	require.Len(t, match, 2)
	require.Equal(t, "$or", match[1].Key)

	branches, ok := match[1].Value.(bson.A)
	require.True(t, ok)
	require.Len(t, branches, 4)

	first := branches[0].(bson.D)
	require.Equal(t, "name", first[0].Key)
	rx := first[0].Value.(primitive.Regex)
	// metacharacters in the keyword must be escaped, not interpreted
	require.Equal(t, regexp.QuoteMeta("100% cotton"), rx.Pattern)
	require.Equal(t, "i", rx.Options)
}

func TestCompileStoredUsageState(t *testing.T) {
	owner := primitive.NewObjectID()

	used := true
	match := compileStored(query.BuildFilter(owner, query.FilterRequest{IsUsed: &used}))
	require.Equal(t, bson.E{Key: "usedLength", Value: bson.D{{Key: "$gt", Value: 0}}}, match[1])

	unused := false
	match = compileStored(query.BuildFilter(owner, query.FilterRequest{IsUsed: &unused}))
	require.Equal(t, bson.E{Key: "usedLength", Value: 0}, match[1])
}

func TestCompileStoredRefAnyOfUsesIn(t *testing.T) {
	owner := primitive.NewObjectID()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ps := query.BuildFilter(owner, query.FilterRequest{TagsID: a.Hex() + "," + b.Hex()})
	match := compileStored(ps)

	require.Equal(t, "tagsId", match[1].Key)
	require.Equal(t, bson.D{{Key: "$in", Value: []primitive.ObjectID{a, b}}}, match[1].Value)
}

func TestCompileDerivedBoundsFollowBucketEdges(t *testing.T) {
	owner := primitive.NewObjectID()

	// closed bucket: inclusive both ends
	ps := query.BuildFilter(owner, query.FilterRequest{LengthRange: "0-1"})
	derived := compileDerived(ps)
	require.Equal(t, bson.D{
		{Key: string(query.DerivedLengthMeters), Value: bson.D{
			{Key: "$gte", Value: 0.0},
			{Key: "$lte", Value: 1.0},
		}},
	}, derived)

	// half-open bucket: exclusive lower edge
	ps = query.BuildFilter(owner, query.FilterRequest{RemainingLengthRange: "1-3"})
	derived = compileDerived(ps)
	require.Equal(t, bson.D{
		{Key: string(query.DerivedRemainingMeters), Value: bson.D{
			{Key: "$gt", Value: 1.0},
			{Key: "$lte", Value: 3.0},
		}},
	}, derived)

	// unbounded bucket: no upper edge
	ps = query.BuildFilter(owner, query.FilterRequest{LengthRange: "10+"})
	derived = compileDerived(ps)
	require.Equal(t, bson.D{
		{Key: string(query.DerivedLengthMeters), Value: bson.D{
			{Key: "$gt", Value: 10.0},
		}},
	}, derived)
}

func TestCompileDerivedNilWithoutRangePredicates(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{Favorite: true})
	require.Nil(t, compileDerived(ps))
}

func TestListPipelineStoredOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{})
	plan := query.ResolveSort("createdAt", "desc")
	page := query.ParsePage("2", "10")

	pipeline := listPipeline(ps, plan, page)
	require.Len(t, pipeline, 4)
	require.Equal(t, "$match", stageKey(t, pipeline[0]))
	require.Equal(t, "$sort", stageKey(t, pipeline[1]))
	require.Equal(t, "$skip", stageKey(t, pipeline[2]))
	require.Equal(t, "$limit", stageKey(t, pipeline[3]))

	require.EqualValues(t, 10, pipeline[2][0].Value)
	require.EqualValues(t, 10, pipeline[3][0].Value)
}

func TestListPipelineDerivedFilterOrdering(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{RemainingLengthRange: "3-5"})
	plan := query.ResolveSort("", "")
	page := query.ParsePage("", "")

	pipeline := listPipeline(ps, plan, page)
	keys := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		keys = append(keys, stageKey(t, stage))
	}
	// materialize before the derived match, strip temporaries last
	require.Equal(t, []string{"$match", "$addFields", "$match", "$sort", "$skip", "$limit", "$unset"}, keys)
}

func TestListPipelineDerivedSortWithoutFilter(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{})
	plan := query.ResolveSort("remainingLength", "asc")
	page := query.ParsePage("", "")

	pipeline := listPipeline(ps, plan, page)
	keys := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		keys = append(keys, stageKey(t, stage))
	}
	require.Equal(t, []string{"$match", "$addFields", "$sort", "$skip", "$limit", "$unset"}, keys)

	sort := pipeline[2][0].Value.(bson.D)
	require.Equal(t, string(query.DerivedRemainingMeters), sort[0].Key)
	require.Equal(t, 1, sort[0].Value)
}

func TestListPipelineZeroLimitSkipsPagination(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{})
	plan := query.ResolveSort("", "")

	pipeline := listPipeline(ps, plan, query.PageRequest{Page: 1, Limit: 0})
	for _, stage := range pipeline {
		require.NotEqual(t, "$skip", stageKey(t, stage))
		require.NotEqual(t, "$limit", stageKey(t, stage))
	}
}

func TestCountPipelineHasNoPagination(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{LengthRange: "5-10"})

	pipeline := countPipeline(ps)
	keys := make([]string, 0, len(pipeline))
	for _, stage := range pipeline {
		keys = append(keys, stageKey(t, stage))
	}
	require.Equal(t, []string{"$match", "$addFields", "$match", "$count"}, keys)
	require.Equal(t, "total", pipeline[len(pipeline)-1][0].Value)
}

func TestStatsPipelineGroupsCanonicalTotals(t *testing.T) {
	owner := primitive.NewObjectID()
	ps := query.BuildFilter(owner, query.FilterRequest{})

	pipeline := statsPipeline(ps)
	last := pipeline[len(pipeline)-1]
	require.Equal(t, "$group", stageKey(t, last))

	group := last[0].Value.(bson.D)
	fields := make(map[string]bool, len(group))
	for _, e := range group {
		fields[e.Key] = true
	}
	for _, want := range []string{"_id", "totalCount", "totalLength", "totalUsedLength", "remainingLength", "totalValue"} {
		require.True(t, fields[want], "missing group field %s", want)
	}

	// the canonical materialization always precedes the fold
	require.Equal(t, "$addFields", stageKey(t, pipeline[1]))
}
