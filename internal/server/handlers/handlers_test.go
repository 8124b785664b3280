package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fabstash/backend/internal/domain/models"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseFilterReadsAllDimensions(t *testing.T) {
	tagID := primitive.NewObjectID().Hex()
	c := testContext(t, "/api/fabrics?keyword=linen&favorite=true&tagsId="+tagID+"&isUsed=true&lengthRange=1-3&remainingLengthRange=10%2B")

	filter := parseFilter(c)
	require.Equal(t, "linen", filter.Keyword)
	require.True(t, filter.Favorite)
	require.Equal(t, tagID, filter.TagsID)
	require.NotNil(t, filter.IsUsed)
	require.True(t, *filter.IsUsed)
	require.Equal(t, "1-3", filter.LengthRange)
	require.Equal(t, "10+", filter.RemainingLengthRange)
}

func TestParseFilterTreatsAbsentUsageAsUnset(t *testing.T) {
	c := testContext(t, "/api/fabrics")
	require.Nil(t, parseFilter(c).IsUsed)

	// a value that is neither true nor false adds no constraint
	c = testContext(t, "/api/fabrics?isUsed=maybe")
	require.Nil(t, parseFilter(c).IsUsed)
}

func TestParseFilterFavoriteOnlyOnExactTrue(t *testing.T) {
	c := testContext(t, "/api/fabrics?favorite=1")
	require.False(t, parseFilter(c).Favorite)
}

func TestCurrentUserMissing(t *testing.T) {
	c := testContext(t, "/api/fabrics")

	_, ok := CurrentUser(c)
	require.False(t, ok)

	user := models.User{ID: primitive.NewObjectID()}
	c.Set(ContextUserKey, user)

	got, ok := CurrentUser(c)
	require.True(t, ok)
	require.Equal(t, user.ID, got.ID)
}

func TestRespondEnvelopeShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondError(c, 404, 404001, "fabric not found")
	require.Equal(t, 404, rec.Code)
	require.JSONEq(t, `{"code":404001,"message":"fabric not found"}`, rec.Body.String())
}
