package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/storage/memdb"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// setupTestRedis creates an in-memory Redis server for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		redisClient.Close()
		mr.Close()
	})
	return redisClient, mr
}

func TestCacheService_ListProjectsIsCachedUntilWrite(t *testing.T) {
	ctx := context.Background()
	redisClient, mr := setupTestRedis(t)
	rows, err := memdb.New()
	require.NoError(t, err)
	c := NewCacheService(rows, redisClient)

	_, err = c.CreateProject(ctx, types.ProjectRow{Title: "one", Category: "Video"})
	require.NoError(t, err)

	list, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(ProjectsKey))

	// a write that bypasses the cache is not seen
	_, err = rows.CreateProject(ctx, types.ProjectRow{Title: "two", Category: "Video"})
	require.NoError(t, err)
	list, err = c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.CreateProject(ctx, types.ProjectRow{Title: "three", Category: "Video"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(ProjectsKey))

	list, err = c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCacheService_DeleteProjectDropsMedia(t *testing.T) {
	ctx := context.Background()
	redisClient, mr := setupTestRedis(t)
	rows, err := memdb.New()
	require.NoError(t, err)
	c := NewCacheService(rows, redisClient)

	p, err := c.CreateProject(ctx, types.ProjectRow{Title: "p", Category: "c"})
	require.NoError(t, err)
	_, err = c.CreateMedia(ctx, types.Media{ProjectID: p.ID, FilePath: "projects/1/a.png", Kind: types.MediaImage})
	require.NoError(t, err)

	media, err := c.ListMedia(ctx)
	require.NoError(t, err)
	require.Len(t, media, 1)
	_, err = c.ListProjects(ctx)
	require.NoError(t, err)

	require.NoError(t, c.DeleteProject(ctx, p.ID))
	assert.False(t, mr.Exists(ProjectsKey))
	assert.False(t, mr.Exists(MediaKey))

	media, err = c.ListMedia(ctx)
	require.NoError(t, err)
	assert.Empty(t, media)
}

// racingRows runs a write in the middle of the first ListProjects, after the
// rows were read but before they reach the cache.
type racingRows struct {
	storage.Storage
	during func()
}

func (r *racingRows) ListProjects(ctx context.Context) ([]types.ProjectRow, error) {
	rows, err := r.Storage.ListProjects(ctx)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return rows, err
}

func TestCacheService_WriteDuringLoadIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	redisClient, mr := setupTestRedis(t)
	inner, err := memdb.New()
	require.NoError(t, err)
	rows := &racingRows{Storage: inner}
	c := NewCacheService(rows, redisClient)

	_, err = c.CreateProject(ctx, types.ProjectRow{Title: "one", Category: "Video"})
	require.NoError(t, err)

	rows.during = func() {
		_, err := c.CreateProject(ctx, types.ProjectRow{Title: "two", Category: "Video"})
		require.NoError(t, err)
	}
	stale, err := c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 1)
	assert.False(t, mr.Exists(ProjectsKey), "stale load must not fill the cache")

	fresh, err := c.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.True(t, mr.Exists(ProjectsKey))
}

func TestCacheService_MaxMarketingOrderReadsThrough(t *testing.T) {
	ctx := context.Background()
	redisClient, _ := setupTestRedis(t)
	rows, err := memdb.New()
	require.NoError(t, err)
	c := NewCacheService(rows, redisClient)

	_, err = c.ListMarketingItems(ctx)
	require.NoError(t, err)
	_, err = rows.CreateMarketingItem(ctx, types.MarketingItem{Title: "direct", OrderIndex: 4})
	require.NoError(t, err)

	max, found, err := c.MaxMarketingOrder(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4, max)
}

func TestClearCache(t *testing.T) {
	redisClient, mr := setupTestRedis(t)
	mr.Set(ProjectsKey, "[]")
	mr.Set(MarketingKey, "[]")
	mr.Set("rate_limit:contact:203.0.113.7", "1")

	rec := httptest.NewRecorder()
	ClearCache(redisClient)(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache?type=projects", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, mr.Exists(ProjectsKey))
	assert.True(t, mr.Exists(MarketingKey))

	rec = httptest.NewRecorder()
	ClearCache(redisClient)(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, mr.Exists(MarketingKey))
	assert.True(t, mr.Exists("rate_limit:contact:203.0.113.7"))
	gen, err := mr.Get(GenPrefix + "projects")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)

	rec = httptest.NewRecorder()
	ClearCache(redisClient)(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache?type=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCacheStats(t *testing.T) {
	redisClient, mr := setupTestRedis(t)
	mr.Set(ProfileKey, "{}")

	rec := httptest.NewRecorder()
	GetCacheStats(redisClient)(rec, httptest.NewRequest(http.MethodGet, "/admin/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data CacheStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.RedisConnected)
	assert.Equal(t, []string{ProfileKey}, body.Data.CacheKeys)
}
