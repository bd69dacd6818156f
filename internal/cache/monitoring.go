package cache

import (
	"fmt"
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/portfolio-service/internal/utils/response"
)

// CacheStats represents cache performance statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys"`
	KeyCount       int      `json:"total_keys"`
}

var clearTypes = map[string][]string{
	"projects":  {ProjectsKey},
	"media":     {MediaKey},
	"marketing": {MarketingKey},
	"profile":   {ProfileKey},
	"all":       {ProjectsKey, MediaKey, MarketingKey, ProfileKey},
}

// GetCacheStats returns cache performance statistics
// @Summary Cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{
			RedisConnected: true,
			CacheKeys:      []string{},
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		keys := redisClient.Keys(ctx, KeyPrefix+"*")
		if keys.Err() == nil {
			stats.CacheKeys = keys.Val()
		}

		dbSize := redisClient.DBSize(ctx)
		if dbSize.Err() == nil {
			stats.KeyCount = int(dbSize.Val())
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache endpoint for administrative purposes
// @Summary Clear cached reads
// @Tags admin
// @Produce json
// @Param type query string false "projects, media, marketing, profile or all"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/cache [delete]
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cacheType := r.URL.Query().Get("type")
		if cacheType == "" {
			cacheType = "all"
		}

		keys, ok := clearTypes[cacheType]
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(fmt.Errorf("unknown cache type %q", cacheType)))
			return
		}

		deleted, err := invalidate(ctx, redisClient, keys...)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		result := map[string]interface{}{
			"keys":         keys,
			"deleted_keys": deleted,
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared", result))
	}
}
