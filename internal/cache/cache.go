package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// CacheService wraps storage with Redis caching of the public list reads.
// Every write through it drops the keys it can affect.
type CacheService struct {
	storage storage.Storage
	redis   *redis.Client
}

// NewCacheService creates a new cache service
func NewCacheService(storage storage.Storage, redisClient *redis.Client) *CacheService {
	return &CacheService{
		storage: storage,
		redis:   redisClient,
	}
}

// Cache keys
const (
	KeyPrefix    = "portfolio:"
	ProjectsKey  = KeyPrefix + "projects"
	MediaKey     = KeyPrefix + "media"
	MarketingKey = KeyPrefix + "marketing"
	ProfileKey   = KeyPrefix + "profile"
)

// Cache durations
const (
	ProjectsCacheDuration  = 5 * time.Minute
	MediaCacheDuration     = 5 * time.Minute
	MarketingCacheDuration = 5 * time.Minute
	ProfileCacheDuration   = 10 * time.Minute
)

// GenPrefix holds a generation counter per cache key. Writes bump it in the
// same transaction that drops the key, and a read fills the key only if the
// counter has not moved since the read started.
const GenPrefix = "portfolio-gen:"

var errStaleFill = errors.New("cache key invalidated during load")

func genKey(key string) string {
	return GenPrefix + strings.TrimPrefix(key, KeyPrefix)
}

func cached[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	}

	gen, genErr := c.redis.Get(ctx, genKey(key)).Result()
	if errors.Is(genErr, redis.Nil) {
		genErr = nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if genErr != nil {
		// cannot tell whether a write races this load
		return v, nil
	}

	data, _ := json.Marshal(v)
	if err := c.fill(ctx, key, gen, data, ttl); err != nil {
		if errors.Is(err, errStaleFill) || errors.Is(err, redis.TxFailedErr) {
			slog.Debug("skipped stale cache fill", slog.String("key", key))
		} else {
			slog.Warn("failed to populate cache", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return v, nil
}

func (c *CacheService) fill(ctx context.Context, key, gen string, data []byte, ttl time.Duration) error {
	gk := genKey(key)
	return c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gk).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, gk)
}

// invalidate drops keys and bumps their generations atomically. It returns
// how many keys existed.
func invalidate(ctx context.Context, client *redis.Client, keys ...string) (int64, error) {
	var del *redis.IntCmd
	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, genKey(key))
		}
		del = pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return del.Val(), nil
}

// Invalidate drops the given keys. Errors are logged; a stale entry expires
// on its own.
func (c *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if _, err := invalidate(ctx, c.redis, keys...); err != nil {
		slog.Warn("failed to invalidate cache", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

func (c *CacheService) ListProjects(ctx context.Context) ([]types.ProjectRow, error) {
	return cached(ctx, c, ProjectsKey, ProjectsCacheDuration, func() ([]types.ProjectRow, error) {
		return c.storage.ListProjects(ctx)
	})
}

func (c *CacheService) GetProject(ctx context.Context, id int64) (types.ProjectRow, error) {
	return c.storage.GetProject(ctx, id)
}

func (c *CacheService) CreateProject(ctx context.Context, row types.ProjectRow) (types.ProjectRow, error) {
	created, err := c.storage.CreateProject(ctx, row)
	if err != nil {
		return created, err
	}
	c.Invalidate(ctx, ProjectsKey)
	return created, nil
}

func (c *CacheService) UpdateProject(ctx context.Context, id int64, patch types.ProjectPatch) (types.ProjectRow, error) {
	updated, err := c.storage.UpdateProject(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	c.Invalidate(ctx, ProjectsKey)
	return updated, nil
}

func (c *CacheService) DeleteProject(ctx context.Context, id int64) error {
	if err := c.storage.DeleteProject(ctx, id); err != nil {
		return err
	}
	// media rows go with the project
	c.Invalidate(ctx, ProjectsKey, MediaKey)
	return nil
}

func (c *CacheService) ListMedia(ctx context.Context) ([]types.Media, error) {
	return cached(ctx, c, MediaKey, MediaCacheDuration, func() ([]types.Media, error) {
		return c.storage.ListMedia(ctx)
	})
}

func (c *CacheService) ListMediaByProject(ctx context.Context, projectID int64) ([]types.Media, error) {
	return c.storage.ListMediaByProject(ctx, projectID)
}

func (c *CacheService) GetMedia(ctx context.Context, id string) (types.Media, error) {
	return c.storage.GetMedia(ctx, id)
}

func (c *CacheService) CreateMedia(ctx context.Context, m types.Media) (types.Media, error) {
	created, err := c.storage.CreateMedia(ctx, m)
	if err != nil {
		return created, err
	}
	c.Invalidate(ctx, MediaKey)
	return created, nil
}

func (c *CacheService) DeleteMedia(ctx context.Context, id string) error {
	if err := c.storage.DeleteMedia(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, MediaKey)
	return nil
}

func (c *CacheService) ListMarketingItems(ctx context.Context) ([]types.MarketingItem, error) {
	return cached(ctx, c, MarketingKey, MarketingCacheDuration, func() ([]types.MarketingItem, error) {
		return c.storage.ListMarketingItems(ctx)
	})
}

func (c *CacheService) GetMarketingItem(ctx context.Context, id int64) (types.MarketingItem, error) {
	return c.storage.GetMarketingItem(ctx, id)
}

// MaxMarketingOrder always reads through; it decides the next order index.
func (c *CacheService) MaxMarketingOrder(ctx context.Context) (int, bool, error) {
	return c.storage.MaxMarketingOrder(ctx)
}

func (c *CacheService) CreateMarketingItem(ctx context.Context, item types.MarketingItem) (types.MarketingItem, error) {
	created, err := c.storage.CreateMarketingItem(ctx, item)
	if err != nil {
		return created, err
	}
	c.Invalidate(ctx, MarketingKey)
	return created, nil
}

func (c *CacheService) UpdateMarketingItem(ctx context.Context, id int64, patch types.MarketingItemPatch) (types.MarketingItem, error) {
	updated, err := c.storage.UpdateMarketingItem(ctx, id, patch)
	if err != nil {
		return updated, err
	}
	c.Invalidate(ctx, MarketingKey)
	return updated, nil
}

func (c *CacheService) DeleteMarketingItem(ctx context.Context, id int64) error {
	if err := c.storage.DeleteMarketingItem(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, MarketingKey)
	return nil
}

func (c *CacheService) GetProfileSetting(ctx context.Context) (types.ProfileSetting, error) {
	return cached(ctx, c, ProfileKey, ProfileCacheDuration, func() (types.ProfileSetting, error) {
		return c.storage.GetProfileSetting(ctx)
	})
}

func (c *CacheService) UpsertProfileSetting(ctx context.Context, imageURL string) (types.ProfileSetting, error) {
	ps, err := c.storage.UpsertProfileSetting(ctx, imageURL)
	if err != nil {
		return ps, err
	}
	c.Invalidate(ctx, ProfileKey)
	return ps, nil
}

func (c *CacheService) CreateContactMessage(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	return c.storage.CreateContactMessage(ctx, msg)
}

func (c *CacheService) Close() error {
	return c.storage.Close()
}

var _ storage.Storage = (*CacheService)(nil)
