package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/confpulse/confpulse-backend/internal/logger"
	"github.com/confpulse/confpulse-backend/internal/utils"
)

// FacetCache is a short-TTL cache for facet documents. Facet aggregation fans
// out a dozen queries per request, so even a small TTL takes real load off the
// database. The cache is best-effort: misses and errors fall through to the
// database.
type FacetCache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
	Invalidate(ctx context.Context)
}

const facetCachePrefix = "facets:"

type redisFacetCache struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisFacetCache connects to REDIS_ADDR. Callers treat a connection error
// as "run without a cache", mirroring how other optional backends are wired.
func NewRedisFacetCache(log *logger.Logger) (FacetCache, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := utils.GetEnvAsInt("FACET_CACHE_TTL_SECONDS", 60, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisFacetCache{
		log: log.With("service", "RedisFacetCache"),
		rdb: rdb,
		ttl: time.Duration(ttl) * time.Second,
	}, nil
}

func (c *redisFacetCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, facetCachePrefix+key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *redisFacetCache) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Failed to marshal cache entry", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, facetCachePrefix+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to write cache entry", "key", key, "error", err)
	}
}

func (c *redisFacetCache) Invalidate(ctx context.Context) {
	keys, err := c.rdb.Keys(ctx, facetCachePrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Failed to invalidate facet cache", "error", err)
	}
}

// noopFacetCache backs the service when Redis is not configured.
type noopFacetCache struct{}

func NewNoopFacetCache() FacetCache { return noopFacetCache{} }

func (noopFacetCache) Get(context.Context, string, any) bool { return false }
func (noopFacetCache) Set(context.Context, string, any)      {}
func (noopFacetCache) Invalidate(context.Context)            {}
