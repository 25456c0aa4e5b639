package cache

import (
	"context"
	"errors"
	"fmt"
	"tier-resolver/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const profileKeyPrefix = "tiers:profile:"

// RedisProfileCache shares confirmed profiles between service instances.
// Redis failures degrade to cache misses.
type RedisProfileCache struct {
	rdb     *redis.Client
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewRedisProfileCache(redisURL string, logger zerolog.Logger, m *metrics.Metrics) (*RedisProfileCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisProfileCache{rdb: rdb, logger: logger, metrics: m}, nil
}

func (c *RedisProfileCache) Get(ctx context.Context, username string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, profileKeyPrefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.ObserveCache("profile", false)
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("username", username).Msg("redis profile read failed")
		c.metrics.ObserveCache("profile", false)
		return nil, false
	}
	c.metrics.ObserveCache("profile", true)
	return raw, true
}

func (c *RedisProfileCache) Put(ctx context.Context, username string, raw []byte) {
	if err := c.rdb.Set(ctx, profileKeyPrefix+username, raw, 0).Err(); err != nil {
		c.logger.Warn().Err(err).Str("username", username).Msg("redis profile write failed")
	}
}

func (c *RedisProfileCache) Delete(ctx context.Context, username string) {
	if err := c.rdb.Del(ctx, profileKeyPrefix+username).Err(); err != nil {
		c.logger.Warn().Err(err).Str("username", username).Msg("redis profile delete failed")
	}
}

func (c *RedisProfileCache) Close() error {
	return c.rdb.Close()
}
