package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/gothumb/internal/infrastructure/metrics"
)

// RedisImageCache implements ImageCache using Redis as the backing store.
// Payloads are stored raw; keys come from BuildKey.
type RedisImageCache struct {
	client *redis.Client
}

// NewRedisImageCache creates a new Redis-backed image cache.
func NewRedisImageCache(client *redis.Client) *RedisImageCache {
	return &RedisImageCache{
		client: client,
	}
}

// Get retrieves an image from Redis.
// Returns nil, nil on cache miss.
func (c *RedisImageCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(
				metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis,
			).Inc()
			return nil, nil // Cache miss
		}
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis,
		).Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(
		metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis,
	).Inc()
	return data, nil
}

// Set stores an image in Redis with the specified TTL.
// Empty payloads are skipped.
func (c *RedisImageCache) Set(ctx context.Context, key string, image []byte, ttl time.Duration) error {
	if len(image) == 0 {
		return nil
	}

	if err := c.client.Set(ctx, key, image, ttl).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(
			metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis,
		).Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(
		metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis,
	).Inc()
	return nil
}
