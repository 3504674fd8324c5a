// Package cache provides the Redis connection used by read-through caches.
// This is part of the platform layer and contains no business logic.
package cache

import (
	"context"
	"fmt"

	"lead_analyzer_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses REDIS_URL and verifies the server answers PING.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
