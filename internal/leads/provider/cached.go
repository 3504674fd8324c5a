package provider

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"lead_analyzer_backend/internal/leads/ports"
	"lead_analyzer_backend/internal/scoring"
	"lead_analyzer_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "leadscore:metrics:"

// Cached is a read-through Redis cache in front of another provider.
// Redis failures never fail a lookup; they fall through to the wrapped
// provider.
type Cached struct {
	next ports.MetricsProvider
	rdb  redis.Cmdable
	ttl  time.Duration
	log  *logger.Logger
}

// NewCached wraps next with a cache whose entries live for ttl.
func NewCached(next ports.MetricsProvider, rdb redis.Cmdable, ttl time.Duration, log *logger.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Metrics(ctx context.Context, url string) (scoring.RawMetrics, error) {
	key := c.key(url)

	if raw, ok := c.lookup(ctx, key); ok {
		return raw, nil
	}

	raw, err := c.next.Metrics(ctx, url)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(raw); err != nil {
		c.log.Warn("metrics cache encode failed", "error", err)
	} else if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("metrics cache write failed", "error", err)
	}
	return raw, nil
}

func (c *Cached) lookup(ctx context.Context, key string) (scoring.RawMetrics, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("metrics cache read failed", "error", err)
		}
		return nil, false
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw scoring.RawMetrics
	if err := decoder.Decode(&raw); err != nil {
		c.log.Warn("metrics cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return raw, true
}

func (c *Cached) key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return cacheKeyPrefix + c.next.Name() + ":" + hex.EncodeToString(sum[:])
}
