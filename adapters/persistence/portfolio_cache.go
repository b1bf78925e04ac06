package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quangtran/folio-api/internal/domain/portfolio"
	"github.com/quangtran/folio-api/pkg/logger"
)

const portfolioCacheKey = "portfolio:document"

// PortfolioCache is a read-through cache for the public portfolio fetch.
// Misses and Redis failures are soft: callers fall back to the store.
type PortfolioCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewPortfolioCache(rdb *redis.Client, ttl time.Duration, log logger.Logger) *PortfolioCache {
	return &PortfolioCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *PortfolioCache) Get(ctx context.Context) (*portfolio.Document, bool) {
	raw, err := c.rdb.Get(ctx, portfolioCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis get failed, serving from store", zap.Error(err))
		}
		return nil, false
	}

	doc := &portfolio.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		c.logger.Warn("Cached portfolio is corrupt, dropping it", zap.Error(err))
		c.Invalidate(ctx)
		return nil, false
	}
	return doc, true
}

func (c *PortfolioCache) Set(ctx context.Context, doc *portfolio.Document) {
	raw, err := json.Marshal(doc)
	if err != nil {
		c.logger.Warn("Failed to marshal portfolio for cache", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, portfolioCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis set failed", zap.Error(err))
	}
}

// Invalidate is called after every mutation so the next public read sees the
// authoritative document.
func (c *PortfolioCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, portfolioCacheKey).Err(); err != nil {
		c.logger.Warn("Redis del failed", zap.Error(err))
	}
}
