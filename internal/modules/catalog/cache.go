package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/urbancoll/artisanhub-backend/internal/logx"
)

// Cache holds the full product listing for a bounded time. Stock decrements
// from order creation are tolerated as staleness within the TTL; catalog
// writes invalidate eagerly.
type Cache interface {
	GetList(ctx context.Context) ([]*Product, bool)
	SetList(ctx context.Context, products []*Product)
	Invalidate(ctx context.Context)
}

const (
	listCacheKey = "catalog:products"
	listCacheTTL = 30 * time.Second
)

type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a product list cache backed by Redis.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) GetList(ctx context.Context) ([]*Product, bool) {
	raw, err := c.client.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logx.Warn().Err(err).Msg("product cache read failed")
		}
		return nil, false
	}
	var products []*Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (c *redisCache) SetList(ctx context.Context, products []*Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listCacheKey, raw, listCacheTTL).Err(); err != nil {
		logx.Warn().Err(err).Msg("product cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, listCacheKey).Err(); err != nil {
		logx.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
