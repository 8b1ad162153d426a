// Package cache provides read-through caching for catalog lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is used when the configured TTL is zero.
const DefaultTTL = 5 * time.Minute

const listKey = "product:all"

func productKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

// ProductCache decorates a Catalog with a Redis cache-aside layer.
// Redis failures are logged and the lookup falls through to the wrapped catalog.
// Not-found results are never cached.
type ProductCache struct {
	next   domain.Catalog
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache wraps next with a Redis cache.
func NewProductCache(next domain.Catalog, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// FindProduct returns the cached snapshot or loads it from the wrapped catalog.
func (c *ProductCache) FindProduct(ctx context.Context, productID string) (*domain.Product, error) {
	key := productKey(productID)

	var cached domain.Product
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	product, err := c.next.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, product)
	return product, nil
}

// ListProducts returns the cached catalog listing or loads it.
func (c *ProductCache) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var cached []domain.Product
	if c.get(ctx, listKey, &cached) {
		return cached, nil
	}

	products, err := c.next.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, listKey, products)
	return products, nil
}

func (c *ProductCache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "product cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.WarnContext(ctx, "product cache entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (c *ProductCache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.WarnContext(ctx, "product cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "product cache write failed", "key", key, "error", err)
	}
}

var _ domain.Catalog = (*ProductCache)(nil)
