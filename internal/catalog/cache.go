package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"parana-shopper/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	DefaultCacheTTL    = 5 * time.Minute
	DefaultCachePrefix = "parana:catalog:"
)

// CachedRepository serves the category and product listings from Redis and
// falls back to the wrapped repository on a miss or any Redis error. Offers
// and prices are never cached.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits   int64
	misses int64
}

type CacheOption func(*CachedRepository)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedRepository) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) CacheOption {
	return func(c *CachedRepository) {
		c.prefix = prefix
	}
}

func NewCachedRepository(next Repository, client *redis.Client, opts ...CacheOption) *CachedRepository {
	c := &CachedRepository{
		next:   next,
		client: client,
		ttl:    DefaultCacheTTL,
		prefix: DefaultCachePrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedRepository) ListCategories(ctx context.Context) ([]Category, error) {
	return cached(ctx, c, "categories", c.next.ListCategories)
}

func (c *CachedRepository) ListProducts(ctx context.Context, categoryID int64) ([]Product, error) {
	return cached(ctx, c, fmt.Sprintf("products:%d", categoryID), func(ctx context.Context) ([]Product, error) {
		return c.next.ListProducts(ctx, categoryID)
	})
}

// ListOffers always reads storage: the seller picker must show the same price
// GetOffer will freeze into the basket line.
func (c *CachedRepository) ListOffers(ctx context.Context, productID int64) ([]Offer, error) {
	return c.next.ListOffers(ctx, productID)
}

func (c *CachedRepository) GetOffer(ctx context.Context, productID, sellerID int64) (*Offer, error) {
	return c.next.GetOffer(ctx, productID, sellerID)
}

// Stats returns hit and miss counts since construction.
func (c *CachedRepository) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func cached[T any](ctx context.Context, c *CachedRepository, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cache"),
		zap.String("key", c.prefix+key),
	)

	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == nil {
		var out []T
		if err := json.Unmarshal(val, &out); err == nil {
			atomic.AddInt64(&c.hits, 1)
			return out, nil
		}
		log.Warn("corrupt cache entry, reloading")
	} else if err != redis.Nil {
		log.Warn("cache read failed, falling back to storage", zap.Error(err))
	}
	atomic.AddInt64(&c.misses, 1)

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		log.Warn("cache write failed", zap.Error(err))
	}
	return out, nil
}
