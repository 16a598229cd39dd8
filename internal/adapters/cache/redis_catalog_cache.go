package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/redis/go-redis/v9"
)

const (
	routesKeyPrefix       = "easysewa:catalog:routes:"
	testimonialsKeyPrefix = "easysewa:catalog:testimonials:"
)

// CachedCatalog serves landing-page lists from Redis and falls through to the repository on a miss.
// Writes drop every cached page of the list they touch.
type CachedCatalog struct {
	next   ports.CatalogRepository
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCachedCatalog(next ports.CatalogRepository, client redis.UniversalClient, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedCatalog{next: next, client: client, ttl: ttl}
}

func (c *CachedCatalog) ListRoutes(ctx context.Context, limit int) ([]domain.Route, error) {
	return readThrough(ctx, c, routesKeyPrefix+strconv.Itoa(limit), func() ([]domain.Route, error) {
		return c.next.ListRoutes(ctx, limit)
	})
}

func (c *CachedCatalog) CreateRoute(ctx context.Context, route domain.Route) (domain.Route, error) {
	created, err := c.next.CreateRoute(ctx, route)
	if err != nil {
		return domain.Route{}, err
	}
	c.invalidate(ctx, routesKeyPrefix)
	return created, nil
}

func (c *CachedCatalog) ListTestimonials(ctx context.Context, limit int) ([]domain.Testimonial, error) {
	return readThrough(ctx, c, testimonialsKeyPrefix+strconv.Itoa(limit), func() ([]domain.Testimonial, error) {
		return c.next.ListTestimonials(ctx, limit)
	})
}

func (c *CachedCatalog) CreateTestimonial(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	created, err := c.next.CreateTestimonial(ctx, t)
	if err != nil {
		return domain.Testimonial{}, err
	}
	c.invalidate(ctx, testimonialsKeyPrefix)
	return created, nil
}

func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, load func() ([]T, error)) ([]T, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var out []T
		if jsonErr := json.Unmarshal(raw, &out); jsonErr == nil {
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		cacheLogger().WarnContext(ctx, "catalog cache read failed",
			"operation", "catalog_cache_get",
			"outcome", "degraded",
			"key", key,
			"error", err,
		)
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(items); jsonErr == nil {
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return items, nil
}

func (c *CachedCatalog) invalidate(ctx context.Context, prefix string) {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	keys := make([]string, 0, 4)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		cacheLogger().WarnContext(ctx, "catalog cache invalidation failed",
			"operation", "catalog_cache_invalidate",
			"outcome", "degraded",
			"error", err,
		)
	}
}

func cacheLogger() *slog.Logger {
	return slog.Default().With(
		"service", "easysewa-booking-service",
		"module", "cache",
		"layer", "adapter",
	)
}
