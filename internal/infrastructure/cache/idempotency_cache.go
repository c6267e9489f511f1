package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const idempotencyCacheKeyPrefix = "tokenization::idempotency::v1"

// CachedIdempotencyRepository reads idempotency records through a TTL cache.
// Misses are not cached, so a key becomes visible as soon as it is created.
type CachedIdempotencyRepository struct {
	base  idempotency.Repository
	cache repositorycache.CacheService
}

// NewIdempotencyCacheService creates the cache service backing CachedIdempotencyRepository
func NewIdempotencyCacheService(ttl time.Duration) (repositorycache.CacheService, error) {
	cfg := repositorycache.DefaultConfig()
	cfg.TTL = ttl

	service, err := repositorycache.NewCacheService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency cache service: %w", err)
	}
	return service, nil
}

// NewCachedIdempotencyRepository decorates base with cacheService
func NewCachedIdempotencyRepository(base idempotency.Repository, cacheService repositorycache.CacheService) (*CachedIdempotencyRepository, error) {
	if base == nil {
		return nil, fmt.Errorf("base idempotency repository is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("idempotency cache service is required")
	}
	return &CachedIdempotencyRepository{base: base, cache: cacheService}, nil
}

// IdempotencyCacheKey returns the cache key for an idempotency key
func IdempotencyCacheKey(key string) string {
	return strings.Join([]string{idempotencyCacheKeyPrefix, url.PathEscape(key)}, "::")
}

// Create stores the record and drops any cached lookup for its key
func (r *CachedIdempotencyRepository) Create(ctx context.Context, record *idempotency.Record) error {
	if err := r.base.Create(ctx, record); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, IdempotencyCacheKey(record.Key)); err != nil {
		return fmt.Errorf("failed to invalidate idempotency cache: %w", err)
	}
	return nil
}

// GetByKey returns a copy of the cached record, loading it from base on a miss
func (r *CachedIdempotencyRepository) GetByKey(ctx context.Context, key string) (*idempotency.Record, error) {
	record, err := repositorycache.GetOrFetch(ctx, r.cache, IdempotencyCacheKey(key), func(ctx context.Context) (idempotency.Record, error) {
		fetched, fetchErr := r.base.GetByKey(ctx, key)
		if fetchErr != nil {
			return idempotency.Record{}, fetchErr
		}
		return *fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteCreatedBefore purges old records. Cached copies expire on their own ttl.
func (r *CachedIdempotencyRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.base.DeleteCreatedBefore(ctx, cutoff)
}

var _ idempotency.Repository = (*CachedIdempotencyRepository)(nil)
