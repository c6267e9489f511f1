package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type lruTokenCache struct {
	lru    *expirable.LRU[string, string]
	logger logger.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	// explicit removals are not evictions
	removing sync.Map
	purging  atomic.Bool
}

// NewTokenCache creates a size-bounded token cache whose entries expire ttl after they were written
func NewTokenCache(settings config.CacheSettings, logger logger.Logger) (tokens.TokenCache, error) {
	if settings.MaximumSize <= 0 {
		return nil, fmt.Errorf("cache maximum size must be positive, got %d", settings.MaximumSize)
	}
	if settings.TTL <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", settings.TTL)
	}

	c := &lruTokenCache{logger: logger}
	c.lru = expirable.NewLRU[string, string](settings.MaximumSize, c.onEvict, settings.TTL)

	logger.Info(fmt.Sprintf("Initialized %s cache (maximum size %d, ttl %s)", tokens.CacheName, settings.MaximumSize, settings.TTL.Round(time.Millisecond)))
	return c, nil
}

func (c *lruTokenCache) onEvict(key string, _ string) {
	if c.purging.Load() {
		return
	}
	if _, explicit := c.removing.Load(key); explicit {
		return
	}

	c.evictions.Add(1)
	c.logger.Debug(fmt.Sprintf("Key '%s' was evicted from tokenCache", key))
}

func (c *lruTokenCache) Get(token string) (string, bool) {
	accountNumber, ok := c.lru.Get(token)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return accountNumber, ok
}

func (c *lruTokenCache) Put(token, accountNumber string) {
	c.lru.Add(token, accountNumber)
}

func (c *lruTokenCache) Evict(token string) {
	c.removing.Store(token, struct{}{})
	defer c.removing.Delete(token)

	c.lru.Remove(token)
}

func (c *lruTokenCache) Clear() {
	c.purging.Store(true)
	defer c.purging.Store(false)

	c.lru.Purge()
}

func (c *lruTokenCache) Len() int {
	return c.lru.Len()
}

func (c *lruTokenCache) Stats() tokens.CacheStats {
	return tokens.CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}
