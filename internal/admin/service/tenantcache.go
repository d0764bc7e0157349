package service

import (
	"context"
	"sync"
	"time"

	"github.com/ragops/rag-admin/internal/admin/domain"
	"github.com/ragops/rag-admin/internal/admin/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTenantCacheTTL is how long a resolved tenant context stays fresh.
const DefaultTenantCacheTTL = 60 * time.Second

// TenantLoader fetches a tenant context from the source of truth on a cache
// miss.
type TenantLoader func(ctx context.Context, userID string) (domain.TenantContext, error)

type cacheEntry struct {
	value     domain.TenantContext
	expiresAt time.Time
}

// TenantCache is a TTL cache of resolved tenant contexts keyed by user id.
// Concurrent misses for the same key collapse into a single loader call via
// singleflight. Loader errors are never cached. A per-key generation counter
// bumped by Invalidate prevents an in-flight load from installing a value
// that was invalidated while it was loading.
type TenantCache struct {
	loader TenantLoader
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
	gens    map[string]uint64
}

// NewTenantCache builds a cache around loader. A non-positive ttl falls back
// to DefaultTenantCacheTTL.
func NewTenantCache(loader TenantLoader, ttl time.Duration) *TenantCache {
	if ttl <= 0 {
		ttl = DefaultTenantCacheTTL
	}
	return &TenantCache{
		loader:  loader,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
	}
}

// Get returns the tenant context for userID, loading it on a miss or expired
// entry. forceRefresh bypasses any cached value and overwrites it with the
// result of a fresh load.
func (c *TenantCache) Get(ctx context.Context, userID string, forceRefresh bool) (domain.TenantContext, error) {
	if !forceRefresh {
		if value, ok := c.lookup(userID); ok {
			metrics.CacheHitCounter.Inc()
			return value, nil
		}
		metrics.CacheMissCounter.Inc()

		v, err, _ := c.group.Do(userID, func() (any, error) {
			// Another caller in this flight's wave may have already
			// installed a fresh entry.
			if value, ok := c.lookup(userID); ok {
				return value, nil
			}
			return c.load(ctx, userID)
		})
		if err != nil {
			return domain.TenantContext{}, err
		}
		return v.(domain.TenantContext), nil
	}

	metrics.CacheMissCounter.Inc()
	return c.load(ctx, userID)
}

// Invalidate drops the cached entry for userID and bumps its generation so a
// concurrent load started before the invalidation cannot reinstall stale data.
func (c *TenantCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	c.gens[userID]++

	metrics.CacheInvalidationCounter.Inc()
	metrics.CachedTenantsGauge.Set(float64(len(c.entries)))
}

// Len reports how many entries are currently cached, expired or not.
func (c *TenantCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TenantCache) lookup(userID string) (domain.TenantContext, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok || !c.now().Before(e.expiresAt) {
		return domain.TenantContext{}, false
	}
	return e.value, true
}

func (c *TenantCache) load(ctx context.Context, userID string) (domain.TenantContext, error) {
	c.mu.Lock()
	gen := c.gens[userID]
	c.mu.Unlock()

	value, err := c.loader(ctx, userID)
	if err != nil {
		// Errors are never cached; the next Get retries the loader.
		return domain.TenantContext{}, err
	}

	c.install(userID, value, gen)
	return value, nil
}

func (c *TenantCache) install(userID string, value domain.TenantContext, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[userID] != gen {
		// Invalidated while the load was in flight; the loaded value may
		// predate the mutation that triggered the invalidation.
		return
	}

	c.entries[userID] = cacheEntry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
	metrics.CachedTenantsGauge.Set(float64(len(c.entries)))
}
