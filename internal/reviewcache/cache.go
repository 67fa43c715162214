// Package reviewcache holds the per-tenant review snapshot cache. It is the
// only shared mutable state in the service; everything downstream computes
// on request-local copies.
package reviewcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Fetcher loads a tenant's full review set and product catalog from the
// upstream providers.
type Fetcher interface {
	FetchReviews(ctx context.Context, tenant models.Tenant) ([]models.RawReview, error)
	FetchProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error)
}

// entry is one tenant's snapshot. Entries are replaced wholesale on refresh
// and never mutated in place, so a caller holding a slice from a previous
// entry always sees a consistent snapshot.
type entry struct {
	reviews   []models.Review
	handles   []string
	fetchedAt time.Time
}

// TenantCache caches normalized review batches per tenant key with TTL
// expiry. Refresh is serialized per key: concurrent callers for the same
// expired tenant trigger exactly one upstream fetch, while distinct tenants
// never block each other.
type TenantCache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	locks   map[string]*sync.Mutex
}

// Option configures a TenantCache.
type Option func(*TenantCache)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *TenantCache) { c.now = now }
}

// New creates a TenantCache over the given fetcher and TTL.
func New(fetcher Fetcher, ttl time.Duration, opts ...Option) *TenantCache {
	c := &TenantCache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetReviews returns the tenant's normalized review batch, refreshing the
// snapshot first if it is missing or older than the TTL. A failed refresh
// falls back to the last valid snapshot; the error is surfaced only when no
// snapshot has ever been populated.
func (c *TenantCache) GetReviews(ctx context.Context, tenant models.Tenant) ([]models.Review, error) {
	e, err := c.getEntry(ctx, tenant)
	if err != nil {
		return nil, err
	}
	// Copy so callers can reorder freely without touching the snapshot.
	reviews := make([]models.Review, len(e.reviews))
	copy(reviews, e.reviews)
	return reviews, nil
}

// GetProductHandles returns the tenant's catalog handles under the same
// freshness and fallback rules as GetReviews.
func (c *TenantCache) GetProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error) {
	e, err := c.getEntry(ctx, tenant)
	if err != nil {
		return nil, err
	}
	handles := make([]string, len(e.handles))
	copy(handles, e.handles)
	return handles, nil
}

// Invalidate marks the tenant's snapshot expired so the next call refreshes.
// The stale data stays available as the refresh-failure fallback. This is
// the hook for external catalog-change signals.
func (c *TenantCache) Invalidate(tenantKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[tenantKey]; ok {
		c.entries[tenantKey] = &entry{
			reviews:   e.reviews,
			handles:   e.handles,
			fetchedAt: time.Time{},
		}
	}
}

func (c *TenantCache) getEntry(ctx context.Context, tenant models.Tenant) (*entry, error) {
	key := tenant.CacheKey()

	// Serialize refresh per tenant key. Callers for the same tenant block
	// here during a refresh and then observe the fresh entry.
	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if ok && c.now().Sub(e.fetchedAt) <= c.ttl {
		return e, nil
	}

	fresh, err := c.refresh(ctx, tenant)
	if err != nil {
		if ok {
			slog.Warn("refresh failed, serving stale snapshot",
				"tenant", tenant.ShopDomain,
				"fetched_at", e.fetchedAt,
				"error", err,
			)
			return e, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = fresh
	c.mu.Unlock()
	return fresh, nil
}

// refresh fetches and normalizes the tenant's full review set and catalog.
func (c *TenantCache) refresh(ctx context.Context, tenant models.Tenant) (*entry, error) {
	raw, err := c.fetcher.FetchReviews(ctx, tenant)
	if err != nil {
		return nil, err
	}

	handles, err := c.fetcher.FetchProductHandles(ctx, tenant)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, normalizeRaw(tenant.ID.String(), r))
	}

	return &entry{
		reviews:   reviews,
		handles:   handles,
		fetchedAt: c.now(),
	}, nil
}

// keyLock returns the per-tenant refresh lock, creating it lazily. Locks are
// never removed; tenant counts are bounded in practice.
func (c *TenantCache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}
