package resolver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// DefaultCacheTTL is the entry lifetime used when none is configured.
const DefaultCacheTTL = time.Hour

// Store persists resolution results. Implementations must be safe for
// concurrent use: the cache is the only tenancy structure shared across
// execution units.
type Store interface {
	// Get retrieves a cached tenant snapshot, reporting whether it was present.
	Get(ctx context.Context, key string) (*tenant.Tenant, bool)

	// Set stores a tenant snapshot under the key and indexes it by the
	// tenant's key for later invalidation.
	Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) error

	// InvalidateTenant removes every entry whose snapshot has the given
	// tenant key.
	InvalidateTenant(ctx context.Context, tenantKey string) error

	// Close releases any resources held by the store.
	Close() error
}

// Cached decorates a Resolver with a resolution cache. Caching is
// transparent: the decorated resolver returns exactly what the wrapped one
// would, the store only controls whether the lookup collaborator is
// consulted.
type Cached struct {
	inner Resolver
	store Store
	ttl   time.Duration
}

// NewCached wraps a resolver with the given store. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCached(inner Resolver, store Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{inner: inner, store: store, ttl: ttl}
}

// Strategy returns the wrapped resolver's strategy name.
func (c *Cached) Strategy() string { return c.inner.Strategy() }

// Payload delegates to the wrapped resolver.
func (c *Cached) Payload(r *http.Request) (string, error) {
	return c.inner.Payload(r)
}

// Resolve returns the cached tenant for (strategy, payload) when present,
// otherwise delegates to the wrapped resolver and caches a successful result.
func (c *Cached) Resolve(ctx context.Context, payload string) (*tenant.Tenant, error) {
	key := c.cacheKey(payload)

	if t, ok := c.store.Get(ctx, key); ok {
		return t, nil
	}

	t, err := c.inner.Resolve(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, t, c.ttl); err != nil {
		return nil, fmt.Errorf("resolver: cache resolved tenant: %w", err)
	}
	return t, nil
}

// Invalidate removes every cache entry that could have produced the tenant.
// Persistence layers must call it before a change to the tenant's identifying
// data becomes visible. Its signature matches tenant.InvalidateFunc.
func (c *Cached) Invalidate(ctx context.Context, tenantKey string) error {
	return c.store.InvalidateTenant(ctx, tenantKey)
}

func (c *Cached) cacheKey(payload string) string {
	return "tenant_resolver:" + c.inner.Strategy() + ":" + payload
}
