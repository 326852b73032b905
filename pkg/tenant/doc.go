// Package tenant defines the tenant identity type and the lookup collaborator
// contract used by the identification layer.
//
// A Tenant is an opaque unique key plus an ordered attribute bag. The core
// never mutates tenants; they are constructed by a Provider (or directly via
// New) and treated as read-only snapshots from then on.
//
// # Providers
//
// Provider is the lookup contract consumed by resolvers: find a tenant by
// key, by owned domain, or by an indexed attribute. Two implementations are
// included: MemoryProvider (tests, single-process setups) and
// PostgresProvider (pgx-backed). Both normalize domains to lowercase at write
// time so resolution is an exact match.
//
// Providers with write operations fire an invalidation hook before any change
// to a tenant's identifying data is committed, keeping resolution caches from
// serving stale entries:
//
//	provider := tenant.NewMemoryProvider()
//	cached := resolver.NewCached(resolver.NewDomain(provider), store, ttl)
//	provider.OnChange(cached.Invalidate)
//
// # Context propagation
//
// WithTenant/FromContext carry the active tenant through the request call
// chain. LoggerExtractor plugs the tenant key into slog-based loggers.
package tenant
