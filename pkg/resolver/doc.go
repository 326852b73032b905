// Package resolver implements tenant identification: mapping a request
// payload (hostname, subdomain label, path segment, header/query/cookie
// value) to the owning tenant.
//
// Four strategies are included, each consuming a tenant.Provider lookup
// collaborator:
//
//   - Domain: exact hostname match against a tenant's registered domains
//   - Subdomain: leftmost label in front of a configured central domain
//   - Path: first URL path segment, chi route-parameter aware
//   - RequestData: header, then query parameter, then cookie
//
// Payload extraction is separate from lookup so that shape validation
// (a hostname with no subdomain label, a route without the tenant parameter)
// fails with errors wrapping ErrInvalidPayload, while a payload that simply
// matches no tenant fails with tenant.ErrTenantNotFound. Request layers can
// map the two classes to different responses.
//
// # Caching
//
// Cached decorates any resolver with a resolution cache keyed by
// (strategy, payload):
//
//	store := resolver.NewMemoryStore()
//	res := resolver.NewCached(resolver.NewDomain(provider), store, time.Hour)
//
// Caching is transparent: it changes whether the provider is consulted,
// never what a payload resolves to — as long as the persistence layer calls
// Invalidate before any change to a tenant's identifying data is committed.
// MemoryStore serves single-process setups; RedisStore shares one cache
// across processes.
package resolver
