package tenant

import "context"

// Provider loads tenant identities from a data source. It is the lookup
// collaborator consumed by the identification resolvers; implementations
// are expected to store domains lowercased so that resolution is an exact
// match against already-normalized values.
type Provider interface {
	// FindByKey retrieves a tenant by its unique key.
	// Returns ErrTenantNotFound if no tenant matches.
	FindByKey(ctx context.Context, key string) (*Tenant, error)

	// FindByDomain retrieves the tenant owning the given domain.
	// Returns ErrTenantNotFound if no tenant owns it.
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)

	// FindByAttribute retrieves a tenant by an attribute value.
	// Returns ErrTenantNotFound if no tenant matches.
	FindByAttribute(ctx context.Context, name, value string) (*Tenant, error)
}

// InvalidateFunc is called by providers before a change to a tenant's
// identifying data (key attributes or domains) becomes visible, so that
// resolution caches can drop stale entries for that tenant.
type InvalidateFunc func(ctx context.Context, tenantKey string) error
