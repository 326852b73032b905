package resolver

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Domain identifies tenants by exact hostname match against their registered
// domain set. Domains are lowercased by the provider at write time, so the
// match here is exact against already-normalized values.
type Domain struct {
	provider tenant.Provider
}

// NewDomain creates a domain-based resolver.
func NewDomain(provider tenant.Provider) *Domain {
	return &Domain{provider: provider}
}

func (d *Domain) Strategy() string { return "domain" }

// Payload returns the request hostname without the port.
func (d *Domain) Payload(r *http.Request) (string, error) {
	return hostWithoutPort(r.Host), nil
}

// Resolve finds the tenant owning the given hostname.
func (d *Domain) Resolve(ctx context.Context, payload string) (*tenant.Tenant, error) {
	if payload == "" {
		return nil, tenant.ErrTenantNotFound
	}
	return d.provider.FindByDomain(ctx, payload)
}
