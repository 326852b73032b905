package resolver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Subdomain identifies tenants by the leftmost hostname label in front of a
// configured central domain (e.g. "acme" from "acme.saas.com" with central
// domain "saas.com"). The label is matched against the tenant's domain set
// the same way the domain strategy matches full hostnames.
type Subdomain struct {
	provider tenant.Provider

	// CentralDomains lists the application's own domains. A hostname that
	// does not end with one of them cannot carry a tenant subdomain.
	CentralDomains []string
}

// NewSubdomain creates a subdomain-based resolver.
func NewSubdomain(provider tenant.Provider, centralDomains ...string) *Subdomain {
	return &Subdomain{provider: provider, CentralDomains: centralDomains}
}

func (s *Subdomain) Strategy() string { return "subdomain" }

// Payload extracts the subdomain label from the request host. A hostname
// that is itself a central domain, an IP literal, or a third-party domain
// yields ErrNotASubdomain.
func (s *Subdomain) Payload(r *http.Request) (string, error) {
	host := hostWithoutPort(r.Host)

	if host == "" || net.ParseIP(host) != nil {
		return "", fmt.Errorf("%w: %q", ErrNotASubdomain, host)
	}
	if slices.Contains(s.CentralDomains, host) {
		return "", fmt.Errorf("%w: %q is a central domain", ErrNotASubdomain, host)
	}

	var onCentral bool
	for _, central := range s.CentralDomains {
		if strings.HasSuffix(host, "."+central) {
			onCentral = true
			break
		}
	}
	if !onCentral {
		return "", fmt.Errorf("%w: %q", ErrNotASubdomain, host)
	}

	return strings.SplitN(host, ".", 2)[0], nil
}

// Resolve finds the tenant owning the given subdomain label.
func (s *Subdomain) Resolve(ctx context.Context, payload string) (*tenant.Tenant, error) {
	if payload == "" {
		return nil, tenant.ErrTenantNotFound
	}
	return s.provider.FindByDomain(ctx, payload)
}
