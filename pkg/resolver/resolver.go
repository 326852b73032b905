package resolver

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Resolver identifies the tenant a request belongs to.
//
// Payload extracts and shape-validates the raw identification payload from
// the request (hostname, path segment, header value, ...). Shape violations
// are reported as errors wrapping ErrInvalidPayload, distinct from a lookup
// miss. An empty payload with a nil error means the request carries no tenant
// identification and should be treated as central.
//
// Resolve matches a previously extracted payload against the tenant store.
// It returns tenant.ErrTenantNotFound when no tenant matches.
type Resolver interface {
	// Strategy returns a stable name for the identification strategy,
	// used for cache key namespacing.
	Strategy() string

	// Payload extracts the identification payload from the request.
	Payload(r *http.Request) (string, error)

	// Resolve matches the payload against the tenant store.
	Resolve(ctx context.Context, payload string) (*tenant.Tenant, error)
}

// hostWithoutPort strips the port (and IPv6 brackets) from a request host.
func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(host, "[]")
}
