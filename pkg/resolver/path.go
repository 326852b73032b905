package resolver

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// DefaultTenantParameter is the route parameter name used when none is configured.
const DefaultTenantParameter = "tenant"

// Path identifies tenants by the first URL path segment
// (e.g. "acme" from "/acme/dashboard").
//
// When the request was matched by a chi router, the segment is read from the
// route parameters and the matched route must declare the tenant parameter
// first; a route without it is a shape error, not a lookup miss. Outside a
// chi route the raw first path segment is used.
type Path struct {
	provider tenant.Provider

	// Parameter is the route parameter name, DefaultTenantParameter if empty.
	Parameter string

	// AttributeName selects the tenant attribute to match instead of the key.
	AttributeName string
}

// NewPath creates a path-based resolver.
func NewPath(provider tenant.Provider) *Path {
	return &Path{provider: provider}
}

func (p *Path) Strategy() string { return "path" }

func (p *Path) parameter() string {
	if p.Parameter == "" {
		return DefaultTenantParameter
	}
	return p.Parameter
}

// Payload extracts the tenant path segment from the request.
func (p *Path) Payload(r *http.Request) (string, error) {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if len(rctx.URLParams.Keys) == 0 || rctx.URLParams.Keys[0] != p.parameter() {
			return "", ErrMissingTenantParameter
		}
		return rctx.URLParam(p.parameter()), nil
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	if idx := strings.IndexByte(path, '/'); idx != -1 {
		path = path[:idx]
	}
	return path, nil
}

// Resolve matches the path segment against the tenant key, or against the
// configured attribute when AttributeName is set.
func (p *Path) Resolve(ctx context.Context, payload string) (*tenant.Tenant, error) {
	if payload == "" {
		return nil, tenant.ErrTenantNotFound
	}
	if p.AttributeName != "" {
		return p.provider.FindByAttribute(ctx, p.AttributeName, payload)
	}
	return p.provider.FindByKey(ctx, payload)
}
