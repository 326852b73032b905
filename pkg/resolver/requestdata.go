package resolver

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Default request-data sources.
const (
	DefaultHeader         = "X-Tenant"
	DefaultQueryParameter = "tenant"
	DefaultCookie         = "tenant"
)

// RequestData identifies tenants by a value carried in the request itself:
// a header, a query parameter, or a cookie, in that order of precedence.
// The first non-empty source wins. Setting a source name to "-" disables it.
type RequestData struct {
	provider tenant.Provider

	// Header is the header name, DefaultHeader if empty.
	Header string

	// QueryParameter is the query parameter name, DefaultQueryParameter if empty.
	QueryParameter string

	// Cookie is the cookie name, DefaultCookie if empty.
	Cookie string

	// AttributeName selects the tenant attribute to match instead of the key.
	AttributeName string
}

// NewRequestData creates a request-data resolver with default source names.
func NewRequestData(provider tenant.Provider) *RequestData {
	return &RequestData{provider: provider}
}

func (d *RequestData) Strategy() string { return "request_data" }

// Payload extracts the tenant payload from the request. An empty payload
// with nil error means the request carries no tenant identification.
func (d *RequestData) Payload(r *http.Request) (string, error) {
	if name := sourceName(d.Header, DefaultHeader); name != "" {
		if v := r.Header.Get(name); v != "" {
			return v, nil
		}
	}
	if name := sourceName(d.QueryParameter, DefaultQueryParameter); name != "" {
		if v := r.URL.Query().Get(name); v != "" {
			return v, nil
		}
	}
	if name := sourceName(d.Cookie, DefaultCookie); name != "" {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", nil
}

// Resolve matches the payload against the tenant key, or against the
// configured attribute when AttributeName is set.
func (d *RequestData) Resolve(ctx context.Context, payload string) (*tenant.Tenant, error) {
	if payload == "" {
		return nil, tenant.ErrTenantNotFound
	}
	if d.AttributeName != "" {
		return d.provider.FindByAttribute(ctx, d.AttributeName, payload)
	}
	return d.provider.FindByKey(ctx, payload)
}

func sourceName(configured, fallback string) string {
	switch configured {
	case "":
		return fallback
	case "-":
		return ""
	default:
		return configured
	}
}
