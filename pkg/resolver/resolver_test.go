package resolver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancykit/pkg/resolver"
	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

func seedProvider(t *testing.T) *tenant.MemoryProvider {
	t.Helper()

	ctx := context.Background()
	p := tenant.NewMemoryProvider()

	_, err := p.Create(ctx, "acme", tenant.Attr{Name: "slug", Value: "acme-inc"})
	require.NoError(t, err)
	require.NoError(t, p.AddDomain(ctx, "acme", "acme.example.com"))
	require.NoError(t, p.AddDomain(ctx, "acme", "acme"))

	return p
}

func TestDomainResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("payload is the host without port", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewDomain(seedProvider(t))

		req := httptest.NewRequest("GET", "http://acme.example.com:8080/", nil)
		req.Host = "acme.example.com:8080"

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "acme.example.com", payload)
	})

	t.Run("resolves an owned domain", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewDomain(seedProvider(t))

		tn, err := d.Resolve(ctx, "acme.example.com")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())
	})

	t.Run("unknown domain is not found", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewDomain(seedProvider(t))

		_, err := d.Resolve(ctx, "other.example.com")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("empty payload is not found", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewDomain(seedProvider(t))

		_, err := d.Resolve(ctx, "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestSubdomainResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	newReq := func(host string) *http.Request {
		req := httptest.NewRequest("GET", "http://"+host+"/", nil)
		req.Host = host
		return req
	}

	t.Run("extracts the leftmost label", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		payload, err := s.Payload(newReq("acme.saas.com"))
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("nested subdomain keeps only the first label", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		payload, err := s.Payload(newReq("foo.bar.saas.com"))
		require.NoError(t, err)
		assert.Equal(t, "foo", payload)
	})

	t.Run("strips the port", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		payload, err := s.Payload(newReq("acme.saas.com:8443"))
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("bare central domain is a shape error", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		_, err := s.Payload(newReq("saas.com"))
		assert.ErrorIs(t, err, resolver.ErrNotASubdomain)
		assert.ErrorIs(t, err, resolver.ErrInvalidPayload)
	})

	t.Run("IP literals are shape errors", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		_, err := s.Payload(newReq("127.0.0.1:8080"))
		assert.ErrorIs(t, err, resolver.ErrNotASubdomain)

		_, err = s.Payload(newReq("[::1]:8080"))
		assert.ErrorIs(t, err, resolver.ErrNotASubdomain)
	})

	t.Run("third-party domain is a shape error", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		_, err := s.Payload(newReq("acme.other.com"))
		assert.ErrorIs(t, err, resolver.ErrNotASubdomain)
	})

	t.Run("resolves the label like a domain", func(t *testing.T) {
		t.Parallel()

		s := resolver.NewSubdomain(seedProvider(t), "saas.com")

		tn, err := s.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())

		_, err = s.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestPathResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	withRouteParams := func(req *http.Request, pairs ...string) *http.Request {
		rctx := chi.NewRouteContext()
		for i := 0; i < len(pairs); i += 2 {
			rctx.URLParams.Add(pairs[i], pairs[i+1])
		}
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	t.Run("uses the first path segment outside a router", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		payload, err := p.Payload(httptest.NewRequest("GET", "/acme/dashboard", nil))
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("root path yields empty payload", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		payload, err := p.Payload(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Empty(t, payload)
	})

	t.Run("reads the chi route parameter", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		req := withRouteParams(httptest.NewRequest("GET", "/acme/dashboard", nil), "tenant", "acme")
		payload, err := p.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("route without the tenant parameter is a shape error", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		req := withRouteParams(httptest.NewRequest("GET", "/acme/users/42", nil), "userID", "42")
		_, err := p.Payload(req)
		assert.ErrorIs(t, err, resolver.ErrMissingTenantParameter)
		assert.ErrorIs(t, err, resolver.ErrInvalidPayload)
	})

	t.Run("tenant parameter must come first", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		req := withRouteParams(httptest.NewRequest("GET", "/42/acme", nil), "userID", "42", "tenant", "acme")
		_, err := p.Payload(req)
		assert.ErrorIs(t, err, resolver.ErrMissingTenantParameter)
	})

	t.Run("custom parameter name", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))
		p.Parameter = "org"

		req := withRouteParams(httptest.NewRequest("GET", "/acme/dashboard", nil), "org", "acme")
		payload, err := p.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("resolves by key", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))

		tn, err := p.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())
	})

	t.Run("resolves by configured attribute", func(t *testing.T) {
		t.Parallel()

		p := resolver.NewPath(seedProvider(t))
		p.AttributeName = "slug"

		tn, err := p.Resolve(ctx, "acme-inc")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())

		_, err = p.Resolve(ctx, "acme")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound, "key does not match when attribute is configured")
	})
}

func TestRequestDataResolver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("header wins over query and cookie", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		req := httptest.NewRequest("GET", "/?tenant=from-query", nil)
		req.Header.Set("X-Tenant", "from-header")
		req.AddCookie(&http.Cookie{Name: "tenant", Value: "from-cookie"})

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "from-header", payload)
	})

	t.Run("query wins over cookie", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		req := httptest.NewRequest("GET", "/?tenant=from-query", nil)
		req.AddCookie(&http.Cookie{Name: "tenant", Value: "from-cookie"})

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "from-query", payload)
	})

	t.Run("falls back to cookie", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "tenant", Value: "from-cookie"})

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", payload)
	})

	t.Run("no sources yields empty payload", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		payload, err := d.Payload(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Empty(t, payload)
	})

	t.Run("disabled source is skipped", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))
		d.Header = "-"

		req := httptest.NewRequest("GET", "/?tenant=from-query", nil)
		req.Header.Set("X-Tenant", "from-header")

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "from-query", payload)
	})

	t.Run("custom source names", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))
		d.Header = "X-Org-ID"

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Org-ID", "acme")

		payload, err := d.Payload(req)
		require.NoError(t, err)
		assert.Equal(t, "acme", payload)
	})

	t.Run("resolves by key or attribute", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		tn, err := d.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())

		d.AttributeName = "slug"
		tn, err = d.Resolve(ctx, "acme-inc")
		require.NoError(t, err)
		assert.Equal(t, "acme", tn.Key())
	})

	t.Run("empty payload is not found", func(t *testing.T) {
		t.Parallel()

		d := resolver.NewRequestData(seedProvider(t))

		_, err := d.Resolve(ctx, "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}
