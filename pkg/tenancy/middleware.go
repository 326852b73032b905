package tenancy

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/tenancykit/pkg/resolver"
	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// ErrorHandler handles errors that occur during tenant resolution or the
// tenancy lifecycle.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// middlewareConfig holds middleware configuration.
type middlewareConfig struct {
	errorHandler ErrorHandler
	skipPaths    []string
	log          *slog.Logger
}

// MiddlewareOption configures the middleware.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(handler ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// WithSkipPaths sets path prefixes that bypass tenant resolution.
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPaths = append(c.skipPaths, paths...)
	}
}

// WithMiddlewareLogger sets a logger for the middleware.
func WithMiddlewareLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware creates HTTP middleware that identifies the request's tenant,
// initializes tenancy for it, serves the request with the tenant and the
// tenancy instance in the request context, and ends tenancy when the handler
// returns.
//
// The factory is called once per request: each execution unit gets its own
// Tenancy instance, never shared across concurrent requests. Requests whose
// payload is empty (no tenant identification present) pass through in the
// central context.
func Middleware(res resolver.Resolver, factory func() *Tenancy, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		errorHandler: DefaultErrorHandler,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			payload, err := res.Payload(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			// No identification payload: serve in the central context.
			if payload == "" {
				next.ServeHTTP(w, r)
				return
			}

			t, err := res.Resolve(r.Context(), payload)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			tn := factory()
			if err := tn.Initialize(r.Context(), t); err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			ctx := tenant.WithTenant(r.Context(), t)
			ctx = WithContext(ctx, tn)
			next.ServeHTTP(w, r.WithContext(ctx))

			if err := tn.End(r.Context()); err != nil {
				// The response may already be written; the request is still
				// unrecoverable since resources are left misconfigured.
				cfg.log.ErrorContext(r.Context(), "ending tenancy failed",
					slog.String("tenant_key", t.Key()), slog.Any("error", err))
				cfg.errorHandler(w, r, err)
			}
		})
	}
}

// RequireTenant creates middleware that rejects requests without a tenant in
// context. Useful for routes that must never run centrally.
func RequireTenant(errorHandler ErrorHandler) func(http.Handler) http.Handler {
	if errorHandler == nil {
		errorHandler = DefaultErrorHandler
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t, ok := tenant.FromContext(r.Context())
			if !ok || t == nil {
				errorHandler(w, r, tenant.ErrNoTenantInContext)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultErrorHandler maps the error taxonomy to HTTP statuses: a lookup
// miss is 404, a malformed payload is 400, anything else (bootstrap or
// revert failures) is 500.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, resolver.ErrInvalidPayload):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	case errors.Is(err, tenant.ErrNoTenantInContext):
		http.Error(w, "Tenant required", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
