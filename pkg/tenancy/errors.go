package tenancy

import "errors"

var (
	// ErrNotInitialized is returned by operations that require an active
	// tenant when the context is central.
	ErrNotInitialized = errors.New("tenancy is not initialized")

	// ErrNilTenant is returned when Initialize is called without a tenant.
	ErrNilTenant = errors.New("cannot initialize tenancy for a nil tenant")

	// ErrNoTenancyInContext is returned when no tenancy instance is found
	// in the request context.
	ErrNoTenancyInContext = errors.New("no tenancy in context")
)
