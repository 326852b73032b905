package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantExists is returned when creating a tenant with a key
	// that is already taken.
	ErrTenantExists = errors.New("tenant already exists")

	// ErrDomainTaken is returned when attaching a domain that already
	// belongs to another tenant.
	ErrDomainTaken = errors.New("domain already belongs to another tenant")

	// ErrNoTenantInContext is returned when no tenant is found in context.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrFailedToParsePostgresConfig is returned when the connection string is invalid.
	ErrFailedToParsePostgresConfig = errors.New("failed to parse postgres connection string")

	// ErrFailedToConnectPostgres is returned when all connection attempts fail.
	ErrFailedToConnectPostgres = errors.New("failed to connect to postgres")
)
