package tenancy

import (
	"context"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Bootstrapper switches one process-scoped resource (database connection,
// cache namespace, filesystem root, ...) between the central and a tenant's
// configuration.
//
// The context manager guarantees that a bootstrapper whose Bootstrap call
// failed is never reverted for that activation, and that one whose Bootstrap
// succeeded gets exactly one Revert call — even when a later bootstrapper in
// the registry fails.
//
// Bootstrap and Revert are called synchronously from Initialize/End; an
// implementation doing blocking I/O blocks the whole lifecycle call and is
// responsible for its own timeout policy. Implementations may read the
// active tenant but must never mutate tenancy state.
type Bootstrapper interface {
	// Name returns a stable identifier, used in events and error messages.
	Name() string

	// Bootstrap applies the tenant's configuration to the resource.
	// Called at most once per activation.
	Bootstrap(ctx context.Context, t *tenant.Tenant) error

	// Revert restores the central configuration. Must be safe to call even
	// if Bootstrap partially mutated shared state before succeeding.
	Revert(ctx context.Context) error
}
