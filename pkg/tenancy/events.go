package tenancy

import (
	"context"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// EventKind identifies a tenancy lifecycle notification.
type EventKind string

const (
	// InitializingTenancy fires before bootstrappers run for a tenant.
	InitializingTenancy EventKind = "initializing_tenancy"

	// BootstrapperInitialized fires after each bootstrapper applies successfully.
	BootstrapperInitialized EventKind = "bootstrapper_initialized"

	// TenancyInitialized fires once all bootstrappers have applied.
	TenancyInitialized EventKind = "tenancy_initialized"

	// EndingTenancy fires before bootstrappers revert, while the tenant is
	// still current.
	EndingTenancy EventKind = "ending_tenancy"

	// TenancyEnded fires after the context has returned to central state.
	// The event still carries the previous tenant.
	TenancyEnded EventKind = "tenancy_ended"
)

// Event is a lifecycle notification. Tenant is the tenant the lifecycle
// operation concerns; Bootstrapper is set only for BootstrapperInitialized.
type Event struct {
	Kind         EventKind
	Tenant       *tenant.Tenant
	Bootstrapper string
}

// Listener handles a lifecycle event. Listeners run synchronously on the
// goroutine driving the lifecycle, in subscription order; a listener that
// blocks delays the lifecycle operation.
type Listener func(ctx context.Context, e Event)

// Subscribe registers a listener for the given event kind. External
// collaborators (queue glue, logging, resource syncing) use this to react to
// context switches without the manager knowing about them.
//
// Subscribe is meant to be called during setup, before the tenancy instance
// starts serving lifecycle calls.
func (tn *Tenancy) Subscribe(kind EventKind, l Listener) {
	if l == nil {
		return
	}
	tn.listeners[kind] = append(tn.listeners[kind], l)
}

func (tn *Tenancy) publish(ctx context.Context, e Event) {
	for _, l := range tn.listeners[e.Kind] {
		l(ctx, e)
	}
}
