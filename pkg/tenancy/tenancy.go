package tenancy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Tenancy is the single source of truth for which tenant, if any, is
// currently active in one execution unit (one request, one job run, one CLI
// invocation). It drives the initialize/end lifecycle: bootstrappers apply in
// registry order on Initialize, revert in the same registry order on End, and
// partially-applied activations are rolled back on failure.
//
// A Tenancy instance belongs to exactly one execution unit and is not safe
// for concurrent use. Concurrent tenants are handled by separate execution
// units each holding their own instance.
type Tenancy struct {
	bootstrappers []Bootstrapper
	listeners     map[EventKind][]Listener
	log           *slog.Logger

	current     *tenant.Tenant
	initialized bool

	// initialized bootstrappers of the current activation, in registry
	// order. Only these are reverted, so a bootstrapper that failed (or was
	// never reached) is never asked to undo work it did not do.
	initializedBootstrappers []Bootstrapper
}

// New creates a tenancy context in central state.
func New(opts ...Option) *Tenancy {
	tn := &Tenancy{
		listeners: make(map[EventKind][]Listener),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(tn)
	}
	return tn
}

// Current returns the active tenant, or nil in central state.
func (tn *Tenancy) Current() *tenant.Tenant {
	return tn.current
}

// IsInitialized reports whether a tenant is active.
func (tn *Tenancy) IsInitialized() bool {
	return tn.initialized
}

// CurrentOrErr returns the active tenant, or ErrNotInitialized in central state.
func (tn *Tenancy) CurrentOrErr() (*tenant.Tenant, error) {
	if !tn.initialized {
		return nil, ErrNotInitialized
	}
	return tn.current, nil
}

// InitializedBootstrappers returns the names of the bootstrappers that
// applied successfully during the current activation, in registry order.
func (tn *Tenancy) InitializedBootstrappers() []string {
	names := make([]string, 0, len(tn.initializedBootstrappers))
	for _, b := range tn.initializedBootstrappers {
		names = append(names, b.Name())
	}
	return names
}

// Initialize activates the given tenant: publishes InitializingTenancy, makes
// the tenant current, then applies every registered bootstrapper in order.
//
// Re-initializing the currently active tenant is a no-op. Initializing a
// different tenant while one is active first runs the full End path for the
// previous tenant (reidentification).
//
// If a bootstrapper fails, the ones that already applied during this
// activation are reverted in registry order, the context returns to central
// state, and the bootstrap error is returned (joined with any revert error
// encountered during the rollback). The failed bootstrapper itself is never
// reverted.
func (tn *Tenancy) Initialize(ctx context.Context, t *tenant.Tenant) error {
	if t == nil {
		return ErrNilTenant
	}

	if tn.initialized && tn.current.Key() == t.Key() {
		return nil
	}

	if tn.initialized {
		if err := tn.End(ctx); err != nil {
			return err
		}
	}

	tn.publish(ctx, Event{Kind: InitializingTenancy, Tenant: t})

	// The tenant becomes current before bootstrapping so that bootstrappers
	// can read it through the context manager.
	tn.current = t
	tn.initialized = true

	tn.log.DebugContext(ctx, "initializing tenancy", slog.String("tenant_key", t.Key()))

	for _, b := range tn.bootstrappers {
		if err := b.Bootstrap(ctx, t); err != nil {
			bootstrapErr := fmt.Errorf("tenancy: bootstrap %s for %s: %w", b.Name(), t.Key(), err)
			revertErr := tn.revertInitialized(ctx)

			tn.initializedBootstrappers = nil
			tn.current = nil
			tn.initialized = false

			return errors.Join(bootstrapErr, revertErr)
		}

		tn.initializedBootstrappers = append(tn.initializedBootstrappers, b)
		tn.publish(ctx, Event{Kind: BootstrapperInitialized, Tenant: t, Bootstrapper: b.Name()})
	}

	tn.publish(ctx, Event{Kind: TenancyInitialized, Tenant: t})

	return nil
}

// End reverts to central state. Calling End on an already-central context is
// a no-op.
//
// Bootstrappers that applied during the activation revert in registry order
// (deliberately not LIFO). The first revert failure aborts the loop and is
// returned to the caller, who must treat it as fatal for the execution unit
// since the process resources are left in a mixed state. The context itself
// is cleared to central regardless, so it never stays stuck half-active.
func (tn *Tenancy) End(ctx context.Context) error {
	if !tn.initialized {
		return nil
	}

	prev := tn.current

	tn.publish(ctx, Event{Kind: EndingTenancy, Tenant: prev})

	tn.log.DebugContext(ctx, "ending tenancy", slog.String("tenant_key", prev.Key()))

	revertErr := tn.revertInitialized(ctx)

	tn.initializedBootstrappers = nil
	tn.current = nil
	tn.initialized = false

	tn.publish(ctx, Event{Kind: TenancyEnded, Tenant: prev})

	return revertErr
}

// revertInitialized reverts the bootstrappers that applied during the
// current activation, in registry order. The first failure aborts the loop:
// completed reverts stay done, the remaining bootstrappers are skipped and
// the error is surfaced.
func (tn *Tenancy) revertInitialized(ctx context.Context) error {
	for _, b := range tn.initializedBootstrappers {
		if err := b.Revert(ctx); err != nil {
			return fmt.Errorf("tenancy: revert %s: %w", b.Name(), err)
		}
	}
	return nil
}

// Run executes fn in the given tenant's context and restores the exact prior
// context afterwards, whether fn succeeds, fails, or panics. Nested Run calls
// against different tenants are supported; each returns to the context that
// was active before the call. The callback receives a context carrying the
// tenant.
func (tn *Tenancy) Run(ctx context.Context, t *tenant.Tenant, fn func(ctx context.Context) error) (err error) {
	prev := tn.current

	if err := tn.Initialize(ctx, t); err != nil {
		return err
	}

	defer func() {
		var restoreErr error
		if prev != nil {
			restoreErr = tn.Initialize(ctx, prev)
		} else {
			restoreErr = tn.End(ctx)
		}
		err = errors.Join(err, restoreErr)
	}()

	return fn(tenant.WithTenant(ctx, t))
}

// Central executes fn in the central context and re-initializes the
// previously active tenant afterwards, whether fn succeeds or fails. If the
// context is already central, fn just runs.
func (tn *Tenancy) Central(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if !tn.initialized {
		return fn(ctx)
	}

	prev := tn.current

	if err := tn.End(ctx); err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, tn.Initialize(ctx, prev))
	}()

	return fn(ctx)
}

// RunForEach executes fn once per tenant, sequentially, and restores the
// original context afterwards. The first error aborts the iteration; the
// original context is restored regardless.
func (tn *Tenancy) RunForEach(ctx context.Context, tenants []*tenant.Tenant, fn func(ctx context.Context, t *tenant.Tenant) error) (err error) {
	prev := tn.current

	defer func() {
		var restoreErr error
		if prev != nil {
			restoreErr = tn.Initialize(ctx, prev)
		} else {
			restoreErr = tn.End(ctx)
		}
		err = errors.Join(err, restoreErr)
	}()

	for _, t := range tenants {
		if err := tn.Initialize(ctx, t); err != nil {
			return err
		}
		if err := fn(tenant.WithTenant(ctx, t), t); err != nil {
			return err
		}
	}

	return nil
}
