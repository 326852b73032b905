// Package tenancy owns the multi-tenant context switch: which tenant's
// resources are active at any point in execution, and the guarantee that the
// prior central state comes back afterwards.
//
// # Lifecycle
//
// A Tenancy instance holds the state for one execution unit. Initialize
// activates a tenant by running an ordered registry of Bootstrapper adapters;
// End reverts them and returns to central state:
//
//	tn := tenancy.New(tenancy.WithBootstrappers(db, cache, fs))
//
//	if err := tn.Initialize(ctx, t); err != nil { ... }
//	// tenant resources active
//	if err := tn.End(ctx); err != nil { ... }
//
// Bootstrappers apply in registry order. Reverts also run in registry order
// — deliberately not LIFO: only what was actually set up is cleaned up, in
// the same order it was set up. When a bootstrapper fails mid-activation the
// ones that already applied are reverted, the context returns to central and
// the error propagates; the failed bootstrapper is never reverted.
//
// Run and Central execute a callback in a tenant's context or the central
// context respectively, restoring the exact prior context afterwards, and
// nest safely.
//
// # Events
//
// The manager publishes synchronous lifecycle events — InitializingTenancy,
// BootstrapperInitialized, TenancyInitialized, EndingTenancy, TenancyEnded —
// to listeners registered with Subscribe. Queue glue, logging and resource
// syncing hook in here without the manager knowing about them.
//
// # HTTP integration
//
// Middleware ties a resolver.Resolver to the lifecycle: resolve the request's
// tenant, initialize, serve with tenant and tenancy in the request context,
// end. Each request gets its own Tenancy instance from the factory; instances
// are never shared across concurrent requests and are not safe for
// concurrent use.
//
// # Failure semantics
//
// Nothing in this package retries or swallows errors. A bootstrap failure is
// fatal to the Initialize call; a revert failure is fatal to the End call
// (the context is still cleared so the process never stays half-active, but
// the caller must treat the execution unit as lost). The only documented
// no-op is End on an already-central context.
package tenancy
