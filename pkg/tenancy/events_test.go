package tenancy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancykit/pkg/tenancy"
	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// recordEvents subscribes a recording listener for every lifecycle kind.
func recordEvents(tn *tenancy.Tenancy, into *[]tenancy.Event) {
	kinds := []tenancy.EventKind{
		tenancy.InitializingTenancy,
		tenancy.BootstrapperInitialized,
		tenancy.TenancyInitialized,
		tenancy.EndingTenancy,
		tenancy.TenancyEnded,
	}
	for _, kind := range kinds {
		tn.Subscribe(kind, func(ctx context.Context, e tenancy.Event) {
			*into = append(*into, e)
		})
	}
}

func TestLifecycleEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("full activation publishes in order", func(t *testing.T) {
		t.Parallel()

		var log []string
		f1 := &fakeBootstrapper{name: "f1", log: &log}
		f2 := &fakeBootstrapper{name: "f2", log: &log}
		tn := tenancy.New(tenancy.WithBootstrappers(f1, f2))

		var events []tenancy.Event
		recordEvents(tn, &events)

		acme := tenant.New("acme")
		require.NoError(t, tn.Initialize(ctx, acme))
		require.NoError(t, tn.End(ctx))

		kinds := make([]tenancy.EventKind, 0, len(events))
		for _, e := range events {
			kinds = append(kinds, e.Kind)
			assert.Equal(t, acme, e.Tenant, "every event carries the tenant")
		}
		assert.Equal(t, []tenancy.EventKind{
			tenancy.InitializingTenancy,
			tenancy.BootstrapperInitialized,
			tenancy.BootstrapperInitialized,
			tenancy.TenancyInitialized,
			tenancy.EndingTenancy,
			tenancy.TenancyEnded,
		}, kinds)

		assert.Equal(t, "f1", events[1].Bootstrapper)
		assert.Equal(t, "f2", events[2].Bootstrapper)
	})

	t.Run("ending listener still sees the tenant active", func(t *testing.T) {
		t.Parallel()

		tn := tenancy.New()

		var activeAtEnding, activeAtEnded bool
		tn.Subscribe(tenancy.EndingTenancy, func(ctx context.Context, e tenancy.Event) {
			activeAtEnding = tn.IsInitialized()
		})
		tn.Subscribe(tenancy.TenancyEnded, func(ctx context.Context, e tenancy.Event) {
			activeAtEnded = tn.IsInitialized()
		})

		require.NoError(t, tn.Initialize(ctx, tenant.New("acme")))
		require.NoError(t, tn.End(ctx))

		assert.True(t, activeAtEnding, "EndingTenancy fires before teardown")
		assert.False(t, activeAtEnded, "TenancyEnded fires after the context is cleared")
	})

	t.Run("ended event carries the previous tenant", func(t *testing.T) {
		t.Parallel()

		tn := tenancy.New()

		var ended *tenant.Tenant
		tn.Subscribe(tenancy.TenancyEnded, func(ctx context.Context, e tenancy.Event) {
			ended = e.Tenant
		})

		require.NoError(t, tn.Initialize(ctx, tenant.New("acme")))
		require.NoError(t, tn.End(ctx))

		require.NotNil(t, ended)
		assert.Equal(t, "acme", ended.Key())
	})

	t.Run("no completion events on bootstrap failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")

		var log []string
		f1 := &fakeBootstrapper{name: "f1", log: &log, bootstrapErr: boom}
		tn := tenancy.New(tenancy.WithBootstrappers(f1))

		var events []tenancy.Event
		recordEvents(tn, &events)

		require.Error(t, tn.Initialize(ctx, tenant.New("acme")))

		require.Len(t, events, 1)
		assert.Equal(t, tenancy.InitializingTenancy, events[0].Kind)
	})

	t.Run("listeners run synchronously in subscription order", func(t *testing.T) {
		t.Parallel()

		tn := tenancy.New()

		var order []string
		tn.Subscribe(tenancy.TenancyInitialized, func(ctx context.Context, e tenancy.Event) {
			order = append(order, "first")
		})
		tn.Subscribe(tenancy.TenancyInitialized, func(ctx context.Context, e tenancy.Event) {
			order = append(order, "second")
		})

		require.NoError(t, tn.Initialize(ctx, tenant.New("acme")))
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("nil listener is ignored", func(t *testing.T) {
		t.Parallel()

		tn := tenancy.New()
		tn.Subscribe(tenancy.TenancyInitialized, nil)

		assert.NoError(t, tn.Initialize(ctx, tenant.New("acme")))
	})
}
