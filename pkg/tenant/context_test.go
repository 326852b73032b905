package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		tn := tenant.New("acme")
		ctx := tenant.WithTenant(context.Background(), tn)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tn, got)

		key, ok := tenant.KeyFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "acme", key)
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)

		_, ok = tenant.KeyFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("must panics without tenant", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			tenant.MustFromContext(context.Background())
		})
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()

		extract := tenant.LoggerExtractor()

		attr, ok := extract(tenant.WithTenant(context.Background(), tenant.New("acme")))
		require.True(t, ok)
		assert.Equal(t, "tenant_key", attr.Key)
		assert.Equal(t, "acme", attr.Value.String())

		_, ok = extract(context.Background())
		assert.False(t, ok)
	})
}
