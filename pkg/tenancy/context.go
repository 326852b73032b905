package tenancy

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithContext adds a tenancy instance to the context.
func WithContext(ctx context.Context, tn *Tenancy) context.Context {
	return context.WithValue(ctx, contextKey{}, tn)
}

// FromContext retrieves the tenancy instance from the context.
// Returns nil, false if none is present.
func FromContext(ctx context.Context) (*Tenancy, bool) {
	tn, ok := ctx.Value(contextKey{}).(*Tenancy)
	return tn, ok
}

// MustFromContext retrieves the tenancy instance from the context.
// Panics if none is present.
func MustFromContext(ctx context.Context) *Tenancy {
	tn, ok := FromContext(ctx)
	if !ok || tn == nil {
		panic("tenancy: no tenancy in context")
	}
	return tn
}
