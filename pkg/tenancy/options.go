package tenancy

import "log/slog"

// Option configures a Tenancy instance at construction.
type Option func(*Tenancy)

// WithBootstrappers sets the ordered bootstrapper registry. Order is
// significant: bootstrappers apply in this order on Initialize and revert in
// this same order on End.
func WithBootstrappers(bs ...Bootstrapper) Option {
	return func(tn *Tenancy) {
		tn.bootstrappers = append(tn.bootstrappers, bs...)
	}
}

// WithLogger sets a logger for debug-level lifecycle tracing.
// Errors are never logged-and-swallowed; they always propagate to the caller.
func WithLogger(log *slog.Logger) Option {
	return func(tn *Tenancy) {
		if log != nil {
			tn.log = log
		}
	}
}

// WithListener subscribes a lifecycle listener at construction.
func WithListener(kind EventKind, l Listener) Option {
	return func(tn *Tenancy) {
		tn.Subscribe(kind, l)
	}
}
