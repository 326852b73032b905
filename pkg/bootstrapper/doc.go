// Package bootstrapper provides reference tenancy.Bootstrapper
// implementations for common process-scoped resources:
//
//   - Database: swaps the active pgx connection pool to a per-tenant database
//   - CachePrefix: scopes cache keys to the active tenant's namespace
//   - Filesystem: swaps the storage root to a per-tenant directory
//
// They are registered, in caller-defined order, on a tenancy instance:
//
//	db := bootstrapper.NewDatabase(centralPool, dbCfg)
//	cache := bootstrapper.NewCachePrefix(bootstrapper.NewRedisKV(client), "")
//	tn := tenancy.New(tenancy.WithBootstrappers(db, cache))
//
// Order matters: an adapter depending on per-tenant connections must come
// after the database bootstrapper that establishes them.
//
// Adapters hold per-execution-unit state (the active pool, prefix, root) and
// follow the same ownership rule as Tenancy itself: one instance per
// execution unit, no concurrent use.
package bootstrapper
