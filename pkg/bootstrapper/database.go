package bootstrapper

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// Tenant attributes read by the database bootstrapper.
const (
	AttrDBName     = "db_name"
	AttrDBUsername = "db_username"
	AttrDBPassword = "db_password"
)

// DatabaseConfig holds settings for the database bootstrapper.
type DatabaseConfig struct {
	TemplateDSN    string `env:"TENANCY_DB_TEMPLATE_DSN,required"`      // TemplateDSN is the DSN whose database name is replaced per tenant.
	DatabasePrefix string `env:"TENANCY_DB_PREFIX" envDefault:"tenant_"` // DatabasePrefix prefixes derived tenant database names.
}

// Database switches the active Postgres connection pool between the central
// database and a per-tenant database.
//
// The tenant database name is taken from the tenant's db_name attribute, or
// derived as prefix+key. The db_username and db_password attributes, when
// set, override the template credentials. Code paths that need the active
// pool read it through Pool, which always reflects the current context.
type Database struct {
	central *pgxpool.Pool
	cfg     DatabaseConfig

	tenantPool *pgxpool.Pool
}

// NewDatabase creates a database bootstrapper over the central pool.
func NewDatabase(central *pgxpool.Pool, cfg DatabaseConfig) *Database {
	if cfg.DatabasePrefix == "" {
		cfg.DatabasePrefix = "tenant_"
	}
	return &Database{central: central, cfg: cfg}
}

func (b *Database) Name() string { return "database" }

// Bootstrap opens and pings a connection pool for the tenant's database and
// makes it the active pool.
func (b *Database) Bootstrap(ctx context.Context, t *tenant.Tenant) error {
	poolConfig, err := pgxpool.ParseConfig(b.cfg.TemplateDSN)
	if err != nil {
		return fmt.Errorf("bootstrapper: parse template dsn: %w", err)
	}

	dbName := t.AttributeString(AttrDBName)
	if dbName == "" {
		dbName = b.cfg.DatabasePrefix + t.Key()
	}
	poolConfig.ConnConfig.Database = dbName

	if user := t.AttributeString(AttrDBUsername); user != "" {
		poolConfig.ConnConfig.User = user
	}
	if password := t.AttributeString(AttrDBPassword); password != "" {
		poolConfig.ConnConfig.Password = password
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("bootstrapper: open tenant database %q: %w", dbName, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("bootstrapper: ping tenant database %q: %w", dbName, err)
	}

	b.tenantPool = pool
	return nil
}

// Revert closes the tenant pool and restores the central one.
func (b *Database) Revert(ctx context.Context) error {
	if b.tenantPool != nil {
		b.tenantPool.Close()
		b.tenantPool = nil
	}
	return nil
}

// Pool returns the pool for the active context: the tenant's while a tenant
// is bootstrapped, the central one otherwise.
func (b *Database) Pool() *pgxpool.Pool {
	if b.tenantPool != nil {
		return b.tenantPool
	}
	return b.central
}
