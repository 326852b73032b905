package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds connection settings for the Postgres-backed provider.
type PostgresConfig struct {
	ConnectionString string        `env:"TENANCY_PG_CONN_URL,required"`              // ConnectionString is the connection string to the central database.
	MaxOpenConns     int32         `env:"TENANCY_PG_MAX_OPEN_CONNS" envDefault:"10"` // MaxOpenConns is the maximum number of open connections.
	MaxIdleConns     int32         `env:"TENANCY_PG_MAX_IDLE_CONNS" envDefault:"5"`  // MaxIdleConns is the maximum number of idle connections.
	RetryAttempts    int           `env:"TENANCY_PG_RETRY_ATTEMPTS" envDefault:"3"`  // RetryAttempts is the number of connection attempts.
	RetryInterval    time.Duration `env:"TENANCY_PG_RETRY_INTERVAL" envDefault:"5s"` // RetryInterval is the interval between attempts.
}

// Connect establishes a pgx connection pool for the central database with
// retry logic, verifying each attempt with a ping.
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParsePostgresConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns

	for i := 0; i < cfg.RetryAttempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return pool, nil
	}

	return nil, ErrFailedToConnectPostgres
}

// PostgresProvider loads tenants from two tables:
//
//	tenants(key text primary key, attributes jsonb not null default '{}')
//	tenant_domains(domain text primary key, tenant_key text references tenants(key))
//
// Domains are expected to be stored lowercased.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider creates a provider over an existing connection pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

// FindByKey implements Provider.
func (p *PostgresProvider) FindByKey(ctx context.Context, key string) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT key, attributes FROM tenants WHERE key = $1`, key)
	return scanTenant(row)
}

// FindByDomain implements Provider.
func (p *PostgresProvider) FindByDomain(ctx context.Context, domain string) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT t.key, t.attributes
		 FROM tenants t
		 JOIN tenant_domains d ON d.tenant_key = t.key
		 WHERE d.domain = $1`, domain)
	return scanTenant(row)
}

// FindByAttribute implements Provider. The attribute is matched as text
// against the jsonb attribute bag.
func (p *PostgresProvider) FindByAttribute(ctx context.Context, name, value string) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT key, attributes FROM tenants WHERE attributes->>$1 = $2`, name, value)
	return scanTenant(row)
}

func scanTenant(row pgx.Row) (*Tenant, error) {
	var (
		key string
		raw []byte
	)
	if err := row.Scan(&key, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant: scan row: %w", err)
	}

	attrs, err := decodeAttrs(raw)
	if err != nil {
		return nil, fmt.Errorf("tenant: decode attributes for %q: %w", key, err)
	}
	return New(key, attrs...), nil
}

// decodeAttrs decodes a jsonb object preserving document order, which a plain
// map[string]any unmarshal would lose.
func decodeAttrs(raw []byte) ([]Attr, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("attributes is not a JSON object")
	}

	var attrs []Attr
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := nameTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		attrs = append(attrs, Attr{Name: name, Value: value})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return attrs, nil
}
