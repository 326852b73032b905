package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	ConnectionURL  string        `env:"TENANCY_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the Redis URL, e.g. "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"TENANCY_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"TENANCY_REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the interval between attempts.
	ConnectTimeout time.Duration `env:"TENANCY_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connection phase.
}

var (
	// ErrFailedToParseRedisConnString is returned when the Redis URL is invalid.
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned when all connection attempts fail.
	ErrRedisNotReady = errors.New("redis is not ready")
)

// ConnectRedis establishes a Redis connection for the resolution cache with
// retry logic, verifying each attempt with a ping.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for i := 0; i < cfg.RetryAttempts; i++ {
		client := redis.NewClient(opt)

		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}

		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrRedisNotReady
}

// RedisStore is a Store backed by Redis, for deployments where multiple
// processes share one resolution cache. Each entry holds a JSON tenant
// snapshot; a per-tenant set indexes entry keys for invalidation.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

type cachedTenant struct {
	Key   string       `json:"key"`
	Attrs []cachedAttr `json:"attrs"`
}

type cachedAttr struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Get retrieves a cached tenant snapshot.
func (s *RedisStore) Get(ctx context.Context, key string) (*tenant.Tenant, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var snapshot cachedTenant
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, false
	}

	attrs := make([]tenant.Attr, 0, len(snapshot.Attrs))
	for _, a := range snapshot.Attrs {
		attrs = append(attrs, tenant.Attr{Name: a.Name, Value: a.Value})
	}
	return tenant.New(snapshot.Key, attrs...), true
}

// Set stores a tenant snapshot and records the entry key in the tenant's
// invalidation index.
func (s *RedisStore) Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) error {
	snapshot := cachedTenant{Key: t.Key()}
	for _, a := range t.Attrs() {
		snapshot.Attrs = append(snapshot.Attrs, cachedAttr{Name: a.Name, Value: a.Value})
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("resolver: marshal tenant snapshot: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, raw, ttl)
	pipe.SAdd(ctx, s.indexKey(t.Key()), key)
	pipe.Expire(ctx, s.indexKey(t.Key()), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("resolver: store tenant snapshot: %w", err)
	}
	return nil
}

// InvalidateTenant removes every entry recorded in the tenant's index.
func (s *RedisStore) InvalidateTenant(ctx context.Context, tenantKey string) error {
	index := s.indexKey(tenantKey)

	keys, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("resolver: read tenant cache index: %w", err)
	}

	keys = append(keys, index)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("resolver: drop tenant cache entries: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}

func (s *RedisStore) indexKey(tenantKey string) string {
	return "tenant_resolver:index:" + tenantKey
}
