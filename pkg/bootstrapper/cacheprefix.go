package bootstrapper

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// ErrKeyNotFound is returned by KV.Get for a missing key.
var ErrKeyNotFound = errors.New("key not found")

// KV is the minimal key-value surface the cache-prefix bootstrapper scopes.
// Keys passed to implementations are absolute (already prefixed).
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DefaultCentralPrefix is the key prefix used in the central context.
const DefaultCentralPrefix = "cache:"

// CachePrefix scopes cache keys to the active tenant by prefixing them with
// "tenant_<key>:" while a tenant is bootstrapped, and with the central
// prefix otherwise. Values written under one tenant are invisible to every
// other tenant and to the central context.
type CachePrefix struct {
	kv            KV
	centralPrefix string
	prefix        string
}

// NewCachePrefix creates a cache-prefix bootstrapper over the given store.
// An empty centralPrefix falls back to DefaultCentralPrefix.
func NewCachePrefix(kv KV, centralPrefix string) *CachePrefix {
	if centralPrefix == "" {
		centralPrefix = DefaultCentralPrefix
	}
	return &CachePrefix{kv: kv, centralPrefix: centralPrefix, prefix: centralPrefix}
}

func (c *CachePrefix) Name() string { return "cache_prefix" }

// Bootstrap switches the key prefix to the tenant's namespace.
func (c *CachePrefix) Bootstrap(ctx context.Context, t *tenant.Tenant) error {
	c.prefix = "tenant_" + t.Key() + ":"
	return nil
}

// Revert restores the central prefix.
func (c *CachePrefix) Revert(ctx context.Context) error {
	c.prefix = c.centralPrefix
	return nil
}

// Get reads a value from the active namespace.
func (c *CachePrefix) Get(ctx context.Context, key string) (string, error) {
	return c.kv.Get(ctx, c.prefix+key)
}

// Set writes a value into the active namespace.
func (c *CachePrefix) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.kv.Set(ctx, c.prefix+key, value, ttl)
}

// Delete removes a value from the active namespace.
func (c *CachePrefix) Delete(ctx context.Context, key string) error {
	return c.kv.Delete(ctx, c.prefix+key)
}

// RedisKV adapts a Redis client to the KV interface.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates a KV over an existing Redis client.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return v, nil
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
