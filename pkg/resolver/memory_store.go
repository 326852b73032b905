package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/tenancykit/pkg/tenant"
)

// DefaultStoreSize is the default maximum number of entries in MemoryStore.
const DefaultStoreSize = 1000

// MemoryStore is a bounded in-memory Store with TTL expiration, LRU eviction
// and a secondary index by tenant key for invalidation. Safe for concurrent
// use.
type MemoryStore struct {
	mu       sync.Mutex
	items    map[string]storeItem
	byTenant map[string]map[string]struct{} // tenant key -> cache keys
	lru      []string                       // eviction order, oldest first
	maxSize  int
	stop     chan struct{}
	done     chan struct{}
	closed   bool
}

type storeItem struct {
	tenant    *tenant.Tenant
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store with automatic expiry cleanup.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithSize(DefaultStoreSize)
}

// NewMemoryStoreWithSize creates an in-memory store with the given size limit.
func NewMemoryStoreWithSize(maxSize int) *MemoryStore {
	if maxSize <= 0 {
		maxSize = DefaultStoreSize
	}

	s := &MemoryStore{
		items:    make(map[string]storeItem),
		byTenant: make(map[string]map[string]struct{}),
		lru:      make([]string, 0, maxSize),
		maxSize:  maxSize,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// Get retrieves a cached tenant snapshot.
func (s *MemoryStore) Get(ctx context.Context, key string) (*tenant.Tenant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if !exists {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		s.remove(key)
		return nil, false
	}

	s.touch(key)
	return item.tenant, true
}

// Set stores a tenant snapshot, evicting the least recently used entry when full.
func (s *MemoryStore) Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[key]; !exists && len(s.items) >= s.maxSize {
		if len(s.lru) > 0 {
			s.remove(s.lru[0])
		}
	}

	// Drop a previous entry for the same key first so the tenant index
	// never points at overwritten snapshots.
	if _, exists := s.items[key]; exists {
		s.remove(key)
	}

	s.items[key] = storeItem{tenant: t, expiresAt: time.Now().Add(ttl)}
	keys, ok := s.byTenant[t.Key()]
	if !ok {
		keys = make(map[string]struct{})
		s.byTenant[t.Key()] = keys
	}
	keys[key] = struct{}{}
	s.touch(key)
	return nil
}

// InvalidateTenant removes every entry whose snapshot has the given tenant key.
func (s *MemoryStore) InvalidateTenant(ctx context.Context, tenantKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.byTenant[tenantKey] {
		s.remove(key)
	}
	return nil
}

// Close stops the cleanup goroutine and waits for it to finish.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.stop)
	<-s.done
	return nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, item := range s.items {
		if now.After(item.expiresAt) {
			s.remove(key)
		}
	}
}

// remove deletes the entry and its index references. Caller holds the lock.
func (s *MemoryStore) remove(key string) {
	item, exists := s.items[key]
	if !exists {
		return
	}
	delete(s.items, key)

	tenantKey := item.tenant.Key()
	if keys, ok := s.byTenant[tenantKey]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.byTenant, tenantKey)
		}
	}

	for i, k := range s.lru {
		if k == key {
			s.lru = append(s.lru[:i], s.lru[i+1:]...)
			return
		}
	}
}

// touch moves the key to the most recently used position. Caller holds the lock.
func (s *MemoryStore) touch(key string) {
	for i, k := range s.lru {
		if k == key {
			s.lru = append(s.lru[:i], s.lru[i+1:]...)
			break
		}
	}
	s.lru = append(s.lru, key)
}
