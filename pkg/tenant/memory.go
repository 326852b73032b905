package tenant

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryProvider is a thread-safe in-process Provider with write operations.
// It is intended for tests and small single-process deployments; production
// setups typically use PostgresProvider.
//
// Write operations fire the registered invalidation hook before the change
// becomes visible, so resolution caches never disagree with fresh storage.
// The hook runs without the provider lock held and may read the provider.
type MemoryProvider struct {
	mu         sync.RWMutex
	tenants    map[string]*Tenant // key -> tenant
	domains    map[string]string  // domain -> tenant key
	invalidate InvalidateFunc
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		tenants: make(map[string]*Tenant),
		domains: make(map[string]string),
	}
}

// OnChange registers the hook called before any change to a tenant's
// identifying data is committed. Typically wired to resolver.Cached.Invalidate.
func (p *MemoryProvider) OnChange(fn InvalidateFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalidate = fn
}

// Create stores a new tenant. An empty key is replaced with a random UUID.
// Returns the stored tenant or ErrTenantExists.
func (p *MemoryProvider) Create(ctx context.Context, key string, attrs ...Attr) (*Tenant, error) {
	if key == "" {
		key = uuid.NewString()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.tenants[key]; exists {
		return nil, ErrTenantExists
	}

	t := New(key, attrs...)
	p.tenants[key] = t
	return t, nil
}

// Update replaces the tenant's attributes. The resolution cache is
// invalidated first since resolvers may index on any attribute.
func (p *MemoryProvider) Update(ctx context.Context, key string, attrs ...Attr) (*Tenant, error) {
	if !p.exists(key) {
		return nil, ErrTenantNotFound
	}
	if err := p.fireInvalidate(ctx, key); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.tenants[key]; !exists {
		return nil, ErrTenantNotFound
	}
	t := New(key, attrs...)
	p.tenants[key] = t
	return t, nil
}

// AddDomain attaches a domain to the tenant. Domains are lowercased at
// write time; resolution is an exact match against the stored value.
func (p *MemoryProvider) AddDomain(ctx context.Context, key, domain string) error {
	domain = strings.ToLower(domain)

	p.mu.RLock()
	_, exists := p.tenants[key]
	owner, taken := p.domains[domain]
	p.mu.RUnlock()

	if !exists {
		return ErrTenantNotFound
	}
	if taken && owner != key {
		return ErrDomainTaken
	}
	if err := p.fireInvalidate(ctx, key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if owner, taken := p.domains[domain]; taken && owner != key {
		return ErrDomainTaken
	}
	p.domains[domain] = key
	return nil
}

// RemoveDomain detaches a domain from the tenant.
func (p *MemoryProvider) RemoveDomain(ctx context.Context, key, domain string) error {
	domain = strings.ToLower(domain)

	p.mu.RLock()
	owner, exists := p.domains[domain]
	p.mu.RUnlock()

	if !exists || owner != key {
		return ErrTenantNotFound
	}
	if err := p.fireInvalidate(ctx, key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if owner, exists := p.domains[domain]; exists && owner == key {
		delete(p.domains, domain)
	}
	return nil
}

// Delete removes the tenant and all of its domains.
func (p *MemoryProvider) Delete(ctx context.Context, key string) error {
	if !p.exists(key) {
		return ErrTenantNotFound
	}
	if err := p.fireInvalidate(ctx, key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.tenants, key)
	for domain, owner := range p.domains {
		if owner == key {
			delete(p.domains, domain)
		}
	}
	return nil
}

// FindByKey implements Provider.
func (p *MemoryProvider) FindByKey(ctx context.Context, key string) (*Tenant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	t, ok := p.tenants[key]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

// FindByDomain implements Provider.
func (p *MemoryProvider) FindByDomain(ctx context.Context, domain string) (*Tenant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	key, ok := p.domains[domain]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return p.tenants[key], nil
}

// FindByAttribute implements Provider. The scan is linear; the in-memory
// provider is not meant for large tenant sets.
func (p *MemoryProvider) FindByAttribute(ctx context.Context, name, value string) (*Tenant, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, t := range p.tenants {
		if t.AttributeString(name) == value {
			return t, nil
		}
	}
	return nil, ErrTenantNotFound
}

func (p *MemoryProvider) exists(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.tenants[key]
	return ok
}

func (p *MemoryProvider) fireInvalidate(ctx context.Context, key string) error {
	p.mu.RLock()
	fn := p.invalidate
	p.mu.RUnlock()

	if fn == nil {
		return nil
	}
	return fn(ctx, key)
}
