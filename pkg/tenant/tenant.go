package tenant

import "fmt"

// Attr is a single named attribute of a tenant.
type Attr struct {
	Name  string
	Value any
}

// Tenant represents a tenant identity: an opaque unique key plus an ordered
// bag of configuration attributes (e.g. custom database credentials) that
// bootstrappers read when switching resources.
//
// A Tenant is read-only after construction. The key never changes; uniqueness
// is enforced by the persistence layer, not here.
type Tenant struct {
	key    string
	names  []string
	values map[string]any
}

// New creates a tenant with the given key and attributes.
// Attribute order is preserved; a repeated name overwrites the earlier value
// but keeps its original position.
func New(key string, attrs ...Attr) *Tenant {
	t := &Tenant{
		key:    key,
		names:  make([]string, 0, len(attrs)),
		values: make(map[string]any, len(attrs)),
	}
	for _, a := range attrs {
		if _, exists := t.values[a.Name]; !exists {
			t.names = append(t.names, a.Name)
		}
		t.values[a.Name] = a.Value
	}
	return t
}

// Key returns the tenant's unique key.
func (t *Tenant) Key() string {
	return t.key
}

// Attribute returns the named attribute value and whether it is set.
func (t *Tenant) Attribute(name string) (any, bool) {
	v, ok := t.values[name]
	return v, ok
}

// AttributeString returns the named attribute as a string,
// or an empty string if the attribute is absent or not a string.
func (t *Tenant) AttributeString(name string) string {
	if v, ok := t.values[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// AttributeNames returns the attribute names in insertion order.
// The returned slice is a copy and safe to modify.
func (t *Tenant) AttributeNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Attrs returns the attributes in insertion order.
func (t *Tenant) Attrs() []Attr {
	attrs := make([]Attr, 0, len(t.names))
	for _, name := range t.names {
		attrs = append(attrs, Attr{Name: name, Value: t.values[name]})
	}
	return attrs
}

func (t *Tenant) String() string {
	return fmt.Sprintf("tenant(%s)", t.key)
}
