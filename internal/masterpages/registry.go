package masterpages

import (
	"slices"
	"strings"
	"sync"
)

// Registry stores master page schemas keyed by canonical name.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	order   []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// NewRegistryWithBuiltins constructs a registry seeded with BuiltinSchemas.
func NewRegistryWithBuiltins() *Registry {
	registry := NewRegistry()
	for _, schema := range BuiltinSchemas() {
		registry.put(schema)
	}
	return registry
}

func (r *Registry) put(schema *Schema) {
	key := canonicalKey(schema.Name)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[key]; !exists {
		r.order = append(r.order, key)
	}
	r.schemas[key] = cloneSchema(schema)
}

// Get returns a copy of the named schema.
func (r *Registry) Get(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[canonicalKey(name)]
	if !ok {
		return nil, false
	}
	return cloneSchema(schema), true
}

// List returns copies of all schemas in registration order.
func (r *Registry) List() []*Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Schema, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneSchema(r.schemas[key]))
	}
	return out
}

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func cloneSchema(schema *Schema) *Schema {
	if schema == nil {
		return nil
	}
	cloned := *schema
	cloned.Slots = slices.Clone(schema.Slots)
	return &cloned
}
