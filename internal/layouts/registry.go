package layouts

import (
	"sync"
)

// Registry stores layout templates keyed by canonical name. Registering an
// existing name replaces the stored template in place.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
	order     []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]*Template),
	}
}

// NewRegistryWithBuiltins constructs a registry seeded with BuiltinTemplates.
func NewRegistryWithBuiltins() *Registry {
	registry := NewRegistry()
	for _, tpl := range BuiltinTemplates() {
		registry.put(tpl)
	}
	return registry
}

func (r *Registry) put(tpl *Template) {
	key := canonicalKey(tpl.Name)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[key]; !exists {
		r.order = append(r.order, key)
	}
	r.templates[key] = cloneTemplate(tpl)
}

// Get returns a copy of the named template.
func (r *Registry) Get(name string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tpl, ok := r.templates[canonicalKey(name)]
	if !ok {
		return nil, false
	}
	return cloneTemplate(tpl), true
}

// List returns copies of all templates in registration order.
func (r *Registry) List() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Template, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, cloneTemplate(r.templates[key]))
	}
	return out
}

// Len reports how many templates are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}
