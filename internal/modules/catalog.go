package modules

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// NotFoundError is returned when a catalog has no definition for an instance.
type NotFoundError struct {
	InstanceID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module instance %d not found", e.InstanceID)
}

// MemoryCatalog is an in-memory interfaces.ModuleCatalog.
type MemoryCatalog struct {
	mu          sync.RWMutex
	definitions map[int]*Definition
}

// NewMemoryCatalog constructs a catalog seeded with definitions.
func NewMemoryCatalog(definitions ...*Definition) *MemoryCatalog {
	catalog := &MemoryCatalog{definitions: make(map[int]*Definition)}
	for _, def := range definitions {
		catalog.Put(def)
	}
	return catalog
}

// Put stores or replaces a definition.
func (c *MemoryCatalog) Put(def *Definition) {
	if def == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[def.InstanceID] = cloneDefinition(def)
}

func (c *MemoryCatalog) GetModule(_ context.Context, instanceID int) (*Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[instanceID]
	if !ok {
		return nil, &NotFoundError{InstanceID: instanceID}
	}
	return cloneDefinition(def), nil
}

// List returns every definition ordered by instance id.
func (c *MemoryCatalog) List() []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Definition, 0, len(c.definitions))
	for _, def := range c.definitions {
		out = append(out, cloneDefinition(def))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstanceID < out[j].InstanceID })
	return out
}

func cloneDefinition(def *Definition) *Definition {
	if def == nil {
		return nil
	}
	cloned := *def
	if def.Dependencies != nil {
		cloned.Dependencies = append([]int(nil), def.Dependencies...)
	}
	cloned.SettingsSchema = deepCloneMap(def.SettingsSchema)
	return &cloned
}
