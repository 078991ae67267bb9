package extensions

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	mosaicextensions "github.com/orkinosai25-org/mosaic/extensions"
)

// DefaultPoints returns the extension points seeded at start-up.
func DefaultPoints() []Point {
	return []Point{
		{
			Name:          mosaicextensions.PointContentRendering,
			Description:   "Transforms slot content before the master page renders.",
			Kind:          KindContentRendering,
			AllowMultiple: true,
		},
		{
			Name:          mosaicextensions.PointThemeLoading,
			Description:   "Adjusts theme settings after the active theme resolves.",
			Kind:          KindThemeLoading,
			AllowMultiple: true,
		},
		{
			Name:          mosaicextensions.PointModuleInit,
			Description:   "Supplies settings for placed module instances once they are initialized.",
			Kind:          KindModuleInit,
			AllowMultiple: true,
		},
		{
			Name:          mosaicextensions.PointAuthentication,
			Description:   "Resolves the principal for a request.",
			Kind:          KindAuthentication,
			AllowMultiple: false,
		},
	}
}

type entry struct {
	point      Point
	extensions []Extension
}

// Registry holds extension points and their extensions in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// NewRegistryWithDefaults constructs a registry seeded with DefaultPoints.
func NewRegistryWithDefaults() *Registry {
	registry := NewRegistry()
	for _, point := range DefaultPoints() {
		_ = registry.putPoint(point)
	}
	return registry
}

// putPoint stores or replaces a point descriptor, keeping registered extensions.
// A point that already holds extensions keeps its kind.
func (r *Registry) putPoint(point Point) error {
	key := canonicalKey(point.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[key]; ok {
		if existing.point.Kind != point.Kind && len(existing.extensions) > 0 {
			return fmt.Errorf("%w: point %q holds %d %s extensions, cannot become %s",
				ErrCapabilityMismatch, existing.point.Name, len(existing.extensions), existing.point.Kind, point.Kind)
		}
		existing.point = point
		return nil
	}
	r.entries[key] = &entry{point: point}
	r.order = append(r.order, key)
	return nil
}

func (r *Registry) point(name string) (Point, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[canonicalKey(name)]
	if !ok {
		return Point{}, false
	}
	return e.point, true
}

func (r *Registry) extensions(name string) (Point, []Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[canonicalKey(name)]
	if !ok {
		return Point{}, nil, false
	}
	return e.point, slices.Clone(e.extensions), true
}

func (r *Registry) points() []Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Point, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key].point)
	}
	return out
}

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
