package themes

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/orkinosai25-org/mosaic/internal/identity"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Registry stores built-in or host-defined theme seeds.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Record
}

// NewRegistry constructs an empty theme registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Record),
	}
}

// Register adds a theme seed to the registry, overriding existing keys.
func (r *Registry) Register(seed *Record) {
	if seed == nil {
		return
	}
	key := canonicalKey(seed.Name)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = cloneRecord(seed)
}

// List returns all registered seeds.
func (r *Registry) List() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.entries))
	for _, seed := range r.entries {
		out = append(out, cloneRecord(seed))
	}
	return out
}

func canonicalKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Bootstrap writes seeds that the repository does not already hold.
func Bootstrap(ctx context.Context, repo ThemeRepository, writer ThemeWriter, seeds []*Record, logger interfaces.Logger) error {
	for _, seed := range seeds {
		if seed == nil || strings.TrimSpace(seed.Name) == "" {
			continue
		}
		if _, err := repo.GetByName(ctx, seed.Name); err == nil {
			logger.Debug("themes.bootstrap.skip", "theme", seed.Name, "reason", "exists")
			continue
		}
		record := cloneRecord(seed)
		record.ID = identity.ThemeUUID(record.Name)
		if _, err := writer.Create(ctx, record); err != nil {
			return fmt.Errorf("themes: bootstrap %s: %w", seed.Name, err)
		}
		logger.Info("themes.bootstrap.create", "theme", seed.Name)
	}
	return nil
}

// DefaultSeed is the theme registered when a host configures none.
func DefaultSeed() *Record {
	return &Record{
		Name:          "mosaic",
		DisplayName:   "Mosaic",
		Description:   "Neutral starter theme.",
		Author:        "Mosaic",
		Version:       "1.0.0",
		ThumbnailURL:  ResolveAssetPath(DefaultAssetBase, "mosaic", "preview.png"),
		MasterPages:   []string{"standard", "full-width", "blog"},
		Layouts:       []string{"single-column", "two-column", "three-column"},
		Settings:      map[string]string{"primary_color": "#1f4e79"},
		SupportsLight: true,
		SupportsDark:  true,
	}
}
