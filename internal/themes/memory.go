package themes

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryThemeRepository provides an in-memory implementation of ThemeRepository.
type MemoryThemeRepository struct {
	mu     sync.RWMutex
	byName map[string]*Record
}

// NewMemoryThemeRepository constructs a memory-backed theme repository seeded with records.
func NewMemoryThemeRepository(records ...*Record) *MemoryThemeRepository {
	repo := &MemoryThemeRepository{
		byName: make(map[string]*Record),
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		repo.byName[record.Name] = cloneRecord(record)
	}
	return repo
}

func (r *MemoryThemeRepository) Create(_ context.Context, record *Record) (*Record, error) {
	if record == nil {
		return nil, nil
	}
	cloned := cloneRecord(record)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[cloned.Name] = cloned
	return cloneRecord(cloned), nil
}

func (r *MemoryThemeRepository) GetByName(_ context.Context, name string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{Resource: "theme", Key: name}
	}
	return cloneRecord(record), nil
}

func (r *MemoryThemeRepository) List(_ context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.byName))
	for _, record := range r.byName {
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemorySiteThemeRepository keeps site to theme associations in memory.
type MemorySiteThemeRepository struct {
	mu    sync.RWMutex
	sites map[string]string
}

// NewMemorySiteThemeRepository constructs an empty association store.
func NewMemorySiteThemeRepository() *MemorySiteThemeRepository {
	return &MemorySiteThemeRepository{sites: make(map[string]string)}
}

func (r *MemorySiteThemeRepository) GetSiteTheme(_ context.Context, siteID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.sites[strings.TrimSpace(siteID)]
	if !ok {
		return "", &NotFoundError{Resource: "site_theme", Key: siteID}
	}
	return name, nil
}

func (r *MemorySiteThemeRepository) SetSiteTheme(_ context.Context, siteID, themeName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sites[strings.TrimSpace(siteID)] = themeName
	return nil
}
