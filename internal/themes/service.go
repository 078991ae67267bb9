package themes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Service exposes the theme catalog.
type Service interface {
	ListThemes(ctx context.Context) []*Descriptor
	GetTheme(ctx context.Context, name string) (*Descriptor, bool)
	GetActiveTheme(ctx context.Context, siteID string) (*Descriptor, bool)
	SetActiveTheme(ctx context.Context, siteID, name string) error
	ValidateTheme(ctx context.Context, name string) ValidationResult
	ResolveAssetPath(name, relativePath string) string

	InvalidateCache(names ...string)
	Preload(ctx context.Context) error
}

var (
	ErrFeatureDisabled         = errors.New("themes: feature disabled")
	ErrThemeRepositoryRequired = errors.New("themes: theme repository required")
	ErrSiteRepositoryRequired  = errors.New("themes: site theme repository required")
	ErrThemeNotFound           = errors.New("themes: theme not found")
	ErrSiteIDRequired          = errors.New("themes: site id required")
)

// DefaultAssetBase prefixes resolved asset paths.
const DefaultAssetBase = "/themes"

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithLogger attaches a logger for collaborator failures and cache events.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCacheTTL expires cached descriptors after ttl. Zero disables expiry.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithAssetBase overrides the asset path prefix.
func WithAssetBase(base string) ServiceOption {
	return func(s *service) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			s.assetBase = base
		}
	}
}

type cacheEntry struct {
	descriptor *Descriptor
	storedAt   time.Time
}

type service struct {
	themes    ThemeRepository
	sites     SiteThemeRepository
	logger    interfaces.Logger
	now       func() time.Time
	ttl       time.Duration
	assetBase string

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewService constructs a theme catalog.
func NewService(themeRepo ThemeRepository, siteRepo SiteThemeRepository, opts ...ServiceOption) Service {
	if themeRepo == nil {
		panic(ErrThemeRepositoryRequired)
	}
	if siteRepo == nil {
		panic(ErrSiteRepositoryRequired)
	}

	s := &service{
		themes:    themeRepo,
		sites:     siteRepo,
		logger:    logging.NoOp(),
		now:       time.Now,
		assetBase: DefaultAssetBase,
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListThemes returns every theme known to the repository. Repository failures
// are logged and yield an empty list.
func (s *service) ListThemes(ctx context.Context) []*Descriptor {
	records, err := s.themes.List(ctx)
	if err != nil {
		s.logger.Error("themes.list.failed", "error", err)
		return []*Descriptor{}
	}

	out := make([]*Descriptor, 0, len(records))
	s.mu.Lock()
	for _, record := range records {
		descriptor := ToDescriptor(record)
		if descriptor == nil {
			continue
		}
		s.cache[descriptor.Name] = cacheEntry{descriptor: descriptor, storedAt: s.now()}
		out = append(out, cloneDescriptor(descriptor))
	}
	s.mu.Unlock()
	return out
}

func (s *service) GetTheme(ctx context.Context, name string) (*Descriptor, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	if descriptor, ok := s.cached(name); ok {
		return descriptor, true
	}

	record, err := s.themes.GetByName(ctx, name)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			s.logger.Error("themes.get.failed", "theme", name, "error", err)
		}
		return nil, false
	}
	descriptor := ToDescriptor(record)
	if descriptor == nil {
		return nil, false
	}

	s.mu.Lock()
	s.cache[name] = cacheEntry{descriptor: descriptor, storedAt: s.now()}
	s.mu.Unlock()
	return cloneDescriptor(descriptor), true
}

func (s *service) cached(name string) (*Descriptor, bool) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(entry.storedAt) > s.ttl {
		s.InvalidateCache(name)
		return nil, false
	}
	return cloneDescriptor(entry.descriptor), true
}

func (s *service) GetActiveTheme(ctx context.Context, siteID string) (*Descriptor, bool) {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return nil, false
	}
	name, err := s.sites.GetSiteTheme(ctx, siteID)
	if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			s.logger.Error("themes.active.failed", "site_id", siteID, "error", err)
		}
		return nil, false
	}
	return s.GetTheme(ctx, name)
}

func (s *service) SetActiveTheme(ctx context.Context, siteID, name string) error {
	siteID = strings.TrimSpace(siteID)
	if siteID == "" {
		return ErrSiteIDRequired
	}
	descriptor, ok := s.GetTheme(ctx, name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrThemeNotFound, strings.TrimSpace(name))
	}
	if err := s.sites.SetSiteTheme(ctx, siteID, descriptor.Name); err != nil {
		return fmt.Errorf("themes: set active theme for %s: %w", siteID, err)
	}
	s.logger.Info("themes.active.set", "site_id", siteID, "theme", descriptor.Name)
	return nil
}

func (s *service) ValidateTheme(ctx context.Context, name string) ValidationResult {
	descriptor, ok := s.GetTheme(ctx, name)
	if !ok {
		return ValidationResult{
			IsValid: false,
			Errors:  []string{fmt.Sprintf("theme %q not found", strings.TrimSpace(name))},
		}
	}
	return ValidateDescriptor(descriptor)
}

// ValidateDescriptor checks required metadata. Missing description or
// preview image only produce warnings.
func ValidateDescriptor(descriptor *Descriptor) ValidationResult {
	result := ValidationResult{}
	if descriptor == nil {
		result.Errors = append(result.Errors, "theme descriptor required")
		return result
	}
	err := validation.ValidateStruct(descriptor,
		validation.Field(&descriptor.Name, validation.Required.Error("theme name is required")),
		validation.Field(&descriptor.DisplayName, validation.Required.Error("theme display name is required")),
	)
	result.Errors = append(result.Errors, validationMessages(err)...)
	if strings.TrimSpace(descriptor.Description) == "" {
		result.Warnings = append(result.Warnings, "theme description is missing")
	}
	if strings.TrimSpace(descriptor.PreviewImageURL) == "" {
		result.Warnings = append(result.Warnings, "theme preview image is missing")
	}
	result.IsValid = len(result.Errors) == 0
	return result
}

func validationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	// fixed order keeps messages deterministic
	var out []string
	for _, key := range []string{"name", "display_name"} {
		if fieldErr, ok := fieldErrs[key]; ok && fieldErr != nil {
			out = append(out, fieldErr.Error())
		}
	}
	return out
}

// ResolveAssetPath composes the public URL of a theme asset without I/O.
func (s *service) ResolveAssetPath(name, relativePath string) string {
	return ResolveAssetPath(s.assetBase, name, relativePath)
}

// ResolveAssetPath composes "{base}/{name}/assets/{relativePath}" with any
// leading slashes of relativePath stripped.
func ResolveAssetPath(base, name, relativePath string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultAssetBase
	}
	return base + "/" + strings.TrimSpace(name) + "/assets/" + strings.TrimLeft(relativePath, "/")
}

func (s *service) InvalidateCache(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(names) == 0 {
		clear(s.cache)
		return
	}
	for _, name := range names {
		delete(s.cache, strings.TrimSpace(name))
	}
}

// Preload warms the cache. Unlike ListThemes it reports repository failures.
func (s *service) Preload(ctx context.Context) error {
	records, err := s.themes.List(ctx)
	if err != nil {
		return fmt.Errorf("themes: preload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if descriptor := ToDescriptor(record); descriptor != nil {
			s.cache[descriptor.Name] = cacheEntry{descriptor: descriptor, storedAt: s.now()}
		}
	}
	s.logger.Debug("themes.preload.complete", "count", len(records))
	return nil
}
