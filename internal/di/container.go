package di

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	mosaicextensions "github.com/orkinosai25-org/mosaic/extensions"
	"github.com/orkinosai25-org/mosaic/internal/composer"
	"github.com/orkinosai25-org/mosaic/internal/extensions"
	"github.com/orkinosai25-org/mosaic/internal/extensions/builtin"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/logging/gologger"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/runtimeconfig"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/internal/validation"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// SiteThemesFile is the YAML document holding site theme associations when
// themes load from a directory.
const SiteThemesFile = "sites.yaml"

// Container wires the engine services from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	tracer        trace.Tracer

	themeRepo     themes.ThemeRepository
	siteThemeRepo themes.SiteThemeRepository
	themeSeeds    []*themes.Record

	catalog          interfaces.ModuleCatalog
	memoryCatalog    *modules.MemoryCatalog
	placements       interfaces.PlacementProvider
	memoryPlacements *layouts.MemoryPlacementStore

	pendingExtensions []pendingExtension

	themeSvc      themes.Service
	layoutSvc     layouts.Service
	masterPageSvc masterpages.Service
	moduleSvc     modules.Service
	extensionSvc  extensions.Service
	composerSvc   composer.Service
}

type pendingExtension struct {
	point     string
	extension extensions.Extension
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider derived from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithBunDB supplies an open database instead of opening Storage.DSN.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used with bun storage.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithTracer overrides the tracer handed to the composer.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Container) {
		c.tracer = tracer
	}
}

// WithThemeRepository overrides the theme repository.
func WithThemeRepository(repo themes.ThemeRepository) Option {
	return func(c *Container) {
		c.themeRepo = repo
	}
}

// WithSiteThemeRepository overrides the site theme association repository.
func WithSiteThemeRepository(repo themes.SiteThemeRepository) Option {
	return func(c *Container) {
		c.siteThemeRepo = repo
	}
}

// WithThemeSeeds replaces the themes written to empty repositories.
func WithThemeSeeds(seeds ...*themes.Record) Option {
	return func(c *Container) {
		c.themeSeeds = seeds
	}
}

// WithModuleCatalog overrides the module catalog.
func WithModuleCatalog(catalog interfaces.ModuleCatalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// WithPlacementProvider overrides the page placement provider.
func WithPlacementProvider(provider interfaces.PlacementProvider) Option {
	return func(c *Container) {
		c.placements = provider
	}
}

// WithExtension registers ext on the named point once the registry is built.
func WithExtension(point string, ext extensions.Extension) Option {
	return func(c *Container) {
		c.pendingExtensions = append(c.pendingExtensions, pendingExtension{point: point, extension: ext})
	}
}

// WithThemeService overrides the theme catalog.
func WithThemeService(svc themes.Service) Option {
	return func(c *Container) {
		c.themeSvc = svc
	}
}

// WithLayoutService overrides the layout engine.
func WithLayoutService(svc layouts.Service) Option {
	return func(c *Container) {
		c.layoutSvc = svc
	}
}

// WithMasterPageService overrides the master page renderer.
func WithMasterPageService(svc masterpages.Service) Option {
	return func(c *Container) {
		c.masterPageSvc = svc
	}
}

// WithModuleService overrides the module lifecycle manager.
func WithModuleService(svc modules.Service) Option {
	return func(c *Container) {
		c.moduleSvc = svc
	}
}

// WithExtensionService overrides the extension point registry.
func WithExtensionService(svc extensions.Service) Option {
	return func(c *Container) {
		c.extensionSvc = svc
	}
}

// NewContainer validates cfg and wires every engine service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:     cfg,
		cacheTTL:   cfg.Cache.DefaultTTL,
		themeSeeds: []*themes.Record{themes.DefaultSeed()},
	}
	for _, opt := range opts {
		opt(c)
	}

	steps := []func() error{
		c.configureLogger,
		c.configureStorage,
		c.configureCacheDefaults,
		c.configureThemeRepositories,
		c.configureServices,
		c.configureExtensions,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    c.Config.Logging.Format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return fmt.Errorf("di: logger provider: %w", err)
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "bun") {
		return nil
	}
	db, err := OpenBunDB(context.Background(), c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if c.bunDB == nil || !c.Config.Cache.Enabled || !c.Config.Features.AdvancedCache {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureThemeRepositories() error {
	logger := logging.ThemesLogger(c.loggerProvider)
	ctx := context.Background()

	switch {
	case c.themeRepo != nil:
	case c.bunDB != nil:
		repo := themes.NewBunThemeRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		if err := themes.Bootstrap(ctx, repo, repo, c.themeSeeds, logger); err != nil {
			return err
		}
		c.themeRepo = repo
	case strings.TrimSpace(c.Config.Themes.Directory) != "":
		c.themeRepo = themes.NewDirThemeRepository(c.Config.Themes.Directory, themes.WithFileLogger(logger))
	default:
		c.themeRepo = themes.NewMemoryThemeRepository(c.themeSeeds...)
	}

	switch {
	case c.siteThemeRepo != nil:
	case c.bunDB != nil:
		c.siteThemeRepo = themes.NewBunSiteThemeRepository(c.bunDB)
	case strings.TrimSpace(c.Config.Themes.Directory) != "":
		c.siteThemeRepo = themes.NewFileSiteThemeRepository(filepath.Join(c.Config.Themes.Directory, SiteThemesFile))
	default:
		c.siteThemeRepo = themes.NewMemorySiteThemeRepository()
	}
	return nil
}

func (c *Container) configureServices() error {
	cfg := c.Config

	if c.themeSvc == nil {
		if cfg.Features.Themes {
			c.themeSvc = themes.NewService(c.themeRepo, c.siteThemeRepo,
				themes.WithLogger(logging.ThemesLogger(c.loggerProvider)),
				themes.WithCacheTTL(cfg.Themes.CacheTTL),
				themes.WithAssetBase(cfg.Themes.AssetBase),
			)
		} else {
			c.themeSvc = themes.NewNoOpService()
		}
	}

	if c.layoutSvc == nil {
		c.layoutSvc = layouts.NewService(
			layouts.WithDefaultColumns(cfg.Layouts.DefaultColumns),
			layouts.WithLogger(logging.LayoutsLogger(c.loggerProvider)),
		)
	}
	if len(cfg.Layouts.TemplateFiles) > 0 {
		templates, err := layouts.LoadTemplateFiles(cfg.Layouts.TemplateFiles...)
		if err != nil {
			return err
		}
		for _, tpl := range templates {
			if err := c.layoutSvc.RegisterTemplate(tpl); err != nil {
				return fmt.Errorf("di: register layout %q: %w", tpl.Name, err)
			}
		}
	}

	if c.masterPageSvc == nil {
		c.masterPageSvc = masterpages.NewService(
			masterpages.WithLogger(logging.MasterPagesLogger(c.loggerProvider)),
		)
	}

	if c.catalog == nil {
		c.memoryCatalog = modules.NewMemoryCatalog()
		c.catalog = c.memoryCatalog
	}
	if c.moduleSvc == nil {
		c.moduleSvc = modules.NewService(c.catalog,
			modules.WithLogger(logging.ModulesLogger(c.loggerProvider)),
			modules.WithSettingsValidator(validation.NewValidator()),
		)
	}

	if c.extensionSvc == nil {
		c.extensionSvc = extensions.NewService(
			extensions.WithLogger(logging.ExtensionsLogger(c.loggerProvider)),
			extensions.WithEnforceSingle(cfg.Extensions.EnforceSingle),
		)
	}

	if c.placements == nil {
		c.memoryPlacements = layouts.NewMemoryPlacementStore()
		c.placements = c.memoryPlacements
	}

	if c.tracer == nil {
		if cfg.Tracing.Enabled {
			c.tracer = otel.Tracer(cfg.Tracing.ServiceName)
		} else {
			c.tracer = noop.NewTracerProvider().Tracer(cfg.Tracing.ServiceName)
		}
	}

	c.composerSvc = composer.NewService(
		composer.Config{
			DefaultTheme:      cfg.Themes.DefaultTheme,
			DefaultMasterPage: cfg.MasterPages.DefaultMasterPage,
		},
		composer.Dependencies{
			Themes:      c.themeSvc,
			Layouts:     c.layoutSvc,
			MasterPages: c.masterPageSvc,
			Modules:     c.moduleSvc,
			Extensions:  c.extensionSvc,
			Placements:  c.placements,
		},
		composer.WithLogger(logging.ComposerLogger(c.loggerProvider)),
		composer.WithTracer(c.tracer),
	)
	return nil
}

func (c *Container) configureExtensions() error {
	if c.Config.Features.Markdown {
		renderer := builtin.NewMarkdownRenderer(builtin.MarkdownOptions{
			Extensions: []string{"gfm"},
		})
		if err := c.extensionSvc.Register(mosaicextensions.PointContentRendering, renderer.Extension()); err != nil {
			return fmt.Errorf("di: register markdown renderer: %w", err)
		}
	}
	for _, pending := range c.pendingExtensions {
		if err := c.extensionSvc.Register(pending.point, pending.extension); err != nil {
			return fmt.Errorf("di: register extension %q: %w", pending.extension.Name(), err)
		}
	}
	return nil
}

// Close releases the database opened by the container.
func (c *Container) Close() error {
	if c.bunDB != nil && c.ownsDB {
		c.ownsDB = false
		return c.bunDB.Close()
	}
	return nil
}

// LoggerProvider returns the configured provider, nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB returns the database backing the repositories, if any.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// ThemeService returns the theme catalog.
func (c *Container) ThemeService() themes.Service {
	return c.themeSvc
}

// LayoutService returns the layout engine.
func (c *Container) LayoutService() layouts.Service {
	return c.layoutSvc
}

// MasterPageService returns the master page renderer.
func (c *Container) MasterPageService() masterpages.Service {
	return c.masterPageSvc
}

// ModuleService returns the module lifecycle manager.
func (c *Container) ModuleService() modules.Service {
	return c.moduleSvc
}

// ExtensionService returns the extension point registry.
func (c *Container) ExtensionService() extensions.Service {
	return c.extensionSvc
}

// ComposerService returns the page composer.
func (c *Container) ComposerService() composer.Service {
	return c.composerSvc
}

// ModuleCatalog returns the in-memory catalog, or nil when a host catalog was supplied.
func (c *Container) ModuleCatalog() *modules.MemoryCatalog {
	return c.memoryCatalog
}

// PlacementStore returns the in-memory placements, or nil when a host provider was supplied.
func (c *Container) PlacementStore() *layouts.MemoryPlacementStore {
	return c.memoryPlacements
}
