package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrThemesFeatureRequired indicates inconsistent theme configuration.
var ErrThemesFeatureRequired = errors.New("mosaic config: themes feature must be enabled to configure a theme directory")

// ErrAdvancedCacheRequiresEnabledCache ensures the repository cache decorator only builds when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("mosaic config: advanced cache feature requires cache to be enabled")
var ErrStorageProviderUnknown = errors.New("mosaic config: storage provider is invalid")
var ErrStorageDialectUnknown = errors.New("mosaic config: storage dialect is invalid")
var ErrStorageDSNRequired = errors.New("mosaic config: storage dsn is required for the bun provider")
var ErrLayoutColumnsInvalid = errors.New("mosaic config: layout default columns must be positive")
var ErrThemeCacheTTLInvalid = errors.New("mosaic config: theme cache ttl must be zero or positive")
var ErrTracingServiceNameRequired = errors.New("mosaic config: tracing service name is required when tracing is enabled")
var ErrLoggingProviderRequired = errors.New("mosaic config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("mosaic config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mosaic config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mosaic config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the composition engine.
type Config struct {
	Themes      ThemeConfig
	Layouts     LayoutConfig
	MasterPages MasterPageConfig
	Extensions  ExtensionConfig
	Storage     StorageConfig
	Cache       CacheConfig
	Logging     LoggingConfig
	Tracing     TracingConfig
	Features    Features
	Commands    CommandsConfig
}

// ThemeConfig captures configuration for the theme catalog.
type ThemeConfig struct {
	// AssetBase prefixes resolved asset paths. Empty means "/themes".
	AssetBase    string
	DefaultTheme string
	// Directory holds theme manifests loaded by the file repository.
	Directory string
	// CacheTTL bounds descriptor cache entries. Zero keeps entries until invalidated.
	CacheTTL time.Duration
}

// LayoutConfig captures configuration for the layout engine.
type LayoutConfig struct {
	DefaultColumns int
	// TemplateFiles lists HCL files declaring extra layout templates.
	TemplateFiles []string
}

// MasterPageConfig captures configuration for the master page renderer.
type MasterPageConfig struct {
	DefaultMasterPage string
}

// ExtensionConfig controls extension point behaviour.
type ExtensionConfig struct {
	// EnforceSingle rejects a second registration on points that do not allow multiple extensions.
	EnforceSingle bool
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	Dialect  string
	DSN      string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// TracingConfig toggles OpenTelemetry spans around page composition.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// Features toggles module functionality.
type Features struct {
	Themes        bool
	Markdown      bool
	AdvancedCache bool
	Logger        bool
}

// CommandsConfig toggles the administrative command handlers.
type CommandsConfig struct {
	Enabled bool
	Timeout time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Themes: ThemeConfig{
			AssetBase: "/themes",
		},
		Layouts: LayoutConfig{
			DefaultColumns: 12,
		},
		MasterPages: MasterPageConfig{
			DefaultMasterPage: "standard",
		},
		Extensions: ExtensionConfig{
			EnforceSingle: true,
		},
		Storage: StorageConfig{
			Provider: "memory",
			Dialect:  "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "",
		},
		Tracing: TracingConfig{
			ServiceName: "mosaic",
		},
		Features: Features{
			Themes: true,
		},
		Commands: CommandsConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Themes && strings.TrimSpace(cfg.Themes.Directory) != "" {
		return ErrThemesFeatureRequired
	}
	if cfg.Themes.CacheTTL < 0 {
		return ErrThemeCacheTTLInvalid
	}
	if cfg.Layouts.DefaultColumns <= 0 {
		return fmt.Errorf("%w: %d", ErrLayoutColumnsInvalid, cfg.Layouts.DefaultColumns)
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		if !isSupportedDialect(cfg.Storage.Dialect) {
			return fmt.Errorf("%w: %s", ErrStorageDialectUnknown, cfg.Storage.Dialect)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Tracing.Enabled && strings.TrimSpace(cfg.Tracing.ServiceName) == "" {
		return ErrTracingServiceNameRequired
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDialect(dialect string) bool {
	switch normalize(dialect) {
	case "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
