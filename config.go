package mosaic

import "github.com/orkinosai25-org/mosaic/internal/runtimeconfig"

var (
	ErrThemesFeatureRequired             = runtimeconfig.ErrThemesFeatureRequired
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrStorageProviderUnknown            = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDialectUnknown             = runtimeconfig.ErrStorageDialectUnknown
	ErrStorageDSNRequired                = runtimeconfig.ErrStorageDSNRequired
	ErrLayoutColumnsInvalid              = runtimeconfig.ErrLayoutColumnsInvalid
	ErrThemeCacheTTLInvalid              = runtimeconfig.ErrThemeCacheTTLInvalid
	ErrTracingServiceNameRequired        = runtimeconfig.ErrTracingServiceNameRequired
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	ThemeConfig      = runtimeconfig.ThemeConfig
	LayoutConfig     = runtimeconfig.LayoutConfig
	MasterPageConfig = runtimeconfig.MasterPageConfig
	ExtensionConfig  = runtimeconfig.ExtensionConfig
	StorageConfig    = runtimeconfig.StorageConfig
	CacheConfig      = runtimeconfig.CacheConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	TracingConfig    = runtimeconfig.TracingConfig
	Features         = runtimeconfig.Features
	CommandsConfig   = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
