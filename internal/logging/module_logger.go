package logging

import (
	"strings"

	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

const (
	rootModule        = "mosaic"
	themesModule      = "mosaic.themes"
	layoutsModule     = "mosaic.layouts"
	masterPagesModule = "mosaic.masterpages"
	modulesModule     = "mosaic.modules"
	extensionsModule  = "mosaic.extensions"
	composerModule    = "mosaic.composer"
	commandsModule    = "mosaic.commands"
)

const (
	fieldSiteID = "site_id"
	fieldPageID = "page_id"
	fieldStage  = "stage"

	fieldCommandArea = "command_area"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ThemesLogger returns the logger namespace reserved for the theme catalog.
func ThemesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, themesModule)
}

// LayoutsLogger returns the logger namespace reserved for the layout engine.
func LayoutsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, layoutsModule)
}

// MasterPagesLogger returns the logger namespace reserved for master page rendering.
func MasterPagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, masterPagesModule)
}

// ModulesLogger returns the logger namespace reserved for module lifecycle management.
func ModulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, modulesModule)
}

// ExtensionsLogger returns the logger namespace reserved for the extension registry.
func ExtensionsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, extensionsModule)
}

// ComposerLogger returns the logger namespace reserved for page composition.
func ComposerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, composerModule)
}

// CommandsLogger returns the logger for the admin commands acting on one
// engine area ("layouts", "themes", ...), named mosaic.commands.<area>.
func CommandsLogger(provider interfaces.LoggerProvider, area string) interfaces.Logger {
	area = strings.ToLower(strings.TrimSpace(area))
	if area == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return WithFields(ModuleLogger(provider, commandsModule+"."+area), map[string]any{
		fieldCommandArea: area,
	})
}

// WithRenderContext enriches the provided logger with the site, page and
// pipeline stage of a render request. Empty values are ignored.
func WithRenderContext(logger interfaces.Logger, siteID, pageID, stage string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(siteID); trimmed != "" {
		fields[fieldSiteID] = trimmed
	}
	if trimmed := strings.TrimSpace(pageID); trimmed != "" {
		fields[fieldPageID] = trimmed
	}
	if trimmed := strings.TrimSpace(stage); trimmed != "" {
		fields[fieldStage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}
