package mosaic

import (
	"github.com/orkinosai25-org/mosaic/commands"
	"github.com/orkinosai25-org/mosaic/internal/composer"
	"github.com/orkinosai25-org/mosaic/internal/di"
	"github.com/orkinosai25-org/mosaic/internal/extensions"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/themes"
)

// ThemeService exports the theme catalog contract.
type ThemeService = themes.Service

// LayoutService exports the layout engine contract.
type LayoutService = layouts.Service

// MasterPageService exports the master page renderer contract.
type MasterPageService = masterpages.Service

// ModuleService exports the module lifecycle contract.
type ModuleService = modules.Service

// ExtensionService exports the extension point registry contract.
type ExtensionService = extensions.Service

// ComposerService exports the page composer contract.
type ComposerService = composer.Service

// Option customises container wiring.
type Option = di.Option

// Module is the top level composition engine facade.
type Module struct {
	container *di.Container
	commands  commands.Handlers
}

// New constructs the engine from cfg and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		commands:  commands.BuildHandlers(container, nil, ""),
	}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Themes returns the theme catalog.
func (m *Module) Themes() ThemeService {
	return m.container.ThemeService()
}

// Layouts returns the layout engine.
func (m *Module) Layouts() LayoutService {
	return m.container.LayoutService()
}

// MasterPages returns the master page renderer.
func (m *Module) MasterPages() MasterPageService {
	return m.container.MasterPageService()
}

// Modules returns the module lifecycle manager.
func (m *Module) Modules() ModuleService {
	return m.container.ModuleService()
}

// Extensions returns the extension point registry.
func (m *Module) Extensions() ExtensionService {
	return m.container.ExtensionService()
}

// Composer returns the page composer.
func (m *Module) Composer() ComposerService {
	return m.container.ComposerService()
}

// Commands returns the admin command handlers.
func (m *Module) Commands() commands.Handlers {
	return m.commands
}

// Close releases resources held by the engine.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
