package admincmd

import (
	"context"
	"errors"

	"github.com/orkinosai25-org/mosaic/internal/commands"
	"github.com/orkinosai25-org/mosaic/internal/layouts"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/masterpages"
	"github.com/orkinosai25-org/mosaic/internal/modules"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// RegisterLayoutTemplateHandler registers layout templates.
type RegisterLayoutTemplateHandler struct {
	inner *commands.Handler[RegisterLayoutTemplateCommand]
}

// NewRegisterLayoutTemplateHandler constructs a handler wired to the layout engine.
func NewRegisterLayoutTemplateHandler(service layouts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RegisterLayoutTemplateCommand]) *RegisterLayoutTemplateHandler {
	baseLogger := logging.Or(logger)
	exec := func(_ context.Context, msg RegisterLayoutTemplateCommand) error {
		if err := service.RegisterTemplate(msg.template()); err != nil {
			if errors.Is(err, layouts.ErrTemplateInvalid) || errors.Is(err, layouts.ErrTemplateRequired) {
				return commands.WrapValidation(err, "layout template rejected")
			}
			return err
		}
		baseLogger.Info("layouts.command.template.registered", "layout", msg.Name)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RegisterLayoutTemplateCommand]{
		commands.WithLogger[RegisterLayoutTemplateCommand](baseLogger),
		commands.WithOperation[RegisterLayoutTemplateCommand]("layouts.template.register"),
	}
	return &RegisterLayoutTemplateHandler{
		inner: commands.NewHandler[RegisterLayoutTemplateCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[RegisterLayoutTemplateCommand].
func (h *RegisterLayoutTemplateHandler) Execute(ctx context.Context, msg RegisterLayoutTemplateCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegisterMasterPageHandler registers master page schemas.
type RegisterMasterPageHandler struct {
	inner *commands.Handler[RegisterMasterPageCommand]
}

// NewRegisterMasterPageHandler constructs a handler wired to the master page renderer.
func NewRegisterMasterPageHandler(service masterpages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[RegisterMasterPageCommand]) *RegisterMasterPageHandler {
	baseLogger := logging.Or(logger)
	exec := func(_ context.Context, msg RegisterMasterPageCommand) error {
		err := service.RegisterSchema(&masterpages.Schema{Name: msg.Name, Slots: msg.Slots})
		if err != nil {
			if errors.Is(err, masterpages.ErrSchemaInvalid) || errors.Is(err, masterpages.ErrSchemaRequired) {
				return commands.WrapValidation(err, "master page schema rejected")
			}
			return err
		}
		baseLogger.Info("masterpages.command.schema.registered", "master_page", msg.Name)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RegisterMasterPageCommand]{
		commands.WithLogger[RegisterMasterPageCommand](baseLogger),
		commands.WithOperation[RegisterMasterPageCommand]("masterpages.schema.register"),
	}
	return &RegisterMasterPageHandler{
		inner: commands.NewHandler[RegisterMasterPageCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[RegisterMasterPageCommand].
func (h *RegisterMasterPageHandler) Execute(ctx context.Context, msg RegisterMasterPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SetActiveThemeHandler changes a site's theme.
type SetActiveThemeHandler struct {
	inner *commands.Handler[SetActiveThemeCommand]
}

// NewSetActiveThemeHandler constructs a handler wired to the theme catalog.
func NewSetActiveThemeHandler(service themes.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SetActiveThemeCommand]) *SetActiveThemeHandler {
	baseLogger := logging.Or(logger)
	exec := func(ctx context.Context, msg SetActiveThemeCommand) error {
		if !gates.themesEnabled() {
			return ErrThemesModuleDisabled
		}
		if err := service.SetActiveTheme(ctx, msg.SiteID, msg.ThemeName); err != nil {
			if errors.Is(err, themes.ErrThemeNotFound) {
				return commands.WrapNotFound(err, "theme not found")
			}
			return err
		}
		baseLogger.Info("themes.command.active.set", "site_id", msg.SiteID, "theme", msg.ThemeName)
		return nil
	}

	handlerOpts := []commands.HandlerOption[SetActiveThemeCommand]{
		commands.WithLogger[SetActiveThemeCommand](baseLogger),
		commands.WithOperation[SetActiveThemeCommand]("themes.active.set"),
	}
	return &SetActiveThemeHandler{
		inner: commands.NewHandler[SetActiveThemeCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[SetActiveThemeCommand].
func (h *SetActiveThemeHandler) Execute(ctx context.Context, msg SetActiveThemeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DisposeModuleHandler disposes module instances. Disposing an instance
// with no state is logged, not reported as an error.
type DisposeModuleHandler struct {
	inner *commands.Handler[DisposeModuleCommand]
}

// NewDisposeModuleHandler constructs a handler wired to the lifecycle manager.
func NewDisposeModuleHandler(service modules.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DisposeModuleCommand]) *DisposeModuleHandler {
	baseLogger := logging.Or(logger)
	exec := func(ctx context.Context, msg DisposeModuleCommand) error {
		removed := service.Dispose(ctx, msg.ModuleInstanceID)
		baseLogger.Info("modules.command.disposed", "module_instance_id", msg.ModuleInstanceID, "removed", removed)
		return nil
	}

	handlerOpts := []commands.HandlerOption[DisposeModuleCommand]{
		commands.WithLogger[DisposeModuleCommand](baseLogger),
		commands.WithOperation[DisposeModuleCommand]("modules.dispose"),
	}
	return &DisposeModuleHandler{
		inner: commands.NewHandler[DisposeModuleCommand](exec, append(handlerOpts, opts...)...),
	}
}

// Execute satisfies command.Commander[DisposeModuleCommand].
func (h *DisposeModuleHandler) Execute(ctx context.Context, msg DisposeModuleCommand) error {
	return h.inner.Execute(ctx, msg)
}
