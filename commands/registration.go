package commands

import (
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	internalcommands "github.com/orkinosai25-org/mosaic/internal/commands"
	admincmd "github.com/orkinosai25-org/mosaic/internal/commands/admin"
	"github.com/orkinosai25-org/mosaic/internal/di"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// ErrUnsupportedHandler is returned by GlobalDispatcher for handlers it cannot subscribe.
var ErrUnsupportedHandler = errors.New("commands: unsupported handler type")

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// RefreshThemesCron overrides the cron expression applied to the theme catalog refresh handler.
	RefreshThemesCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Handlers groups the admin handlers built for a container.
type Handlers struct {
	RegisterLayoutTemplate *admincmd.RegisterLayoutTemplateHandler
	RegisterMasterPage     *admincmd.RegisterMasterPageHandler
	SetActiveTheme         *admincmd.SetActiveThemeHandler
	RefreshThemeCatalog    *admincmd.RefreshThemeCatalogHandler
	DisposeModule          *admincmd.DisposeModuleHandler
}

// All lists the non-nil handlers in registration order.
func (h Handlers) All() []any {
	var out []any
	if h.RegisterLayoutTemplate != nil {
		out = append(out, h.RegisterLayoutTemplate)
	}
	if h.RegisterMasterPage != nil {
		out = append(out, h.RegisterMasterPage)
	}
	if h.SetActiveTheme != nil {
		out = append(out, h.SetActiveTheme)
	}
	if h.RefreshThemeCatalog != nil {
		out = append(out, h.RefreshThemeCatalog)
	}
	if h.DisposeModule != nil {
		out = append(out, h.DisposeModule)
	}
	return out
}

// BuildHandlers constructs the admin handlers backed by the container services.
// Theme handlers are skipped when the themes feature is disabled.
func BuildHandlers(container *di.Container, provider interfaces.LoggerProvider, refreshCron string) Handlers {
	if container == nil {
		return Handlers{}
	}
	cfg := container.Config
	if provider == nil {
		provider = container.LoggerProvider()
	}
	loggerFor := func(module string) interfaces.Logger {
		return logging.CommandsLogger(provider, module)
	}
	timeout := cfg.Commands.Timeout

	handlers := Handlers{
		RegisterLayoutTemplate: admincmd.NewRegisterLayoutTemplateHandler(container.LayoutService(), loggerFor("layouts"),
			internalcommands.WithTimeout[admincmd.RegisterLayoutTemplateCommand](timeout)),
		RegisterMasterPage: admincmd.NewRegisterMasterPageHandler(container.MasterPageService(), loggerFor("masterpages"),
			internalcommands.WithTimeout[admincmd.RegisterMasterPageCommand](timeout)),
		DisposeModule: admincmd.NewDisposeModuleHandler(container.ModuleService(), loggerFor("modules"),
			internalcommands.WithTimeout[admincmd.DisposeModuleCommand](timeout)),
	}

	if cfg.Features.Themes {
		gates := admincmd.FeatureGates{
			ThemesEnabled: func() bool { return cfg.Features.Themes },
		}
		themesLogger := loggerFor("themes")
		handlers.SetActiveTheme = admincmd.NewSetActiveThemeHandler(container.ThemeService(), themesLogger, gates,
			internalcommands.WithTimeout[admincmd.SetActiveThemeCommand](timeout))
		handlers.RefreshThemeCatalog = admincmd.NewRefreshThemeCatalogHandler(container.ThemeService(), themesLogger, gates,
			admincmd.RefreshWithCronExpression(refreshCron),
			admincmd.RefreshWithHandlerOptions(internalcommands.WithTimeout[admincmd.RefreshThemeCatalogCommand](timeout)),
		)
	}
	return handlers
}

// RegisterContainerCommands builds the command handlers exposed by the provided container and
// optionally registers them with registry/dispatcher/cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	for _, handler := range BuildHandlers(container, opts.LoggerProvider, opts.RefreshThemesCron).All() {
		register(handler)
	}
	return result, errs
}

// GlobalDispatcher subscribes admin handlers to the go-command process dispatcher.
type GlobalDispatcher struct {
	MaxRetries int
}

var _ CommandDispatcher = GlobalDispatcher{}

// RegisterCommand implements CommandDispatcher.
func (d GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	switch h := handler.(type) {
	case *admincmd.RegisterLayoutTemplateHandler:
		return subscribe[admincmd.RegisterLayoutTemplateCommand](h, d.MaxRetries), nil
	case *admincmd.RegisterMasterPageHandler:
		return subscribe[admincmd.RegisterMasterPageCommand](h, d.MaxRetries), nil
	case *admincmd.SetActiveThemeHandler:
		return subscribe[admincmd.SetActiveThemeCommand](h, d.MaxRetries), nil
	case *admincmd.RefreshThemeCatalogHandler:
		return subscribe[admincmd.RefreshThemeCatalogCommand](h, d.MaxRetries), nil
	case *admincmd.DisposeModuleHandler:
		return subscribe[admincmd.DisposeModuleCommand](h, d.MaxRetries), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandler, handler)
	}
}

func subscribe[T command.Message](handler command.Commander[T], retries int) CommandSubscription {
	if retries > 0 {
		return dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(retries))
	}
	return dispatcher.SubscribeCommand(handler)
}

// MessageTypes lists the message type identifiers handled by the admin surface.
func MessageTypes() []string {
	return []string{
		command.GetMessageType(admincmd.RegisterLayoutTemplateCommand{}),
		command.GetMessageType(admincmd.RegisterMasterPageCommand{}),
		command.GetMessageType(admincmd.SetActiveThemeCommand{}),
		command.GetMessageType(admincmd.RefreshThemeCatalogCommand{}),
		command.GetMessageType(admincmd.DisposeModuleCommand{}),
	}
}
