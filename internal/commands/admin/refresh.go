package admincmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/orkinosai25-org/mosaic/internal/commands"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/internal/themes"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

const refreshThemeCatalogMessageType = "mosaic.themes.catalog.refresh"

// DefaultRefreshCron is the schedule used when hosts register the refresh handler with cron.
const DefaultRefreshCron = "@every 15m"

// RefreshThemeCatalogCommand drops cached descriptors and warms the catalog
// again. An empty Names list refreshes every theme.
type RefreshThemeCatalogCommand struct {
	Names []string `json:"names,omitempty"`
}

// Type implements command.Message.
func (RefreshThemeCatalogCommand) Type() string { return refreshThemeCatalogMessageType }

// Validate satisfies command.Message.
func (RefreshThemeCatalogCommand) Validate() error { return nil }

// CommandTarget implements commands.Targeted.
func (m RefreshThemeCatalogCommand) CommandTarget() commands.Target {
	return commands.Target{Kind: "theme_catalog", Name: strings.Join(m.Names, ",")}
}

// RefreshHandlerOption customises the refresh handler.
type RefreshHandlerOption func(*RefreshThemeCatalogHandler)

// RefreshWithCronExpression overrides the cron expression.
func RefreshWithCronExpression(expression string) RefreshHandlerOption {
	return func(h *RefreshThemeCatalogHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cronConfig.Expression = trimmed
		}
	}
}

// RefreshWithHandlerOptions forwards options to the wrapped command handler.
func RefreshWithHandlerOptions(opts ...commands.HandlerOption[RefreshThemeCatalogCommand]) RefreshHandlerOption {
	return func(h *RefreshThemeCatalogHandler) {
		h.handlerOpts = append(h.handlerOpts, opts...)
	}
}

// RefreshThemeCatalogHandler invalidates and preloads the theme catalog cache.
type RefreshThemeCatalogHandler struct {
	inner       *commands.Handler[RefreshThemeCatalogCommand]
	cronConfig  command.HandlerConfig
	handlerOpts []commands.HandlerOption[RefreshThemeCatalogCommand]
}

// NewRefreshThemeCatalogHandler constructs a handler wired to the theme catalog.
func NewRefreshThemeCatalogHandler(service themes.Service, logger interfaces.Logger, gates FeatureGates, opts ...RefreshHandlerOption) *RefreshThemeCatalogHandler {
	baseLogger := logging.Or(logger)
	h := &RefreshThemeCatalogHandler{
		cronConfig: command.HandlerConfig{Expression: DefaultRefreshCron},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	exec := func(ctx context.Context, msg RefreshThemeCatalogCommand) error {
		if !gates.themesEnabled() {
			return ErrThemesModuleDisabled
		}
		service.InvalidateCache(msg.Names...)
		if err := service.Preload(ctx); err != nil {
			return err
		}
		baseLogger.Debug("themes.command.catalog.refreshed", "names", msg.Names)
		return nil
	}

	handlerOpts := []commands.HandlerOption[RefreshThemeCatalogCommand]{
		commands.WithLogger[RefreshThemeCatalogCommand](baseLogger),
		commands.WithOperation[RefreshThemeCatalogCommand]("themes.catalog.refresh"),
	}
	h.inner = commands.NewHandler[RefreshThemeCatalogCommand](exec, append(handlerOpts, h.handlerOpts...)...)
	return h
}

// Execute satisfies command.Commander[RefreshThemeCatalogCommand].
func (h *RefreshThemeCatalogHandler) Execute(ctx context.Context, msg RefreshThemeCatalogCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand.
func (h *RefreshThemeCatalogHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), RefreshThemeCatalogCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *RefreshThemeCatalogHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
