package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// Target names the engine object an admin command changes.
type Target struct {
	// Kind is one of "layout", "master_page", "theme", "theme_catalog" or "module".
	Kind   string
	Name   string
	SiteID string
}

func (t Target) fields() map[string]any {
	fields := map[string]any{}
	if t.Kind != "" {
		fields["target_kind"] = t.Kind
	}
	if t.Name != "" {
		fields["target"] = t.Name
	}
	if t.SiteID != "" {
		fields["site_id"] = t.SiteID
	}
	return fields
}

// Targeted is implemented by messages that address a layout template,
// master page schema, theme or module instance.
type Targeted interface {
	CommandTarget() Target
}

func targetOf(msg any) Target {
	if targeted, ok := msg.(Targeted); ok {
		return targeted.CommandTarget()
	}
	return Target{}
}

// Outcome classifies a finished command.
type Outcome string

const (
	// OutcomeApplied means the engine accepted the change.
	OutcomeApplied Outcome = "applied"
	// OutcomeRejected means validation or the engine refused the change.
	OutcomeRejected Outcome = "rejected"
	// OutcomeAborted means the context ended before the change was confirmed.
	OutcomeAborted Outcome = "aborted"
)

// Report describes one executed command.
type Report struct {
	Command   string
	Operation string
	Target    Target
	Outcome   Outcome
	Err       error
	Elapsed   time.Duration
}

// Reporter is called once per Execute, including rejected messages.
type Reporter[T command.Message] func(ctx context.Context, msg T, report Report)

// logReporter writes command.<outcome> entries to logger.
func logReporter[T command.Message](logger interfaces.Logger) Reporter[T] {
	return func(_ context.Context, _ T, report Report) {
		args := []any{"elapsed_ms", report.Elapsed.Milliseconds()}
		switch report.Outcome {
		case OutcomeApplied:
			logger.Info("command.applied", args...)
		case OutcomeAborted:
			logger.Warn("command.aborted", append(args, "error", report.Err)...)
		default:
			logger.Error("command.rejected", append(args, "error", report.Err)...)
		}
	}
}
