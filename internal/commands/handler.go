package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/orkinosai25-org/mosaic/internal/logging"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps an admin command with validation, an optional timeout,
// target-scoped logging and error categorisation. It satisfies go-command's
// Commander interface.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	reporter  Reporter[T]
	now       func() time.Time
}

// NewHandler creates a handler around fn. Without WithTimeout the command
// runs under the caller's context only.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:   fn,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, applies the timeout and delegates to the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := h.now()
	report := Report{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Target:    targetOf(msg),
	}

	fields := report.Target.fields()
	fields["command"] = report.Command
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	logger := logging.WithFields(logging.FromContext(ctx, h.logger), fields)
	finish := func(outcome Outcome, err error) error {
		report.Outcome = outcome
		report.Err = err
		report.Elapsed = h.now().Sub(started)
		if h.reporter != nil {
			h.reporter(ctx, msg, report)
		} else {
			logReporter[T](logger)(ctx, msg, report)
		}
		return err
	}

	if err := command.ValidateMessage(msg); err != nil {
		return finish(OutcomeRejected, WrapValidation(err, ""))
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return finish(OutcomeAborted, wrapContextError(err))
	}

	logger.Debug("command.start")
	if err := h.exec(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return finish(OutcomeAborted, wrapContextError(err))
		}
		return finish(OutcomeRejected, wrapExecuteError(err))
	}
	if err := ctx.Err(); err != nil {
		return finish(OutcomeAborted, wrapContextError(err))
	}
	return finish(OutcomeApplied, nil)
}

// WithTimeout bounds each execution, normally Config.Commands.Timeout.
// Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Or(logger)
	}
}

// WithOperation sets the operation name attached to every entry and report.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithReporter replaces the default logging reporter.
func WithReporter[T command.Message](reporter Reporter[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.reporter = reporter
	}
}
