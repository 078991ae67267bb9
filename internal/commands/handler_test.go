package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/orkinosai25-org/mosaic/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "mosaic.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "mosaic.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

type placeLayoutMessage struct {
	SiteID string
	Layout string
}

func (placeLayoutMessage) Type() string { return "mosaic.test.layout.place" }

func (placeLayoutMessage) Validate() error { return nil }

func (m placeLayoutMessage) CommandTarget() Target {
	return Target{Kind: "layout", Name: m.Layout, SiteID: m.SiteID}
}

func TestHandlerReportsOutcomes(t *testing.T) {
	var reports []Report
	record := func(_ context.Context, _ testMessage, report Report) {
		reports = append(reports, report)
	}

	ok := NewHandler[testMessage](func(context.Context, testMessage) error { return nil },
		WithReporter[testMessage](record), WithOperation[testMessage]("layouts.register"))
	failing := NewHandler[testMessage](func(context.Context, testMessage) error { return errors.New("boom") },
		WithReporter[testMessage](record))

	_ = ok.Execute(context.Background(), testMessage{})
	_ = failing.Execute(context.Background(), testMessage{})

	if len(reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(reports))
	}
	if reports[0].Outcome != OutcomeApplied || reports[0].Operation != "layouts.register" || reports[0].Command != "mosaic.test.message" {
		t.Fatalf("unexpected applied report %#v", reports[0])
	}
	if reports[0].Target != (Target{}) {
		t.Fatalf("expected untargeted message to report empty target, got %#v", reports[0].Target)
	}
	if reports[1].Outcome != OutcomeRejected || reports[1].Err == nil {
		t.Fatalf("unexpected rejected report %#v", reports[1])
	}
}

func TestHandlerReportsRejectedValidation(t *testing.T) {
	var reports []Report
	h := NewHandler[invalidMessage](func(context.Context, invalidMessage) error { return nil },
		WithReporter[invalidMessage](func(_ context.Context, _ invalidMessage, report Report) {
			reports = append(reports, report)
		}))

	_ = h.Execute(context.Background(), invalidMessage{})
	if len(reports) != 1 || reports[0].Outcome != OutcomeRejected {
		t.Fatalf("expected one rejected report, got %#v", reports)
	}
	if !goerrors.IsCategory(reports[0].Err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", reports[0].Err)
	}
}

func TestHandlerReportsAbortedOnTimeout(t *testing.T) {
	var got Report
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	}, WithTimeout[testMessage](5*time.Millisecond), WithReporter[testMessage](func(_ context.Context, _ testMessage, report Report) {
		got = report
	}))

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected timeout error")
	}
	if got.Outcome != OutcomeAborted {
		t.Fatalf("expected aborted outcome, got %q", got.Outcome)
	}
}

func TestHandlerLogsTargetFields(t *testing.T) {
	rec := &fieldsLogger{}
	var got Report
	h := NewHandler[placeLayoutMessage](func(context.Context, placeLayoutMessage) error { return nil },
		WithLogger[placeLayoutMessage](rec),
		WithOperation[placeLayoutMessage]("layouts.place"),
		WithReporter[placeLayoutMessage](func(_ context.Context, _ placeLayoutMessage, report Report) {
			got = report
		}))

	if err := h.Execute(context.Background(), placeLayoutMessage{SiteID: "site-1", Layout: "two-column"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Target != (Target{Kind: "layout", Name: "two-column", SiteID: "site-1"}) {
		t.Fatalf("unexpected target %#v", got.Target)
	}
	if len(rec.fields) != 1 {
		t.Fatalf("expected one fields call, got %d", len(rec.fields))
	}
	want := map[string]any{
		"command":     "mosaic.test.layout.place",
		"operation":   "layouts.place",
		"target_kind": "layout",
		"target":      "two-column",
		"site_id":     "site-1",
	}
	for key, value := range want {
		if rec.fields[0][key] != value {
			t.Fatalf("field %s: expected %v, got %v", key, value, rec.fields[0][key])
		}
	}
}

func TestHandlerWithoutTimeoutKeepsCallerDeadline(t *testing.T) {
	var hasDeadline bool
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	})
	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if hasDeadline {
		t.Fatal("expected no deadline without WithTimeout")
	}
}

type fieldsLogger struct {
	fields []map[string]any
}

func (l *fieldsLogger) Debug(string, ...any) {}
func (l *fieldsLogger) Info(string, ...any)  {}
func (l *fieldsLogger) Warn(string, ...any)  {}
func (l *fieldsLogger) Error(string, ...any) {}

func (l *fieldsLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.fields = append(l.fields, fields)
	return l
}

func TestWrapNotFoundCategory(t *testing.T) {
	err := WrapNotFound(errors.New("missing"), "theme not found")
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	if WrapNotFound(nil, "x") != nil {
		t.Fatal("expected nil passthrough")
	}
}
