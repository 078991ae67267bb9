package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	codeValidation = "COMMAND_VALIDATION_FAILED"
	codeNotFound   = "COMMAND_TARGET_NOT_FOUND"
	codeCanceled   = "COMMAND_CONTEXT_CANCELED"
	codeTimeout    = "COMMAND_CONTEXT_TIMEOUT"
	codeContext    = "COMMAND_CONTEXT_ERROR"
	codeExecute    = "COMMAND_EXECUTION_FAILED"
)

// wrap categorises err once; already wrapped errors pass through.
func wrap(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

// WrapValidation tags err as a rejected layout, schema or message.
func WrapValidation(err error, message string) error {
	if message == "" {
		message = "command validation failed"
	}
	return wrap(err, goerrors.CategoryValidation, message, codeValidation)
}

// WrapNotFound tags err as a reference to an unregistered theme or template.
func WrapNotFound(err error, message string) error {
	return wrap(err, goerrors.CategoryNotFound, message, codeNotFound)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrap(err, goerrors.CategoryCommand, "command execution cancelled", codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded", codeTimeout)
	default:
		return wrap(err, goerrors.CategoryCommand, "command context error", codeContext)
	}
}

func wrapExecuteError(err error) error {
	return wrap(err, goerrors.CategoryCommand, "command execution failed", codeExecute)
}
