// Package apperrors holds the error classes shared across gsmul and the exit
// codes they map to. Operand problems from the digits package all match
// ErrInvalidInput through Unwrap, so callers can classify them with errors.Is.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Success.
	ExitErrorGeneric  = 1   // Unclassified failure.
	ExitErrorTimeout  = 2   // The -timeout deadline was reached.
	ExitErrorMismatch = 3   // Two multipliers returned different products.
	ExitErrorConfig   = 4   // Bad flags or environment.
	ExitErrorInput    = 5   // Malformed operands: bad digit, base or text.
	ExitErrorCanceled = 130 // Interrupted by SIGINT/SIGTERM.
)

// ErrInvalidInput is the sentinel matched by every malformed-operand error:
// a digit outside [0, base), a base out of range, an empty digit sequence or
// unparsable operand text.
var ErrInvalidInput = errors.New("invalid input")

// ConfigError reports flags or environment values the program cannot run with.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ServerError reports a failure of the HTTP server itself, as opposed to a
// failed request.
type ServerError struct {
	Message string
	// Cause may be nil.
	Cause error
}

func (e ServerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError wraps cause, which may be nil, with a description of what
// the server was doing.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError reports a value rejected before any digit is looked at,
// such as a negative integer handed to a digit conversion. It matches
// ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// IsContextError reports whether err comes from a canceled or expired context.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode classifies err into one of the Exit* codes. A nil error is
// ExitSuccess.
func ExitCode(err error) int {
	var cfgErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, ErrInvalidInput):
		return ExitErrorInput
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}
