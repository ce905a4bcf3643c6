package apperrors

import (
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the terminal escape codes used in failure messages.
// It is implemented by the cli package, which this package cannot import.
type ColorProvider interface {
	Yellow() string
	Reset() string
}

// DefaultColorProvider emits no escape codes.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// HandleCalculationError prints a one-line status for a failed multiplication
// and returns the matching exit code from ExitCode. duration is mentioned
// when positive. colors may be nil.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	after := ""
	if duration > 0 {
		after = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", after)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), after, colors.Reset())
	case ExitErrorInput:
		fmt.Fprintf(out, "Status: Failure (Invalid input). %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
