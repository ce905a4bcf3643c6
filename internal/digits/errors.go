package digits

import (
	"fmt"

	apperrors "github.com/agbru/gsmul/internal/errors"
)

// InvalidDigitError reports a digit outside [0, base).
type InvalidDigitError struct {
	// Operand names the offending input ("x", "y").
	Operand string
	// Index is the position of the digit, counted from the most-significant end.
	Index int
	// Digit is the rejected value.
	Digit int
	// Base is the radix the digit was checked against.
	Base int
}

func (e *InvalidDigitError) Error() string {
	msg := fmt.Sprintf("digit %d at index %d is outside [0, %d)", e.Digit, e.Index, e.Base)
	if e.Operand == "" {
		return msg
	}
	return "operand " + e.Operand + ": " + msg
}

// Unwrap lets callers match the error against apperrors.ErrInvalidInput.
func (e *InvalidDigitError) Unwrap() error { return apperrors.ErrInvalidInput }

// InvalidBaseError reports a radix outside [MinBase, MaxBase].
type InvalidBaseError struct {
	Base int
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("base %d is outside the supported range [%d, %d]", e.Base, MinBase, MaxBase)
}

// Unwrap lets callers match the error against apperrors.ErrInvalidInput.
func (e *InvalidBaseError) Unwrap() error { return apperrors.ErrInvalidInput }

// EmptyInputError reports a digit sequence with no digits.
type EmptyInputError struct {
	Operand string
}

func (e *EmptyInputError) Error() string {
	if e.Operand == "" {
		return "digit sequence is empty"
	}
	return fmt.Sprintf("operand %s: digit sequence is empty", e.Operand)
}

// Unwrap lets callers match the error against apperrors.ErrInvalidInput.
func (e *EmptyInputError) Unwrap() error { return apperrors.ErrInvalidInput }

// ParseError reports operand text that cannot be read as a digit sequence.
type ParseError struct {
	// Input is the text that was rejected.
	Input string
	// Pos is the byte offset of the problem within Input, or -1.
	Pos int
	// Reason says what was wrong.
	Reason string
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("cannot parse %q at offset %d: %s", e.Input, e.Pos, e.Reason)
	}
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// Unwrap lets callers match the error against apperrors.ErrInvalidInput.
func (e *ParseError) Unwrap() error { return apperrors.ErrInvalidInput }
