// Package digits implements long multiplication of non-negative integers held
// as most-significant-first digit sequences in an arbitrary base.
//
// The package has no state: every function works on its arguments and
// returns freshly allocated results, so it is safe for concurrent use.
package digits

import "strconv"

const (
	// DefaultBase is the radix used when the caller does not pick one.
	DefaultBase = 10
	// MinBase is the smallest supported radix.
	MinBase = 2
	// MaxBase is the largest supported radix. It keeps the worst-case
	// intermediate value base²-1 far below the uint64 limit on every platform.
	MaxBase = 1 << 16
)

// Digits is a non-negative integer written in some base, most-significant
// digit first. The base is not stored; callers pass it alongside.
type Digits []int

// IsZero reports whether d represents the value zero. An empty sequence is
// not a valid number and is not considered zero.
func (d Digits) IsZero() bool {
	if len(d) == 0 {
		return false
	}
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether d and other hold exactly the same digits, leading
// zeros included.
func (d Digits) Equal(other Digits) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of d that shares no memory with it.
func (d Digits) Clone() Digits {
	if d == nil {
		return nil
	}
	c := make(Digits, len(d))
	copy(c, d)
	return c
}

// String renders d as a digit list such as "[1, 6, 3, 8, 4]".
func (d Digits) String() string {
	return FormatList(d)
}

// Normalize returns a copy of d without leading zeros. At least one digit is
// always kept, so the zero value comes back as [0]; an empty input also
// yields [0].
func Normalize(d Digits) Digits {
	trimmed := trimLeadingZeros(d)
	if len(trimmed) == 0 {
		return Digits{0}
	}
	return trimmed.Clone()
}

// trimLeadingZeros slices off leading zeros in one pass, keeping at least one
// digit. It does not copy.
func trimLeadingZeros(d Digits) Digits {
	start := 0
	for start < len(d)-1 && d[start] == 0 {
		start++
	}
	return d[start:]
}

// ValidateBase checks that base is within [MinBase, MaxBase].
func ValidateBase(base int) error {
	if base < MinBase || base > MaxBase {
		return &InvalidBaseError{Base: base}
	}
	return nil
}

// Validate checks that d is a usable operand in the given base: the base must
// be in range, d must not be empty and every digit must lie in [0, base).
// The operand name is carried into the returned error to tell callers which
// input was at fault.
func Validate(d Digits, base int, operand string) error {
	if err := ValidateBase(base); err != nil {
		return err
	}
	if len(d) == 0 {
		return &EmptyInputError{Operand: operand}
	}
	for i, v := range d {
		if v < 0 || v >= base {
			return &InvalidDigitError{Operand: operand, Index: i, Digit: v, Base: base}
		}
	}
	return nil
}

// operandName returns the label used in errors for the i-th operand.
func operandName(i int) string {
	switch i {
	case 0:
		return "x"
	case 1:
		return "y"
	default:
		return "operand " + strconv.Itoa(i)
	}
}
