// Package service exposes multiplication as a request-level operation with
// input limits, for use by the HTTP server.
package service

import (
	"context"
	"fmt"

	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/multiplier"
)

// ErrMaxDigitsExceeded is returned when an operand is longer than the
// configured limit. It matches apperrors.ErrInvalidInput.
var ErrMaxDigitsExceeded = fmt.Errorf("maximum operand length exceeded: %w", apperrors.ErrInvalidInput)

// Service multiplies operands with a named multiplier.
type Service interface {
	// Multiply runs algoName on x and y in base.
	//
	// Returns:
	//   - digits.Digits: The product.
	//   - error: An error if validation or the multiplication fails.
	Multiply(ctx context.Context, algoName string, x, y digits.Digits, base int) (digits.Digits, error)
}

// CalculatorService resolves multipliers through a factory and enforces a
// per-operand digit limit.
type CalculatorService struct {
	factory   multiplier.Factory
	maxDigits int
}

var _ Service = (*CalculatorService)(nil)

// NewCalculatorService creates a service. A maxDigits of 0 disables the
// length limit.
func NewCalculatorService(factory multiplier.Factory, maxDigits int) *CalculatorService {
	return &CalculatorService{
		factory:   factory,
		maxDigits: maxDigits,
	}
}

// MaxDigits returns the per-operand limit, 0 meaning unlimited.
func (s *CalculatorService) MaxDigits() int {
	return s.maxDigits
}

// Multiply checks operand lengths, retrieves the multiplier and runs it
// without progress reporting.
func (s *CalculatorService) Multiply(ctx context.Context, algoName string, x, y digits.Digits, base int) (digits.Digits, error) {
	if err := s.checkLength("x", x); err != nil {
		return nil, err
	}
	if err := s.checkLength("y", y); err != nil {
		return nil, err
	}

	m, err := s.factory.Get(algoName)
	if err != nil {
		return nil, err
	}

	return m.Multiply(ctx, nil, 0, x, y, multiplier.Options{Base: base})
}

func (s *CalculatorService) checkLength(operand string, d digits.Digits) error {
	if s.maxDigits > 0 && len(d) > s.maxDigits {
		return fmt.Errorf("operand %s has %d digits, limit is %d: %w", operand, len(d), s.maxDigits, ErrMaxDigitsExceeded)
	}
	return nil
}

// ParseOperands parses both operand texts in base with digits.Parse.
// Errors name the offending operand and match apperrors.ErrInvalidInput.
func ParseOperands(xs, ys string, base int) (x, y digits.Digits, err error) {
	if x, err = digits.Parse(xs, base); err != nil {
		return nil, nil, fmt.Errorf("operand x: %w", err)
	}
	if y, err = digits.Parse(ys, base); err != nil {
		return nil, nil, fmt.Errorf("operand y: %w", err)
	}
	return x, y, nil
}
