package multiplier

import (
	"context"
	"math/big"

	"github.com/agbru/gsmul/internal/digits"
)

// ReferenceMultiplier converts the operands to math/big integers, multiplies
// them there and converts the product back. It serves as the oracle the
// long-multiplication engine is cross-checked against.
type ReferenceMultiplier struct{}

// Name returns the name of the algorithm.
func (r *ReferenceMultiplier) Name() string {
	return "Reference (math/big)"
}

// MultiplyCore validates the operands like the long-multiplication engine
// does, so both report the same errors for the same input.
func (r *ReferenceMultiplier) MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error) {
	a, b, err := toBigOperands(x, y, opts.Base)
	if err != nil {
		return nil, err
	}
	reporter(0.5)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return digits.FromBigInt(new(big.Int).Mul(a, b), opts.Base)
}

// toBigOperands validates x and y and evaluates them in base.
func toBigOperands(x, y digits.Digits, base int) (*big.Int, *big.Int, error) {
	if err := digits.Validate(x, base, "x"); err != nil {
		return nil, nil, err
	}
	if err := digits.Validate(y, base, "y"); err != nil {
		return nil, nil, err
	}
	a, err := digits.ToBigInt(x, base)
	if err != nil {
		return nil, nil, err
	}
	b, err := digits.ToBigInt(y, base)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
