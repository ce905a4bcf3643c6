//go:build gmp

// The GMP multiplier is opt-in: build with -tags=gmp and have libgmp
// installed (libgmp-dev on Debian/Ubuntu, `brew install gmp` on macOS).

package multiplier

import (
	"context"
	"math/big"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/ncw/gmp"
)

func init() {
	_ = RegisterMultiplier("gmp", func() coreMultiplier { return &GMPMultiplier{} })
}

// GMPMultiplier multiplies through libgmp. Like ReferenceMultiplier it is an
// oracle for cross-checking, but it stays fast for operands with millions of
// digits.
type GMPMultiplier struct{}

// Name returns the name of the algorithm.
func (g *GMPMultiplier) Name() string {
	return "GMP (libgmp)"
}

// MultiplyCore validates the operands, moves them into gmp.Int values and
// converts the product back to digits.
func (g *GMPMultiplier) MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error) {
	a, b, err := toBigOperands(x, y, opts.Base)
	if err != nil {
		return nil, err
	}

	ga := new(gmp.Int).SetBytes(a.Bytes())
	gb := new(gmp.Int).SetBytes(b.Bytes())
	reporter(0.25)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	product := new(gmp.Int).Mul(ga, gb)
	reporter(0.75)

	return digits.FromBigInt(new(big.Int).SetBytes(product.Bytes()), opts.Base)
}
