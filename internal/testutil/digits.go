package testutil

import (
	"math/big"
	"testing"

	"github.com/agbru/gsmul/internal/digits"
)

// MustParse parses s in base with digits.Parse and fails the test on error.
func MustParse(tb testing.TB, s string, base int) digits.Digits {
	tb.Helper()
	d, err := digits.Parse(s, base)
	if err != nil {
		tb.Fatalf("parsing %q in base %d: %v", s, base, err)
	}
	return d
}

// ReferenceProduct multiplies x and y through math/big and returns the
// product's digits in base.
func ReferenceProduct(tb testing.TB, x, y digits.Digits, base int) digits.Digits {
	tb.Helper()
	bx, err := digits.ToBigInt(x, base)
	if err != nil {
		tb.Fatalf("converting x: %v", err)
	}
	by, err := digits.ToBigInt(y, base)
	if err != nil {
		tb.Fatalf("converting y: %v", err)
	}
	p, err := digits.FromBigInt(new(big.Int).Mul(bx, by), base)
	if err != nil {
		tb.Fatalf("converting product: %v", err)
	}
	return p
}
