package multiplier

import "github.com/agbru/gsmul/internal/digits"

// Options configures a multiplication.
type Options struct {
	// Base is the radix of both operands and of the product. Zero means
	// digits.DefaultBase.
	Base int
}

// normalizeOptions returns a copy of opts with defaults filled in.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.Base == 0 {
		normalized.Base = digits.DefaultBase
	}
	return normalized
}
