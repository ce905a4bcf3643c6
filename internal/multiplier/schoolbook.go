package multiplier

import (
	"context"

	"github.com/agbru/gsmul/internal/digits"
)

// SchoolbookMultiplier is the grade-school long multiplication from package
// digits, run with progress reporting and cancellation between passes over
// the multiplicant.
type SchoolbookMultiplier struct{}

// Name returns the name of the algorithm.
func (s *SchoolbookMultiplier) Name() string {
	return "Schoolbook (long multiplication)"
}

// MultiplyCore multiplies x and y digit by digit. The context is checked
// after each outer pass, so a canceled run stops within one pass and returns
// ctx.Err() with no partial product.
func (s *SchoolbookMultiplier) MultiplyCore(ctx context.Context, reporter ProgressReporter, x, y digits.Digits, opts Options) (digits.Digits, error) {
	report := throttledReporter(reporter)
	return digits.MultiplyObserved(x, y, opts.Base, func(done, total int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		report(done, total)
		return nil
	})
}
