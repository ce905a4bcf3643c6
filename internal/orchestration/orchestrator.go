// Package orchestration runs one or more multipliers on the same operands
// concurrently and reports on their agreement.
package orchestration

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/gsmul/internal/cli"
	"github.com/agbru/gsmul/internal/config"
	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/ui"
)

// MultiplicationResult is the outcome of one multiplier run. Product is nil
// whenever Err is set.
type MultiplicationResult struct {
	Name     string
	Product  digits.Digits
	Duration time.Duration
	Err      error
}

// ProgressBufferMultiplier is the progress channel capacity per multiplier.
// Updates that do not fit are dropped by the multipliers.
const ProgressBufferMultiplier = 5

// ExecuteMultiplications runs every multiplier on x and y in cfg.Base at the
// same time while their combined progress is drawn on out. Each run gets its
// own result, in the order of multipliers; a failing run does not stop the
// others.
func ExecuteMultiplications(ctx context.Context, multipliers []multiplier.Multiplier, x, y digits.Digits, cfg config.AppConfig, out io.Writer) []MultiplicationResult {
	progress := make(chan multiplier.ProgressUpdate, len(multipliers)*ProgressBufferMultiplier)
	var display sync.WaitGroup
	display.Add(1)
	go cli.DisplayProgress(&display, progress, len(multipliers), out)

	opts := cfg.ToMultiplicationOptions()
	results := make([]MultiplicationResult, len(multipliers))
	var runs errgroup.Group
	for i, m := range multipliers {
		i, m := i, m
		runs.Go(func() error {
			start := time.Now()
			product, err := m.Multiply(ctx, progress, i, x, y, opts)
			results[i] = MultiplicationResult{Name: m.Name(), Product: product, Duration: time.Since(start), Err: err}
			// Run failures are reported through results, never through the group.
			return nil
		})
	}
	_ = runs.Wait()

	close(progress)
	display.Wait()
	return results
}

// bySuccessThenSpeed orders successful runs first, fastest first.
func bySuccessThenSpeed(a, b MultiplicationResult) int {
	if (a.Err == nil) != (b.Err == nil) {
		if a.Err == nil {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Duration, b.Duration)
}

// AnalyzeComparisonResults sorts results in place (successes first, then by
// duration), prints a comparison table to out and then the product when all
// successful runs agree. It returns ExitErrorMismatch when they disagree and
// the code of the first error when every run failed.
func AnalyzeComparisonResults(results []MultiplicationResult, cfg config.AppConfig, out io.Writer) int {
	slices.SortStableFunc(results, bySuccessThenSpeed)

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	writeSummaryTable(results, out)

	if len(results) == 0 || results[0].Err != nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the multiplication.\n")
		var first error
		if len(results) > 0 {
			first = results[0].Err
		}
		return apperrors.HandleCalculationError(first, 0, out, cli.CLIColorProvider{})
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Err == nil && !r.Product.Equal(best.Product) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the products of the algorithms.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid products are consistent.\n")
	cli.DisplayResult(best.Product, cfg.Base, best.Duration, cfg.Verbose, cfg.Details, out)
	return apperrors.ExitSuccess
}

func writeSummaryTable(results []MultiplicationResult, out io.Writer) {
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sStatus%s\n", u, r, u, r, u, r)
	for _, res := range results {
		status := ui.ColorGreen() + "✅ Success" + r
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, r)
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, r,
			ui.ColorYellow(), cli.FormatExecutionDuration(res.Duration), r,
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}
}

// FindBestResult returns the fastest successful result, or nil when every
// run failed. results is not reordered.
func FindBestResult(results []MultiplicationResult) *MultiplicationResult {
	var best *MultiplicationResult
	for i := range results {
		r := &results[i]
		if r.Err == nil && (best == nil || r.Duration < best.Duration) {
			best = r
		}
	}
	return best
}
