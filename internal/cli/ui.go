// Package cli renders multiplication progress and results on the terminal,
// and hosts the interactive REPL and shell completion scripts.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/ui"
	"github.com/briandowns/spinner"
)

const (
	// TruncationLimit is the product length above which the product is
	// shortened unless verbose output is requested.
	TruncationLimit = 100
	// DisplayEdges is how many digits a shortened product keeps at each end.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner and progress bar redraw period.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the progress bar, in cells.
	ProgressBarWidth = 40
)

// FormatExecutionDuration picks a unit suited to d: microseconds below a
// millisecond, milliseconds below a second, time.Duration's own format
// beyond.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return "< 1µs"
	case d < time.Millisecond:
		return strconv.FormatInt(d.Microseconds(), 10) + "µs"
	case d < time.Second:
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return d.String()
}

// Spinner is the part of briandowns/spinner that DisplayProgress drives.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner is replaced in tests.
var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress draws a spinner with the average progress and an ETA
// until progressChan is closed, then prints a final complete line. It runs
// in its own goroutine and calls wg.Done when it returns.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan multiplier.ProgressUpdate, numMultipliers int, out io.Writer) {
	defer wg.Done()
	if numMultipliers <= 0 {
		for range progressChan {
		}
		return
	}

	label := "Progress"
	if numMultipliers > 1 {
		label = "Avg progress"
	}
	state := NewProgressState(numMultipliers)
	eta := newETAEstimator(time.Now)

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintf(out, "%s: %s\n", label, progressLine(1, 0, ProgressBarWidth))
				return
			}
			state.Update(update.MultiplierIndex, update.Value)
			eta.observe(state.Average())
		case <-ticker.C:
			avg := state.Average()
			s.UpdateSuffix(fmt.Sprintf(" %s: %s", label, progressLine(avg, eta.remaining(avg), ProgressBarWidth)))
		}
	}
}

// DisplayResult prints product, written in base. Beyond TruncationLimit
// digits only both ends are shown, unless verbose is set. details adds the
// timing, the digit count and the digit list.
func DisplayResult(product digits.Digits, base int, duration time.Duration, verbose, details bool, out io.Writer) {
	n := len(product)
	count := groupThousands(n)
	accent := func(s string) string { return ui.ColorCyan() + s + ui.ColorReset() }
	heading := func(s string) {
		fmt.Fprintf(out, "\n%s--- %s ---%s\n", ui.ColorBold(), s, ui.ColorReset())
	}
	fits := verbose || n <= TruncationLimit

	fmt.Fprintf(out, "Product size: %s digits in base %s.\n", accent(count), accent(strconv.Itoa(base)))

	if details {
		heading("Detailed result analysis")
		fmt.Fprintf(out, "Multiplication time : %s%s%s\n", ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())
		fmt.Fprintf(out, "Number of digits    : %s\n", accent(count))
		if fits {
			fmt.Fprintf(out, "Digit list          : %s\n", accent(digits.FormatList(product)))
		}
	}

	heading("Product")
	if fits {
		fmt.Fprintf(out, "x * y = %s%s%s\n", ui.ColorGreen(), digits.Format(product, base), ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "x * y (truncated) = %s%s%s\n", ui.ColorGreen(), truncatedProduct(product, base), ui.ColorReset())
	fmt.Fprintf(out, "(Tip: use the %s-v%s option to display the full value)\n", ui.ColorYellow(), ui.ColorReset())
}

// truncatedProduct keeps DisplayEdges whole digits at each end of product.
func truncatedProduct(product digits.Digits, base int) string {
	n := len(product)
	if n <= 2*DisplayEdges {
		return digits.Format(product, base)
	}
	gap := "..."
	if base > digits.MaxNumeralBase {
		gap = ":...:"
	}
	return digits.Format(product[:DisplayEdges], base) + gap + digits.Format(product[n-DisplayEdges:], base)
}

// groupThousands writes n with comma separated groups of three digits.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
