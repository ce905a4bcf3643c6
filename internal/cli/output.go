package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/agbru/gsmul/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the product (empty for no file output).
	OutputFile string
	// Base is the radix of the product.
	Base int
	// Quiet prints only the product.
	Quiet bool
	// Verbose shows the full product.
	Verbose bool
	// Details adds timing and the digit list.
	Details bool
}

// WriteResultToFile writes a product and its operands to config.OutputFile,
// creating parent directories as needed. It is a no-op when no file is set.
//
// Parameters:
//   - x, y: The operands.
//   - product: The product.
//   - duration: The multiplication duration.
//   - algo: The multiplier name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(x, y, product digits.Digits, duration time.Duration, algo string, config OutputConfig) (err error) {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	fmt.Fprintf(file, "# Grade-School Multiplication Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# Base: %d\n", config.Base)
	fmt.Fprintf(file, "# X: %s\n", digits.Format(x, config.Base))
	fmt.Fprintf(file, "# Y: %s\n", digits.Format(y, config.Base))
	fmt.Fprintf(file, "# Digits: %d\n", len(product))
	fmt.Fprintf(file, "\n")
	_, err = fmt.Fprintf(file, "x * y =\n%s\n", digits.Format(product, config.Base))
	return err
}

// FormatQuietResult returns the product on a single line, for scripting.
func FormatQuietResult(product digits.Digits, base int) string {
	return digits.Format(product, base)
}

// DisplayQuietResult prints FormatQuietResult followed by a newline.
func DisplayQuietResult(out io.Writer, product digits.Digits, base int) {
	fmt.Fprintln(out, FormatQuietResult(product, base))
}

// DisplayResultWithConfig displays a product according to config and saves
// it when an output file is configured.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, x, y, product digits.Digits, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, product, config.Base)
	} else {
		DisplayResult(product, config.Base, duration, config.Verbose, config.Details, out)
	}

	if config.OutputFile != "" {
		if err := WriteResultToFile(x, y, product, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
		}
	}
	return nil
}
