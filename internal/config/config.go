// Package config defines the gsmul configuration, parses it from command-line
// flags and GSMUL_ environment variables, and validates it.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/multiplier"
)

// EnvPrefix is the prefix of every environment variable read by gsmul.
const EnvPrefix = "GSMUL_"

// Default configuration values. Flags and environment variables override
// them.
const (
	// DefaultBase is the radix of operands and product.
	DefaultBase = digits.DefaultBase
	// DefaultTimeout bounds a one-shot multiplication.
	DefaultTimeout = time.Minute
	// DefaultPort is the server port.
	DefaultPort = "8080"
	// DefaultAlgo is the multiplier used when none is selected.
	DefaultAlgo = "schoolbook"
	// AllAlgos runs every registered multiplier and compares their products.
	AllAlgos = "all"
	// ReferenceAlgo is the multiplier added by -check.
	ReferenceAlgo = "reference"
	// DefaultMaxDigits caps the length of each operand accepted by the server.
	DefaultMaxDigits = 100_000
)

// AppConfig aggregates the parsed configuration.
type AppConfig struct {
	// X and Y are the operands as typed by the user: a numeral ("1024",
	// "ff") or a digit list ("[1, 0, 2, 4]", "12:0:255").
	X, Y string
	// Base is the radix of both operands and of the product.
	Base int
	// Algo is a registered multiplier name or "all".
	Algo string
	// Check also runs the reference multiplier and compares products.
	Check bool
	// Timeout bounds a one-shot run.
	Timeout time.Duration
	// Verbose prints the full product however long it is, and enables
	// debug logging.
	Verbose bool
	// Details adds digit counts and timing to the report.
	Details bool
	// JSONOutput prints results as JSON.
	JSONOutput bool
	// Quiet prints only the product.
	Quiet bool
	// OutputFile, if set, receives the product.
	OutputFile string
	// ServerMode starts the HTTP API instead of a one-shot run.
	ServerMode bool
	// Port is the server listen port.
	Port string
	// MaxDigits caps each operand's length in server mode. Zero means no
	// limit.
	MaxDigits int
	// Interactive starts the REPL.
	Interactive bool
	// Completion names a shell to print a completion script for.
	Completion string
	// NoColor disables colored output. NO_COLOR is honored as well.
	NoColor bool
}

// ToMultiplicationOptions converts the configuration into engine options.
func (c AppConfig) ToMultiplicationOptions() multiplier.Options {
	return multiplier.Options{Base: c.Base}
}

// oneShot reports whether the configuration describes a single
// multiplication run from the command line.
func (c AppConfig) oneShot() bool {
	return !c.ServerMode && !c.Interactive && c.Completion == ""
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableAlgos: The registered multiplier names.
//
// Returns:
//   - error: An apperrors.ConfigError describing the first problem, or nil.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if err := digits.ValidateBase(c.Base); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if c.MaxDigits < 0 {
		return apperrors.NewConfigError("max digits cannot be negative: %d", c.MaxDigits)
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != AllAlgos && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if c.oneShot() && (strings.TrimSpace(c.X) == "" || strings.TrimSpace(c.Y) == "") {
		return apperrors.NewConfigError("both operands -x and -y are required")
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags that were not set, and validates the result. Errors and usage go
// to errorWriter. flag.ErrHelp is returned unchanged for -h; validation
// failures wrap an apperrors.ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Multiplier to use: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.StringVar(&config.X, "x", "", "First operand: a numeral (1024, ff) or a digit list ([1, 0, 2, 4], 12:0:255).")
	fs.StringVar(&config.Y, "y", "", "Second operand, same notation as -x.")
	fs.IntVar(&config.Base, "base", DefaultBase, fmt.Sprintf("Base of operands and product, from %d to %d.", digits.MinBase, digits.MaxBase))
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.BoolVar(&config.Check, "check", false, "Also run the reference multiplier and compare products.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the multiplication.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full product (can be very long) and debug logs.")
	fs.BoolVar(&config.Details, "d", false, "Display digit counts and timing details.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - print only the product.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the product.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxDigits, "max-digits", DefaultMaxDigits, "Maximum digits per operand in server mode (0 for no limit).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
