package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/agbru/gsmul/internal/cli"
	"github.com/agbru/gsmul/internal/config"
	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/logging"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/orchestration"
	"github.com/agbru/gsmul/internal/server"
	"github.com/agbru/gsmul/internal/service"
	"github.com/agbru/gsmul/internal/ui"
)

// Application is one invocation of gsmul: a parsed configuration and the
// multipliers it can run.
type Application struct {
	Config  config.AppConfig
	Factory multiplier.Factory
	// ErrWriter receives diagnostics, usage and error reports.
	ErrWriter io.Writer
	// In feeds the REPL. Nil means os.Stdin.
	In io.Reader
}

// New parses args, whose first element is the program name, against the
// registered multipliers and configures the global logger. Flag and
// validation errors are returned after being reported on errWriter; -h
// yields an error for which IsHelpError is true.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := multiplier.GlobalFactory()

	programName := "gsmul"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	logging.ConfigureGlobal(errWriter, cfg.Verbose)

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run dispatches to the mode selected by the configuration (completion
// script, HTTP server, REPL, or a one-shot multiplication) and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	// Respects --no-color and NO_COLOR.
	ui.InitTheme(a.Config.NoColor)

	if a.Config.ServerMode {
		return a.runServer(ctx)
	}
	if a.Config.Interactive {
		return a.runREPL(out)
	}
	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServer serves the HTTP API until ctx ends or a termination signal.
func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL(out io.Writer) int {
	algo := a.Config.Algo
	if algo == config.AllAlgos {
		algo = config.DefaultAlgo
	}
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultAlgo: algo,
		Timeout:     a.Config.Timeout,
		Base:        a.Config.Base,
		Verbose:     a.Config.Verbose,
	})
	if a.In != nil {
		repl.SetInput(a.In)
	}
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalculate parses the operands, runs the selected multipliers and
// reports their products.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	x, y, err := service.ParseOperands(a.Config.X, a.Config.Y, a.Config.Base)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid operands: %v\n", err)
		return apperrors.ExitErrorInput
	}

	ctx, release := SetupLifecycle(ctx, a.Config.Timeout)
	defer release()

	multipliersToRun := cli.GetMultipliersToRun(a.Config, a.Factory)
	if len(multipliersToRun) == 0 {
		fmt.Fprintf(a.ErrWriter, "No multiplier registered under %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, x, y, out)
		cli.PrintExecutionMode(multipliersToRun, out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	results := orchestration.ExecuteMultiplications(ctx, multipliersToRun, x, y, a.Config, progressOut)

	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config.Base, out, a.ErrWriter)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Base:       a.Config.Base,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	return a.analyzeResultsWithOutput(results, x, y, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.MultiplicationResult, x, y digits.Digits, outputCfg cli.OutputConfig, out io.Writer) int {
	if outputCfg.Quiet {
		return a.analyzeQuiet(results, x, y, outputCfg, out)
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)
	if exitCode != apperrors.ExitSuccess || outputCfg.OutputFile == "" {
		return exitCode
	}

	best := orchestration.FindBestResult(results)
	if err := a.saveResult(best, x, y, outputCfg); err != nil {
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
		ui.ColorGreen(), ui.ColorCyan(), outputCfg.OutputFile, ui.ColorReset())
	return exitCode
}

// analyzeQuiet prints only the product, sending failures to ErrWriter.
func (a *Application) analyzeQuiet(results []orchestration.MultiplicationResult, x, y digits.Digits, outputCfg cli.OutputConfig, out io.Writer) int {
	best := orchestration.FindBestResult(results)
	if best == nil {
		return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	if !consistent(results, best.Product) {
		fmt.Fprintln(a.ErrWriter, "Inconsistent products between multipliers")
		return apperrors.ExitErrorMismatch
	}

	cli.DisplayQuietResult(out, best.Product, outputCfg.Base)
	if outputCfg.OutputFile != "" {
		if err := a.saveResult(best, x, y, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}
	}
	return apperrors.ExitSuccess
}

func (a *Application) saveResult(res *orchestration.MultiplicationResult, x, y digits.Digits, cfg cli.OutputConfig) error {
	if err := cli.WriteResultToFile(x, y, res.Product, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

func firstError(results []orchestration.MultiplicationResult) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}

func consistent(results []orchestration.MultiplicationResult, product digits.Digits) bool {
	for _, res := range results {
		if res.Err == nil && !res.Product.Equal(product) {
			return false
		}
	}
	return true
}

// IsHelpError checks if the error is a help flag error (--help was used).
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// jsonResult represents a single multiplication result in JSON format.
type jsonResult struct {
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
	Product   []int  `json:"product,omitempty"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// printJSONResults writes the results as an indented JSON array. The exit
// code reflects the outcome: ExitErrorMismatch for disagreeing products, the
// failure's code when every multiplier failed. Encoding failures are
// reported to errOut.
func printJSONResults(results []orchestration.MultiplicationResult, base int, out, errOut io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			Algorithm: res.Name,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Product = res.Product
			jr.Text = digits.Format(res.Product, base)
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		fmt.Fprintf(errOut, "Error encoding JSON: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	best := orchestration.FindBestResult(results)
	if best == nil {
		return apperrors.ExitCode(firstError(results))
	}
	if !consistent(results, best.Product) {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitSuccess
}
