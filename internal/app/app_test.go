package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/gsmul/internal/config"
	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/orchestration"
	"github.com/agbru/gsmul/internal/testutil"
)

// realFactory serves the built-in multipliers.
func realFactory() multiplier.Factory {
	global := multiplier.GlobalFactory()
	return multiplier.NewTestFactory(map[string]multiplier.Multiplier{
		"schoolbook": global.MustGet("schoolbook"),
		"reference":  global.MustGet("reference"),
	})
}

// blockingFactory serves one multiplier that waits for its context.
func blockingFactory() multiplier.Factory {
	return multiplier.NewTestFactory(map[string]multiplier.Multiplier{
		"schoolbook": &multiplier.MockMultiplier{
			Fn: func(ctx context.Context, _, _ digits.Digits, _ multiplier.Options) (digits.Digits, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	})
}

func baseConfig() config.AppConfig {
	return config.AppConfig{
		X:       "1024",
		Y:       "16",
		Base:    10,
		Algo:    "schoolbook",
		Timeout: time.Minute,
		NoColor: true,
	}
}

func newTestApp(cfg config.AppConfig, factory multiplier.Factory) (*Application, *bytes.Buffer) {
	var errBuf bytes.Buffer
	return &Application{Config: cfg, Factory: factory, ErrWriter: &errBuf}, &errBuf
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	// Not parallel: New reconfigures the global logger.
	t.Run("Valid args create application", func(t *testing.T) {
		var errBuf bytes.Buffer
		app, err := New([]string{"gsmul", "-x", "1024", "-y", "16", "-base", "16"}, &errBuf)
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app.Config.X != "1024" || app.Config.Base != 16 {
			t.Errorf("Unexpected config %+v", app.Config)
		}
		if app.Factory == nil {
			t.Error("Factory should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		var errBuf bytes.Buffer
		if _, err := New([]string{"gsmul", "-x", "1"}, &errBuf); err == nil {
			t.Error("New() should reject a missing -y")
		}
	})

	t.Run("Help returns ErrHelp", func(t *testing.T) {
		var errBuf bytes.Buffer
		_, err := New([]string{"gsmul", "-h"}, &errBuf)
		if !IsHelpError(err) {
			t.Errorf("Expected help error, got %v", err)
		}
	})

	t.Run("Empty args use default program name", func(t *testing.T) {
		var errBuf bytes.Buffer
		_, err := New(nil, &errBuf)
		if err == nil {
			t.Fatal("Operands are required outside server and REPL modes")
		}
		if !strings.Contains(errBuf.String(), "gsmul") {
			t.Errorf("Usage should name the default program. Got:\n%s", errBuf.String())
		}
	})
}

// TestApplicationRun tests the Application.Run method.
func TestApplicationRun(t *testing.T) {
	t.Parallel()

	t.Run("Simple execution with success", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Details = true
		app, _ := newTestApp(cfg, realFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		for _, want := range []string{"Multiplying 4 by 2 digits in base 10", "x * y = 16384", "Global Status: Success"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q. Output:\n%s", want, output)
			}
		}
	})

	t.Run("Parallel comparison with success", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Algo = config.AllAlgos
		cfg.X, cfg.Y = "ff", "ff"
		cfg.Base = 16
		app, _ := newTestApp(cfg, realFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		for _, want := range []string{"Comparison Summary", "Parallel comparison of 2 algorithms", "x * y = fe01"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q. Output:\n%s", want, output)
			}
		}
	})

	t.Run("Invalid operand", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.X = "12z"
		app, errBuf := newTestApp(cfg, realFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorInput {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorInput, code)
		}
		if !strings.Contains(errBuf.String(), "operand x") {
			t.Errorf("Error output should name the operand. Got %q", errBuf.String())
		}
	})

	t.Run("Timeout failure", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Timeout = time.Millisecond
		app, _ := newTestApp(cfg, blockingFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d (timeout), got %d", apperrors.ExitErrorTimeout, code)
		}
		if output := testutil.StripAnsiCodes(outBuf.String()); !strings.Contains(output, "Timeout") {
			t.Errorf("Output should mention timeout. Output:\n%s", output)
		}
	})

	t.Run("Context cancellation", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		app, _ := newTestApp(baseConfig(), blockingFactory())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if code := app.Run(ctx, &outBuf); code != apperrors.ExitErrorCanceled {
			t.Errorf("Expected exit code %d (canceled), got %d", apperrors.ExitErrorCanceled, code)
		}
	})

	t.Run("JSON output mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.JSONOutput = true
		app, _ := newTestApp(cfg, realFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		var results []jsonResult
		if err := json.Unmarshal(outBuf.Bytes(), &results); err != nil {
			t.Fatalf("Output is not a JSON array: %v\n%s", err, outBuf.String())
		}
		if len(results) != 1 || results[0].Text != "16384" || results[0].Algorithm == "" {
			t.Errorf("Unexpected JSON results %+v", results)
		}
	})

	t.Run("Quiet mode", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Quiet = true
		app, _ := newTestApp(cfg, realFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
			t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
		}
		if got := outBuf.String(); got != "16384\n" {
			t.Errorf("Quiet output = %q, want %q", got, "16384\n")
		}
	})

	t.Run("Quiet mode failure goes to stderr", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Quiet = true
		cfg.Timeout = time.Millisecond
		app, errBuf := newTestApp(cfg, blockingFactory())

		if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorTimeout {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorTimeout, code)
		}
		if outBuf.Len() != 0 {
			t.Errorf("Quiet mode should print nothing on stdout, got %q", outBuf.String())
		}
		if !strings.Contains(errBuf.String(), "Timeout") {
			t.Errorf("Expected timeout on stderr, got %q", errBuf.String())
		}
	})
}

// TestInconsistentProducts checks that disagreeing multipliers yield
// ExitErrorMismatch in every output mode.
func TestInconsistentProducts(t *testing.T) {
	t.Parallel()
	factory := multiplier.NewTestFactory(map[string]multiplier.Multiplier{
		"schoolbook": &multiplier.MockMultiplier{Result: digits.Digits{6}},
		"reference":  &multiplier.MockMultiplier{Result: digits.Digits{7}},
	})

	modes := map[string]func(*config.AppConfig){
		"table": func(*config.AppConfig) {},
		"quiet": func(c *config.AppConfig) { c.Quiet = true },
		"json":  func(c *config.AppConfig) { c.JSONOutput = true },
	}
	for name, apply := range modes {
		apply := apply
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := baseConfig()
			cfg.X, cfg.Y = "2", "3"
			cfg.Check = true
			apply(&cfg)
			app, _ := newTestApp(cfg, factory)

			var outBuf bytes.Buffer
			if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorMismatch {
				t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorMismatch, code)
			}
		})
	}
}

// TestOutputFile checks that the product is saved in table and quiet modes.
func TestOutputFile(t *testing.T) {
	t.Parallel()

	for _, quiet := range []bool{false, true} {
		quiet := quiet
		t.Run(fmt.Sprintf("quiet=%v", quiet), func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "out", "product.txt")
			cfg := baseConfig()
			cfg.Quiet = quiet
			cfg.OutputFile = path
			app, _ := newTestApp(cfg, realFactory())

			var outBuf bytes.Buffer
			if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
				t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
			}
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Output file not written: %v", err)
			}
			if !strings.Contains(string(content), "16384") {
				t.Errorf("Saved file lacks the product:\n%s", content)
			}
			if saved := strings.Contains(outBuf.String(), "Result saved to"); saved == quiet {
				t.Errorf("Save notice printed=%v in quiet=%v mode", saved, quiet)
			}
		})
	}
}

func TestOutputFileError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := baseConfig()
	cfg.OutputFile = filepath.Join(blocker, "product.txt")
	app, errBuf := newTestApp(cfg, realFactory())

	var outBuf bytes.Buffer
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorGeneric {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorGeneric, code)
	}
	if !strings.Contains(errBuf.String(), "Error saving result") {
		t.Errorf("Expected save error on stderr, got %q", errBuf.String())
	}
}

// TestIsHelpError tests the IsHelpError function.
func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if !IsHelpError(flag.ErrHelp) {
		t.Error("flag.ErrHelp should be a help error")
	}
	if !IsHelpError(fmt.Errorf("wrapped: %w", flag.ErrHelp)) {
		t.Error("wrapped flag.ErrHelp should be a help error")
	}
	if IsHelpError(errors.New("other")) || IsHelpError(nil) {
		t.Error("other errors are not help errors")
	}
}

func TestRunCompletion(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Completion = "bash"
	app, _ := newTestApp(cfg, realFactory())

	var outBuf bytes.Buffer
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
	}
	if !strings.Contains(outBuf.String(), "reference schoolbook") {
		t.Errorf("Completion should list the algorithms. Got:\n%s", outBuf.String())
	}
}

func TestRunCompletionInvalid(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Completion = "tcsh"
	app, errBuf := newTestApp(cfg, realFactory())

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, code)
	}
	if !strings.Contains(errBuf.String(), "unsupported shell") {
		t.Errorf("Unexpected error output %q", errBuf.String())
	}
}

func TestPrintJSONResults(t *testing.T) {
	t.Parallel()
	results := []orchestration.MultiplicationResult{
		{Name: "schoolbook", Product: digits.Digits{1, 255}, Duration: time.Millisecond},
		{Name: "broken", Err: errors.New("intentional failure")},
	}

	var outBuf bytes.Buffer
	if code := printJSONResults(results, 256, &outBuf, &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
	}

	var decoded []jsonResult
	if err := json.Unmarshal(outBuf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded[0].Text != "1:255" || len(decoded[0].Product) != 2 {
		t.Errorf("Unexpected success entry %+v", decoded[0])
	}
	if decoded[1].Error != "intentional failure" || decoded[1].Product != nil {
		t.Errorf("Unexpected failure entry %+v", decoded[1])
	}
}

func TestPrintJSONResultsAllFailed(t *testing.T) {
	t.Parallel()
	results := []orchestration.MultiplicationResult{
		{Name: "schoolbook", Err: context.DeadlineExceeded},
	}
	if code := printJSONResults(results, 10, &bytes.Buffer{}, &bytes.Buffer{}); code != apperrors.ExitErrorTimeout {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorTimeout, code)
	}
}

// brokenWriter fails every write.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintJSONResultsEncodeError(t *testing.T) {
	t.Parallel()
	results := []orchestration.MultiplicationResult{
		{Name: "schoolbook", Product: digits.Digits{4}, Duration: time.Millisecond},
	}

	var errBuf bytes.Buffer
	if code := printJSONResults(results, 10, brokenWriter{}, &errBuf); code != apperrors.ExitErrorGeneric {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorGeneric, code)
	}
	if !strings.Contains(errBuf.String(), "Error encoding JSON: disk full") {
		t.Errorf("Encoding failure not reported to the error writer: %q", errBuf.String())
	}
}

func TestRunREPL(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.Interactive = true
	cfg.Algo = config.AllAlgos
	app, _ := newTestApp(cfg, realFactory())
	app.In = strings.NewReader("12 * 12\nexit\n")

	var outBuf bytes.Buffer
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, code)
	}
	output := testutil.StripAnsiCodes(outBuf.String())
	for _, want := range []string{"144", "Goodbye!"} {
		if !strings.Contains(output, want) {
			t.Errorf("REPL output should contain %q. Output:\n%s", want, output)
		}
	}
}

func TestRunServerPortInUse(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.ServerMode = true
	cfg.Port = "-1"
	app, errBuf := newTestApp(cfg, realFactory())

	if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorGeneric {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorGeneric, code)
	}
	if !strings.Contains(errBuf.String(), "Server error") {
		t.Errorf("Unexpected error output %q", errBuf.String())
	}
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("Timeout", func(t *testing.T) {
		ctx, release := SetupLifecycle(context.Background(), 10*time.Millisecond)
		defer release()
		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				t.Errorf("Expected deadline exceeded, got %v", ctx.Err())
			}
		case <-time.After(time.Second):
			t.Error("Context was not canceled by the timeout")
		}
	})

	t.Run("No timeout", func(t *testing.T) {
		ctx, release := SetupLifecycle(context.Background(), 0)
		if _, ok := ctx.Deadline(); ok {
			t.Error("A zero timeout should not set a deadline")
		}
		release()
		if ctx.Err() == nil {
			t.Error("release should cancel the context")
		}
	})

	t.Run("Parent cancellation", func(t *testing.T) {
		parent, cancel := context.WithCancel(context.Background())
		ctx, release := SetupLifecycle(parent, time.Hour)
		defer release()
		cancel()
		<-ctx.Done()
		if !errors.Is(ctx.Err(), context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", ctx.Err())
		}
	})
}
