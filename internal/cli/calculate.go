package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/gsmul/internal/config"
	"github.com/agbru/gsmul/internal/digits"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/ui"
)

// GetMultipliersToRun selects the multipliers for a run. "all" yields every
// registered multiplier in name order; otherwise the named one is returned,
// followed by the reference multiplier when cfg.Check is set.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The factory to retrieve implementations from.
//
// Returns:
//   - []multiplier.Multiplier: The multipliers to execute.
func GetMultipliersToRun(cfg config.AppConfig, factory multiplier.Factory) []multiplier.Multiplier {
	if cfg.Algo == config.AllAlgos {
		keys := factory.List()
		multipliers := make([]multiplier.Multiplier, 0, len(keys))
		for _, k := range keys {
			if m, err := factory.Get(k); err == nil {
				multipliers = append(multipliers, m)
			}
		}
		return multipliers
	}

	m, err := factory.Get(cfg.Algo)
	if err != nil {
		return nil
	}
	multipliers := []multiplier.Multiplier{m}
	if cfg.Check && cfg.Algo != config.ReferenceAlgo {
		if ref, err := factory.Get(config.ReferenceAlgo); err == nil {
			multipliers = append(multipliers, ref)
		}
	}
	return multipliers
}

// PrintExecutionConfig displays the operands, base, timeout and environment
// of the run.
func PrintExecutionConfig(cfg config.AppConfig, x, y digits.Digits, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Multiplying %s%d%s by %s%d%s digits in base %s%d%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), len(x), ui.ColorReset(),
		ui.ColorMagenta(), len(y), ui.ColorReset(),
		ui.ColorCyan(), cfg.Base, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode announces whether one multiplier runs alone or several
// are compared.
func PrintExecutionMode(multipliers []multiplier.Multiplier, out io.Writer) {
	var modeDesc string
	switch len(multipliers) {
	case 0:
		modeDesc = "No multiplier selected"
	case 1:
		modeDesc = fmt.Sprintf("Single multiplication with the %s%s%s algorithm",
			ui.ColorGreen(), multipliers[0].Name(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Parallel comparison of %d algorithms", len(multipliers))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
