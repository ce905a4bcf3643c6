package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/agbru/gsmul/internal/multiplier"
	"github.com/agbru/gsmul/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultAlgo is the multiplier selected at startup.
	DefaultAlgo string
	// Timeout bounds each multiplication.
	Timeout time.Duration
	// Base is the initial radix of operands and products.
	Base int
	// Verbose prints products in full.
	Verbose bool
}

// REPL is an interactive multiplication session.
type REPL struct {
	config      REPLConfig
	registry    map[string]multiplier.Multiplier
	names       []string
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a REPL over the given multipliers. An empty or "all"
// default algorithm selects the first name in sorted order.
func NewREPL(registry map[string]multiplier.Multiplier, config REPLConfig) *REPL {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	currentAlgo := config.DefaultAlgo
	if _, ok := registry[currentAlgo]; !ok && len(names) > 0 {
		currentAlgo = names[0]
	}
	if config.Base == 0 {
		config.Base = digits.DefaultBase
	}

	return &REPL{
		config:      config,
		registry:    registry,
		names:       names,
		currentAlgo: currentAlgo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads and runs commands until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"mul> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input != "" && !r.processCommand(input) {
			return
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sGrade-School Multiplier - Interactive Mode%s             %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smul <x> <y>%s     - Multiply with the current algorithm\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sx * y%s           - Same as mul; use * between lists such as [1, 2] * [3]\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sbase <b>%s        - Change the base (%d to %d)\n", ui.ColorYellow(), ui.ColorReset(), digits.MinBase, digits.MaxBase)
	fmt.Fprintf(r.out, "  %salgo <name>%s     - Change algorithm (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.names, ", "))
	fmt.Fprintf(r.out, "  %scompare <x> <y>%s - Compare all algorithms\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s            - List available algorithms\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s          - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s            - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s     - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand runs one input line. It returns false when the session
// should end.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "mul", "m":
		r.cmdMul(rest)
	case "base", "b":
		r.cmdBase(parts[1:])
	case "algo", "a":
		r.cmdAlgo(parts[1:])
	case "compare", "cmp":
		r.cmdCompare(rest)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if xs, ys, ok := splitOperands(input); ok {
			r.multiply(xs, ys)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

// splitOperands splits "x * y" at the first '*', or "x y" when the line has
// exactly two fields. Both operands are empty when ok is false.
func splitOperands(s string) (string, string, bool) {
	if i := strings.IndexByte(s, '*'); i >= 0 {
		xs, ys := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		if xs == "" || ys == "" {
			return "", "", false
		}
		return xs, ys, true
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// parseOperands splits args and parses both operands in the session base,
// printing usage or the parse error on failure.
func (r *REPL) parseOperands(args, usage string) (digits.Digits, digits.Digits, bool) {
	xs, ys, ok := splitOperands(args)
	if !ok {
		fmt.Fprintf(r.out, "%sUsage: %s%s\n", ui.ColorRed(), usage, ui.ColorReset())
		return nil, nil, false
	}
	return r.parsePair(xs, ys)
}

func (r *REPL) parsePair(xs, ys string) (digits.Digits, digits.Digits, bool) {
	x, err := digits.Parse(xs, r.config.Base)
	if err == nil {
		var y digits.Digits
		if y, err = digits.Parse(ys, r.config.Base); err == nil {
			return x, y, true
		}
	}
	fmt.Fprintf(r.out, "%sInvalid operand: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	return nil, nil, false
}

func (r *REPL) cmdMul(args string) {
	xs, ys, ok := splitOperands(args)
	if !ok {
		fmt.Fprintf(r.out, "%sUsage: mul <x> <y>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	r.multiply(xs, ys)
}

// multiply runs the current algorithm on the operand texts with a spinner.
func (r *REPL) multiply(xs, ys string) {
	x, y, ok := r.parsePair(xs, ys)
	if !ok {
		return
	}
	m, ok := r.registry[r.currentAlgo]
	if !ok {
		fmt.Fprintf(r.out, "%sAlgorithm not found: %s%s\n", ui.ColorRed(), r.currentAlgo, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Multiplying %s%d%s by %s%d%s digits in base %d with %s%s%s...\n",
		ui.ColorMagenta(), len(x), ui.ColorReset(),
		ui.ColorMagenta(), len(y), ui.ColorReset(),
		r.config.Base, ui.ColorCyan(), m.Name(), ui.ColorReset())

	progressChan := make(chan multiplier.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	product, err := m.Multiply(ctx, progressChan, 0, x, y, multiplier.Options{Base: r.config.Base})
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Digits: %s%d%s\n", ui.ColorCyan(), len(product), ui.ColorReset())
	if !r.config.Verbose && len(product) > TruncationLimit {
		fmt.Fprintf(r.out, "  x * y = %s%s%s (truncated)\n", ui.ColorGreen(), truncatedProduct(product, r.config.Base), ui.ColorReset())
	} else {
		fmt.Fprintf(r.out, "  x * y = %s%s%s\n", ui.ColorGreen(), digits.Format(product, r.config.Base), ui.ColorReset())
		fmt.Fprintf(r.out, "  list  = %s\n", digits.FormatList(product))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdBase(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: base <b>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	b, err := strconv.Atoi(args[0])
	if err == nil {
		err = digits.ValidateBase(b)
	}
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid base: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.Base = b
	fmt.Fprintf(r.out, "Base changed to: %s%d%s\n", ui.ColorGreen(), b, ui.ColorReset())
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", strings.Join(r.names, ", "))
		return
	}

	name := strings.ToLower(args[0])
	m, ok := r.registry[name]
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown algorithm: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available algorithms: %s\n", strings.Join(r.names, ", "))
		return
	}

	r.currentAlgo = name
	fmt.Fprintf(r.out, "Algorithm changed to: %s%s%s\n", ui.ColorGreen(), m.Name(), ui.ColorReset())
}

// cmdCompare runs every algorithm on the same operands and flags products
// that differ from the first successful one.
func (r *REPL) cmdCompare(args string) {
	x, y, ok := r.parseOperands(args, "compare <x> <y>")
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for %d x %d digits in base %d:%s\n", ui.ColorBold(), len(x), len(y), r.config.Base, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	opts := multiplier.Options{Base: r.config.Base}
	var first digits.Digits

	for _, name := range r.names {
		m := r.registry[name]
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		product, err := m.Multiply(ctx, nil, 0, x, y, opts)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-12s%s: %sError - %v%s\n",
				ui.ColorYellow(), name, ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		if first == nil {
			first = product
		}
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if !product.Equal(first) {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}

		fmt.Fprintf(r.out, "  %s%-12s%s: %s%12s%s %s\n",
			ui.ColorYellow(), name, ui.ColorReset(),
			ui.ColorCyan(), FormatExecutionDuration(duration), ui.ColorReset(),
			status)
	}

	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable algorithms:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.names {
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-12s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), r.registry[name].Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Algorithm: %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Base:      %s%d%s\n", ui.ColorCyan(), r.config.Base, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:   %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	verbose := "no"
	if r.config.Verbose {
		verbose = "yes"
	}
	fmt.Fprintf(r.out, "  Verbose:   %s%s%s\n", ui.ColorCyan(), verbose, ui.ColorReset())
	fmt.Fprintln(r.out)
}
