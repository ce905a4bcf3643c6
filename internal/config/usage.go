package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/gsmul/internal/digits"
	"github.com/agbru/gsmul/internal/ui"
)

// usageExamples are appended to the program name in the help text.
var usageExamples = []string{
	"-x 1024 -y 16",
	"-x 111 -y 11 -base 2",
	"-x '12:0:255' -y '3:7' -base 256 -algo all",
	"-server -port 8080 -max-digits 10000",
}

// setCustomUsage replaces the flag package's help text with a themed one
// that also lists the environment variables.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() { writeUsage(fs.Output(), fs) }
}

func writeUsage(out io.Writer, fs *flag.FlagSet) {
	// Usage is printed before the theme is initialized.
	t := ui.ThemeFor(out)
	section := func(title string) {
		fmt.Fprintf(out, "\n%s%s:%s\n", t.Warning, title, t.Reset)
	}
	name := fs.Name()

	fmt.Fprintf(out, "\n%sGrade-School Multiplier%s\n", t.Bold, t.Reset)
	fmt.Fprintf(out, "Multiplies two digit sequences in any base from %d to %d.\n", digits.MinBase, digits.MaxBase)

	section("Usage")
	fmt.Fprintf(out, "  %s -x <digits> -y <digits> [flags]\n", name)

	section("Examples")
	for _, ex := range usageExamples {
		fmt.Fprintf(out, "  %s %s\n", name, ex)
	}

	section("Flags")
	fs.VisitAll(func(f *flag.Flag) {
		arg, help := flag.UnquoteUsage(f)
		sig := strings.TrimSpace("-" + f.Name + " " + arg)
		fmt.Fprintf(out, "  %s%-25s%s %s", t.Primary, sig, t.Reset, help)
		switch f.DefValue {
		case "", "0", "false":
		default:
			fmt.Fprintf(out, " %s(default %s)%s", t.Secondary, f.DefValue, t.Reset)
		}
		fmt.Fprintln(out)
	})

	section("Environment")
	keys := make([]string, len(envBindings))
	for i, b := range envBindings {
		keys[i] = EnvPrefix + b.key
	}
	fmt.Fprintf(out, "  Flags not given on the command line are read from %s.\n\n", strings.Join(keys, ", "))
}
