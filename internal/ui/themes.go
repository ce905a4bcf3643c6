// Package ui holds the color themes shared by the CLI, the REPL and the
// configuration usage text.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"
)

// ThemeEnv selects the theme ("dark" or "light") when colors are enabled.
const ThemeEnv = "GSMUL_THEME"

// Theme is a set of ANSI escape sequences. Every field of NoColorTheme is
// empty, so printing through it produces plain text.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// palette lists 256-color indexes in Theme field order, Primary to Info.
type palette [6]int

func fg(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }

func newTheme(name string, p palette) Theme {
	return Theme{
		Name:      name,
		Primary:   fg(p[0]),
		Secondary: fg(p[1]),
		Success:   fg(p[2]),
		Warning:   fg(p[3]),
		Error:     fg(p[4]),
		Info:      fg(p[5]),
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}
}

var (
	// DarkTheme is the default, tuned for dark backgrounds.
	DarkTheme = newTheme("dark", palette{39, 245, 82, 220, 196, 141})
	// LightTheme uses deeper shades that stay readable on light backgrounds.
	LightTheme   = newTheme("light", palette{27, 240, 28, 130, 124, 54})
	NoColorTheme = Theme{Name: "none"}
)

var current atomic.Pointer[Theme]

func init() { SetCurrentTheme(DarkTheme) }

// isTerminal and stdoutIsTerminal are replaced in tests.
var (
	isTerminal = func(f *os.File) bool {
		fd := f.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	stdoutIsTerminal = func() bool { return isTerminal(os.Stdout) }
)

// ThemeFor returns the current theme when w is a terminal and NO_COLOR is
// unset, and NoColorTheme otherwise. It serves output written before
// InitTheme runs.
func ThemeFor(w io.Writer) Theme {
	f, ok := w.(*os.File)
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor || !ok || !isTerminal(f) {
		return NoColorTheme
	}
	return GetCurrentTheme()
}

func GetCurrentTheme() Theme { return *current.Load() }

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) { current.Store(&t) }

// SetTheme activates "dark", "light" or "none". Other names mean dark.
func SetTheme(name string) { SetCurrentTheme(themeByName(name)) }

func themeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	}
	return DarkTheme
}

// InitTheme chooses the process theme. Colors are off when noColor is set,
// when NO_COLOR is present in the environment (https://no-color.org/) or
// when stdout is not a terminal. Otherwise GSMUL_THEME picks dark or light.
func InitTheme(noColor bool) {
	SetCurrentTheme(resolveTheme(noColor))
}

func resolveTheme(noColor bool) Theme {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	if noColor || noColorEnv || !stdoutIsTerminal() {
		return NoColorTheme
	}
	return themeByName(os.Getenv(ThemeEnv))
}
