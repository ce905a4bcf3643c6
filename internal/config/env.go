package config

import (
	"flag"
	"os"
	"strings"
)

// envBinding ties a GSMUL_ variable to a flag and its aliases. The aliases
// share one destination, so the first name is the one that gets assigned.
type envBinding struct {
	key   string
	flags []string
}

var envBindings = []envBinding{
	{"X", []string{"x"}},
	{"Y", []string{"y"}},
	{"BASE", []string{"base"}},
	{"ALGO", []string{"algo"}},
	{"CHECK", []string{"check"}},
	{"TIMEOUT", []string{"timeout"}},
	{"VERBOSE", []string{"v"}},
	{"DETAILS", []string{"d", "details"}},
	{"JSON", []string{"json"}},
	{"QUIET", []string{"quiet", "q"}},
	{"OUTPUT", []string{"output", "o"}},
	{"SERVER", []string{"server"}},
	{"PORT", []string{"port"}},
	{"MAX_DIGITS", []string{"max-digits"}},
	{"INTERACTIVE", []string{"interactive"}},
	{"COMPLETION", []string{"completion"}},
	{"NO_COLOR", []string{"no-color"}},
}

// boolFlag matches the flag package's own check for boolean flags.
type boolFlag interface {
	flag.Value
	IsBoolFlag() bool
}

// applyEnvOverrides assigns GSMUL_ variables to the flags that were not
// given on the command line: flags win over the environment, which wins
// over defaults. Values the flag rejects are ignored and the previous value
// is kept. Boolean variables also accept yes and no.
func applyEnvOverrides(fs *flag.FlagSet) {
	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	for _, b := range envBindings {
		raw, ok := os.LookupEnv(EnvPrefix + b.key)
		if !ok || raw == "" || anyGiven(given, b.flags) {
			continue
		}
		f := fs.Lookup(b.flags[0])
		if f == nil {
			continue
		}
		if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
			raw = normalizeBool(raw)
		}
		previous := f.Value.String()
		if err := f.Value.Set(raw); err != nil {
			_ = f.Value.Set(previous)
		}
	}
}

func anyGiven(given map[string]bool, names []string) bool {
	for _, n := range names {
		if given[n] {
			return true
		}
	}
	return false
}

func normalizeBool(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return "true"
	case "no", "n", "off":
		return "false"
	}
	return s
}
