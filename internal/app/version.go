// Package app wires configuration, multipliers and output into the gsmul
// command: it parses flags, picks a mode (completion, server, REPL or one-shot
// multiplication) and maps outcomes to exit codes.
package app

import (
	"fmt"
	"io"
	"runtime"
)

// Build-time variables set via -ldflags:
//
//	go build -ldflags="-X github.com/agbru/gsmul/internal/app.Version=v1.0.0 -X github.com/agbru/gsmul/internal/app.Commit=abc123 -X github.com/agbru/gsmul/internal/app.BuildDate=2026-01-01T00:00:00Z" ./cmd/gsmul
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version, in any position
// before a "--" terminator.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the version, commit, build date and runtime platform.
func PrintVersion(out io.Writer) {
	info := GetVersionInfo()
	fmt.Fprintf(out, "gsmul %s\n", info.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
}

// VersionData is the version information in machine-readable form.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the current version information.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
