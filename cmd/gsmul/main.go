// Command gsmul multiplies digit sequences with the grade-school algorithm.
//
// Usage:
//
//	gsmul -x 1024 -y 16
//	gsmul -x ff -y ff -base 16 -algo all
//	gsmul -x "[1, 255]" -y "[2]" -base 256 -json
//	gsmul -server -port 8080
//	gsmul -interactive
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/gsmul/internal/app"
	apperrors "github.com/agbru/gsmul/internal/errors"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if app.HasVersionFlag(args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		// Usage has already been printed by the flag set.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), os.Stdout)
}
