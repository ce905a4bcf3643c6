package cli

import (
	apperrors "github.com/agbru/gsmul/internal/errors"
	"github.com/agbru/gsmul/internal/ui"
)

var _ apperrors.ColorProvider = CLIColorProvider{}

// CLIColorProvider supplies apperrors with the active theme's colors.
type CLIColorProvider struct{}

func (c CLIColorProvider) Yellow() string { return ui.ColorYellow() }

func (c CLIColorProvider) Reset() string { return ui.ColorReset() }
