// Package termfix picks the color profile before anything is rendered.
// GitHub Actions logs are not a TTY but do render ANSI colors.
// Import this package FIRST (before any lipgloss/termenv imports) using:
//
//	_ "github.com/mobsuccess-devops/github-actions-asana/internal/termfix"
package termfix

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if os.Getenv("TERM_PROGRAM") == "WarpTerminal" {
		os.Setenv("TERM", "dumb")
		os.Setenv("COLORTERM", "truecolor")
	}
	if p, ok := Profile(os.Getenv); ok {
		lipgloss.SetColorProfile(p)
	}
}

// Profile returns the profile to force for the environment, or false to
// keep terminal detection
func Profile(getenv func(string) string) (termenv.Profile, bool) {
	switch {
	case getenv("NO_COLOR") != "":
		return termenv.Ascii, true
	case getenv("GITHUB_ACTIONS") == "true":
		return termenv.ANSI256, true
	default:
		return termenv.Ascii, false
	}
}
