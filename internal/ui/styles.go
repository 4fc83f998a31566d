package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// Note: the CI color profile is set in internal/termfix, imported first in main.go

var (
	ColorCyan     = lipgloss.Color("#00FFFF")
	ColorGreen    = lipgloss.Color("#00FF00")
	ColorYellow   = lipgloss.Color("#FFFF00")
	ColorRed      = lipgloss.Color("#FF0000")
	ColorMagenta  = lipgloss.Color("#FF00FF")
	ColorBlue     = lipgloss.Color("#5555FF")
	ColorPurple   = lipgloss.Color("#AA55FF")
	ColorWhite    = lipgloss.Color("#FFFFFF")
	ColorDarkGray = lipgloss.Color("8")
)

func StatusColor(s models.TaskStatus) lipgloss.Color {
	switch s {
	case models.StatusInProgress:
		return ColorYellow
	case models.StatusInReview:
		return ColorBlue
	case models.StatusApproved:
		return ColorGreen
	case models.StatusRejected:
		return ColorRed
	case models.StatusMerged:
		return ColorPurple
	default:
		return ColorWhite
	}
}
