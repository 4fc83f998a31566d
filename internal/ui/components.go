package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mobsuccess-devops/github-actions-asana/internal/models"
)

// SectionHeader creates a styled section header with a title and color
// Example: "─── TITLE ───────────"
func SectionHeader(title string, color lipgloss.Color) string {
	dashes := strings.Repeat("─", max(25-len(title), 0))
	headerStyle := lipgloss.NewStyle().Foreground(color)
	titleStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return fmt.Sprintf("%s%s%s",
		headerStyle.Render("  ─── "),
		titleStyle.Render(title),
		headerStyle.Render(" "+dashes),
	)
}

// KeyValue renders an aligned "key: value" row
func KeyValue(key, value string) string {
	keyStyle := lipgloss.NewStyle().Foreground(ColorDarkGray).Width(20)
	if value == "" {
		value = lipgloss.NewStyle().Foreground(ColorDarkGray).Render("-")
	}
	return "    " + keyStyle.Render(key+":") + value
}

// Logins joins identity logins for display
func Logins(ids []models.Identity) string {
	logins := make([]string, 0, len(ids))
	for _, id := range ids {
		logins = append(logins, id.Login)
	}
	return strings.Join(logins, ", ")
}

// StatusBadge renders a task status in its color
func StatusBadge(s models.TaskStatus) string {
	return lipgloss.NewStyle().Foreground(StatusColor(s)).Bold(true).Render(s.Display())
}

// StatusIcon returns the appropriate status icon and color
func StatusIcon(status string) (string, lipgloss.Color) {
	switch status {
	case "success":
		return "✓", ColorGreen
	case "moved", "updated":
		return "↻", ColorBlue
	case "skipped":
		return "⊘", ColorYellow
	case "failed", "error":
		return "✗", ColorRed
	default:
		return "·", ColorWhite
	}
}

// StatusLine renders an icon followed by a message
func StatusLine(status, message string) string {
	icon, color := StatusIcon(status)
	return "  " + lipgloss.NewStyle().Foreground(color).Render(icon) + " " + message
}

// Box creates a bordered box
func Box(content string, borderColor lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	return style.Render(content)
}

// max returns the maximum of two integers
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
