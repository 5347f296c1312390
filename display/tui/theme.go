package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/patrik-fredon/waybar-resource-hub/status"
)

// Color palette for the monitoring dashboard theme.
const (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorDanger    = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBg        = lipgloss.Color("#1E1B2E") // Dark purple bg
)

// Styles used throughout the TUI.
var (
	styleHeader    lipgloss.Style
	styleFooter    lipgloss.Style
	styleContent   lipgloss.Style
	styleTitle     lipgloss.Style
	styleSection   lipgloss.Style
	styleMutedText lipgloss.Style
)

func init() {
	styleHeader = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted).
		MarginBottom(1)

	styleFooter = lipgloss.NewStyle().
		Foreground(colorMuted).
		MarginTop(1)

	styleContent = lipgloss.NewStyle().
		Padding(1, 2)

	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSecondary)

	styleSection = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	styleMutedText = lipgloss.NewStyle().
		Foreground(colorMuted)
}

// levelColor maps a status level to its accent color.
func levelColor(level status.Level) lipgloss.Color {
	switch level {
	case status.LevelCritical:
		return colorDanger
	case status.LevelWarning:
		return colorWarning
	case status.LevelStale:
		return colorMuted
	default:
		return colorSuccess
	}
}

// styleBadge returns the pill style for the overall status badge.
func styleBadge(level status.Level) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(levelColor(level)).
		Padding(0, 1)
}
