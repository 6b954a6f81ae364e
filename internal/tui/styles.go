// Package tui renders ChangeOS views for the terminal.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette follows the web UI: dark slate with cyan and emerald accents.
var (
	Cyan    = lipgloss.Color("#22d3ee")
	Emerald = lipgloss.Color("#34d399")
	Amber   = lipgloss.Color("#fbbf24")
	Orange  = lipgloss.Color("#fb923c")
	Rose    = lipgloss.Color("#fb7185")
	Violet  = lipgloss.Color("#a78bfa")
	Slate   = lipgloss.Color("#64748b")
	Muted   = lipgloss.Color("#94a3b8")
	Text    = lipgloss.Color("#e2e8f0")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(Text)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(Cyan).MarginBottom(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Slate).Padding(0, 1)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// colorFor maps the palette names used by the calculators and analysis
// statuses to terminal colours.
func colorFor(name string) lipgloss.Color {
	switch name {
	case "cyan", "info":
		return Cyan
	case "emerald", "normal", "LOW", "improving":
		return Emerald
	case "amber", "elevated", "warning", "MEDIUM", "HIGH":
		return Amber
	case "orange":
		return Orange
	case "rose", "severe", "critical", "CRITICAL", "declining":
		return Rose
	case "violet":
		return Violet
	default:
		return Slate
	}
}

func colored(name, s string) string {
	return lipgloss.NewStyle().Foreground(colorFor(name)).Render(s)
}

func badge(name, s string) string {
	return badgeStyle.Foreground(colorFor(name)).Render(s)
}

// bar draws a horizontal bar pct percent of width cells long.
func bar(pct float64, width int, color string) string {
	pct = min(max(pct, 0), 100)
	filled := int(pct / 100 * float64(width))
	return colored(color, strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}
