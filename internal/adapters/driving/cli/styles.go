package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the listing commands.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")) // Purple

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")) // Cyan

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")) // Medium gray
)
