package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common styles that can be used across the application
var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	ComponentStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	RedPhaseStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	GreenPhaseStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)
)
