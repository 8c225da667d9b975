package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

// Common colors for different types of elements
var (
	ColorBlue     = lipgloss.Color("39")  // Blue
	ColorGreen    = lipgloss.Color("82")  // Green
	ColorCyan     = lipgloss.Color("45")  // Cyan
	ColorRed      = lipgloss.Color("196") // Red
	ColorGray     = lipgloss.Color("250") // Light gray
	ColorWhite    = lipgloss.Color("15")  // White
	ColorDarkGray = lipgloss.Color("240") // Dark gray for branches
)
