// Package style provides shared UI styling primitives including colors
// and icons for consistent presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Slate   = lipgloss.Color("#667085")
	Green   = lipgloss.Color("#22A06B")
	Red     = lipgloss.Color("#D93025")
	Yellow  = lipgloss.Color("#F59E0B")
	Magenta = lipgloss.Color("#C026D3")
	Cyan    = lipgloss.Color("#06B6D4")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
