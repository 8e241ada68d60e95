// ABOUTME: Terminal styles for the interactive diary prompts
// ABOUTME: lipgloss renders plain text when output is not a terminal
package ui

import "github.com/charmbracelet/lipgloss"

// Colors used by the prompts.
var (
	ColorRed   = lipgloss.Color("#FF0000")
	ColorGreen = lipgloss.Color("#00FF00")
	ColorCyan  = lipgloss.Color("#00FFFF")
	ColorGray  = lipgloss.Color("#666666")
)

var (
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	HintStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RecordingStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)
)
