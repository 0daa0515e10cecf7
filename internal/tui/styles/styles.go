// Package styles holds the palette and shared lipgloss styles of the
// terminal wizard.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors meet WCAG AA contrast (4.5:1) on black and on SurfaceColor.
var (
	PrimaryColor   = lipgloss.Color("#FBBF24") // Amber (amber-400)
	SecondaryColor = lipgloss.Color("#10B981") // Green
	AccentColor    = lipgloss.Color("#60A5FA") // Blue
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red (red-400)
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray (gray-500)
)

// Convenience styles for colors.
var (
	Primary = lipgloss.NewStyle().Foreground(PrimaryColor)
	Accent  = lipgloss.NewStyle().Foreground(AccentColor)
	Warning = lipgloss.NewStyle().Foreground(WarningColor)
	Error   = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted   = lipgloss.NewStyle().Foreground(MutedColor)
	Text    = lipgloss.NewStyle().Foreground(TextColor)
)

// Layout styles.
var (
	Title       = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	Subtitle    = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	TabActive   = lipgloss.NewStyle().Bold(true).Foreground(SurfaceColor).Background(PrimaryColor).Padding(0, 2)
	TabInactive = lipgloss.NewStyle().Foreground(MutedColor).Padding(0, 2)
	ContentBox  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderColor).Padding(1, 2)
	HelpBar     = lipgloss.NewStyle().Foreground(MutedColor).MarginTop(1)
)

// Quote and bill panels.
var (
	Label      = lipgloss.NewStyle().Foreground(MutedColor).Width(18)
	Value      = lipgloss.NewStyle().Foreground(TextColor).Bold(true)
	BigNumber  = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	StatCard   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(BorderColor).Padding(0, 2).MarginRight(1)
	ErrorMsg   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningMsg = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
)

// StatusColor returns the color for a session status name.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "idle":
		return MutedColor
	case "loading":
		return AccentColor
	case "ready":
		return SecondaryColor
	case "failed":
		return ErrorColor
	default:
		return MutedColor
	}
}

// StatusIcon returns an icon for a session status name.
func StatusIcon(status string) string {
	switch status {
	case "idle":
		return "○"
	case "loading":
		return "●"
	case "ready":
		return "✓"
	case "failed":
		return "✗"
	default:
		return "●"
	}
}

// Badge renders status with its icon and color.
func Badge(status string) string {
	return lipgloss.NewStyle().
		Foreground(StatusColor(status)).
		Bold(true).
		Render(StatusIcon(status) + " " + status)
}
