package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// truncate shortens s to width terminal columns, ending in "…". Escape
// sequences in styled text are preserved.
func truncate(s string, width int) string {
	if width <= 1 {
		return "…"
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
