package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the main panel and side panel horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, mainPanel, sidePanel, statusBar string) string {
	middle := mainPanel
	if sidePanel != "" {
		middle = lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, sidePanel)
	}
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// ClampLines pads or truncates s to exactly height lines. lipgloss Height()
// only sets a minimum; it won't truncate overflow.
func ClampLines(s string, height int) string {
	lines := splitLines(s)
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return joinLines(lines)
}
