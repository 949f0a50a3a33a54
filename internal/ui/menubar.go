package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/config"
)

// KeyHint is a single "[K]label" entry in the menu bar.
type KeyHint struct {
	Key   string
	Label string
}

// RenderMenuBar renders the top menu bar: app title and screen name on the
// left, key hints, and a status badge on the right.
func RenderMenuBar(width int, screen string, keys []KeyHint, status string, active bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)
	if screen != "" {
		title += "// " + screen + " "
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.Key+"]") + StyleMenuLabel.Render(k.Label)
	}

	badge := StyleStatusIdle.Render(status)
	if active {
		badge = StyleStatusActive.Render(status)
	}

	left := StyleMenuKey.Render(title) + menu
	right := badge + " "

	// StyleMenuBar adds one column of padding on each side
	inner := width - 2
	return StyleMenuBar.Width(width).Render(fill(left, right, lipgloss.Width(left), lipgloss.Width(right), inner))
}
