package ui

import (
	"fmt"
	"strings"

	"signal-link.klederson.com/internal/config"
)

// MenuItem is one landing screen entry.
type MenuItem struct {
	Title       string
	Description string
}

// RenderLanding renders the mode picker.
func RenderLanding(width, height int, items []MenuItem, cursor int) string {
	innerW := width - 4
	if innerW < 24 {
		innerW = 24
	}

	lines := []string{
		"",
		StyleValue.Render(fmt.Sprintf("%s v%s", config.AppName, config.AppVersion)),
		StyleHelp.Render("offline emergency beacon"),
		"",
		StyleSeparator.Render(strings.Repeat("-", min(innerW, 40))),
		"",
	}

	for i, it := range items {
		if i == cursor {
			lines = append(lines, StyleCursorRow.Render(fmt.Sprintf(" >> %-12s ", it.Title)))
		} else {
			lines = append(lines, StyleValue.Render(fmt.Sprintf("    %-12s ", it.Title)))
		}
		lines = append(lines, StyleHelp.Render("    "+it.Description), "")
	}

	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	content := joinLines(center(lines, innerW))
	return StylePanelActive.Width(width - 2).Height(innerH).Render(ClampLines(content, innerH))
}
