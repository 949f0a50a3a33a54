package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/beacon"
)

const linesPerSignal = 5 // 4 content + 1 blank

// RenderSignalList renders the detected-signal list panel with a cursor.
// The header stays fixed at the top; only the entries scroll.
func RenderSignalList(signals []beacon.Signal, width, height int, cursorIndex int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render(fmt.Sprintf("DETECTED SIGNALS (%d)", len(signals)))
	separator := StyleSeparator.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := height - 2
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	space := innerH - len(headerLines)

	var body []string
	if len(signals) == 0 {
		body = append(body, "",
			StyleHelp.Render(" /!\\"),
			StyleHelp.Render(" No signals detected"))
	} else {
		maxVisible := space / linesPerSignal
		if maxVisible < 1 {
			maxVisible = 1
		}

		// Keep the cursor inside the viewport
		viewStart := 0
		if cursorIndex >= maxVisible {
			viewStart = cursorIndex - maxVisible + 1
		}

		for i := viewStart; i < len(signals) && len(body) < space; i++ {
			body = append(body, renderSignalEntry(&signals[i], innerW, i == cursorIndex)...)
		}
	}

	all := make([]string, 0, innerH)
	all = append(all, headerLines...)
	all = append(all, body...)
	content := ClampLines(joinLines(all), innerH)

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(content)
	return ClampLines(rendered, height)
}

func renderSignalEntry(s *beacon.Signal, maxW int, isCursor bool) []string {
	cursor := "  "
	if isCursor {
		cursor = ">>"
	}

	when := s.Timestamp.Format("15:04:05")
	headline := fmt.Sprintf("%s ALERT", s.Category)
	away := fmt.Sprintf("%dm away", int(math.Round(s.Distance)))
	quote := fmt.Sprintf("\"%s\"", s.Message.Message)

	barW := maxW - 4
	if barW < 4 {
		barW = 4
	}
	filled := int(math.Round(beacon.StrengthPercent(s.Strength) / 100 * float64(barW)))

	if isCursor {
		raw1 := fmt.Sprintf("%s [%s]", cursor, s.Priority)
		raw1 = fill(raw1, when, len(raw1), len(when), maxW)
		raw2 := fill("   "+headline, away, len(headline)+3, len(away), maxW)
		raw4 := "   " + strings.Repeat("=", filled) + strings.Repeat("-", barW-filled)
		return []string{
			StyleCursorRow.Render(truncRaw(raw1, maxW)),
			StyleCursorRow.Render(truncRaw(raw2, maxW)),
			StyleCursorRow.Render(truncRaw("   "+quote, maxW)),
			StyleCursorRow.Render(truncRaw(raw4, maxW)),
			"",
		}
	}

	badge := priorityBadge(s)
	line1 := fill(cursor+" "+badge, StyleHelp.Render(when), 3+lipgloss.Width(badge), len(when), maxW)
	line2 := fill("   "+StyleValue.Render(headline), StyleMenuLabel.Render(away), len(headline)+3, len(away), maxW)
	line3 := "   " + StyleMessage.Render(truncRaw(quote, maxW-3))
	line4 := "   " + lipgloss.NewStyle().Foreground(ColorGreen).Render(strings.Repeat("=", filled)) +
		StyleHelp.Render(strings.Repeat("-", barW-filled))

	return []string{line1, line2, line3, line4, ""}
}

func priorityBadge(s *beacon.Signal) string {
	label := " " + string(s.Priority) + " "
	if s.Critical() {
		return StyleBadgeCritical.Render(label)
	}
	return StyleBadgeHigh.Render(label)
}
