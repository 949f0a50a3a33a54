package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/beacon"
)

// RenderTargetPanel renders the locked-target overlay that replaces the
// radar area.
func RenderTargetPanel(s *beacon.Signal, width, height int, now time.Time) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StyleAlert.Render(">> TARGET LOCKED")
	escHint := StyleHelp.Render("[ESC]")
	titleLine := fill(title, escHint, lipgloss.Width(title), lipgloss.Width(escHint), innerW)
	sep := StyleSeparator.Render(strings.Repeat("-", innerW))

	lines := []string{titleLine, sep, ""}

	fields := []struct{ label, value string }{
		{"Alert", fmt.Sprintf("%s / %s", s.Category, s.Priority)},
		{"Message", truncRaw(s.Message.Message, max(8, innerW-12))},
		{"LAT", fmt.Sprintf("%.6f", s.Location.Latitude)},
		{"LON", fmt.Sprintf("%.6f", s.Location.Longitude)},
		{"Accuracy", fmt.Sprintf("%.0fm", s.Location.Accuracy)},
		{"Battery", fmt.Sprintf("%d%%", s.Battery)},
		{"Seen", formatLastSeen(s.LastSeen, now)},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-10s", f.label))+StyleValue.Render(f.value))
	}

	lines = append(lines, "")

	barWidth := innerW - 22
	if barWidth < 10 {
		barWidth = 10
	}
	lines = append(lines, StyleLabel.Render("  Signal    ")+renderSignalBar(s.Strength, barWidth)+
		StyleValue.Render(fmt.Sprintf(" %ddBm", int(s.Strength))))
	lines = append(lines, "")

	// Compass fills what is left, minus the caption and border
	compassH := height - len(lines) - 4
	if compassH < 5 {
		compassH = 5
	}
	compassW := innerW
	if compassW > compassH*3 {
		compassW = compassH * 3
	}

	if compass := RenderCompass(compassW, compassH, s.Bearing(), s.Distance, s.Critical()); compass != "" {
		prefix := strings.Repeat(" ", max(0, (innerW-compassW)/2))
		for _, cl := range splitLines(compass) {
			lines = append(lines, prefix+cl)
		}
	}

	caption := fmt.Sprintf("~%dm  %s", int(math.Round(s.Distance)), BearingName(s.Bearing()))
	lines = append(lines, strings.Repeat(" ", max(0, (innerW-len(caption))/2))+StyleValue.Render(caption))

	content := ClampLines(joinLines(lines), height-2)
	return StylePanelAlarm.Width(width - 2).Height(height - 2).Render(content)
}

func renderSignalBar(dbm float64, width int) string {
	filled := int(math.Round(beacon.StrengthPercent(dbm) / 100 * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(ColorGreen).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func formatLastSeen(t, now time.Time) string {
	d := now.Sub(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(d.Minutes()))
}
