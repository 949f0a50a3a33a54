package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
)

// SenderView is everything the sender screen shows.
type SenderView struct {
	State      beacon.State
	Battery    int
	Location   beacon.GeoLocation
	HasFix     bool
	Input      string
	Assessment analysis.Assessment
	Notice     string
}

// RenderSenderPanel renders the SOS beacon screen body.
func RenderSenderPanel(width, height int, v SenderView) string {
	innerW := width - 4
	if innerW < 24 {
		innerW = 24
	}

	gps := StyleStatusIdle.Render("ACQUIRING...")
	if v.HasFix {
		gps = StyleStatusActive.Render("GPS LOCKED")
	}
	battery := StyleValue.Render(fmt.Sprintf("BAT %d%%", v.Battery))
	if v.Battery <= 20 {
		battery = StyleAlert.Render(fmt.Sprintf("BAT %d%%", v.Battery))
	}
	header := fill(gps, battery, lipgloss.Width(gps), lipgloss.Width(battery), innerW)

	lines := []string{
		header,
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}
	lines = append(lines, center(renderSOSButton(v.State), innerW)...)
	lines = append(lines, "")

	switch v.State {
	case beacon.StateBroadcasting:
		status := fmt.Sprintf("%s • %s", v.Assessment.Priority, v.Assessment.Category)
		style := StyleBadgeHigh
		if v.Assessment.Priority == analysis.PriorityCritical {
			style = StyleBadgeCritical
		}
		lines = append(lines, center([]string{style.Render(" " + status + " ")}, innerW)...)
		if v.Assessment.Summary != "" {
			lines = append(lines, center([]string{StyleMessage.Render(v.Assessment.Summary)}, innerW)...)
		}
	case beacon.StateAnalyzing:
		lines = append(lines, center([]string{StyleStatusIdle.Render("Analyzing situation...")}, innerW)...)
	default:
		lines = append(lines, center([]string{StyleHelp.Render("Describe the emergency, then press [ENTER]")}, innerW)...)
	}
	lines = append(lines, "")

	if v.HasFix {
		lines = append(lines,
			StyleLabel.Render("  LAT      ")+StyleValue.Render(fmt.Sprintf("%.6f", v.Location.Latitude)),
			StyleLabel.Render("  LON      ")+StyleValue.Render(fmt.Sprintf("%.6f", v.Location.Longitude)),
			StyleLabel.Render("  ACCURACY ")+StyleValue.Render(fmt.Sprintf("±%.0fm", v.Location.Accuracy)),
		)
	} else {
		lines = append(lines, StyleStatusIdle.Render("  Waiting for GPS lock..."))
	}
	lines = append(lines, "")

	lines = append(lines, StyleLabel.Render("  Situation"))
	lines = append(lines, "  "+renderInput(v.Input, v.State == beacon.StateIdle, innerW-4))

	if v.Notice != "" {
		lines = append(lines, "", "  "+StyleAlert.Render(v.Notice))
	}

	style := StylePanelBorder
	if v.State == beacon.StateBroadcasting {
		style = StylePanelAlarm
	}
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	content := ClampLines(joinLines(lines), innerH)
	return style.Width(width - 2).Height(innerH).Render(content)
}

func renderSOSButton(state beacon.State) []string {
	label := "  S O S  "
	style := StyleBadgeHigh
	switch state {
	case beacon.StateBroadcasting:
		label = " ACTIVE  "
		style = StyleBadgeCritical
	case beacon.StateAnalyzing:
		label = "  . . .  "
	}
	edge := strings.Repeat(" ", len(label))
	return []string{
		style.Render(edge),
		style.Render(label),
		style.Render(edge),
	}
}

func renderInput(text string, focused bool, width int) string {
	if width < 4 {
		width = 4
	}
	shown := text
	if focused {
		shown += "_"
	}
	// Keep the tail visible while typing
	if r := []rune(shown); len(r) > width {
		shown = string(r[len(r)-width:])
	}
	if focused {
		return StyleInputFocus.Render(truncRaw(shown, width))
	}
	return StyleInput.Render(truncRaw(shown, width))
}

func center(lines []string, width int) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		pad := (width - lipgloss.Width(l)) / 2
		if pad < 0 {
			pad = 0
		}
		out[i] = strings.Repeat(" ", pad) + l
	}
	return out
}
