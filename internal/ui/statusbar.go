package ui

import "fmt"

// ReceiverStatus is the data shown in the receiver status bar.
type ReceiverStatus struct {
	Scanning bool
	Signals  int
	Capacity int
	Critical int
	SweepDeg float64
	MaxRange float64
}

// RenderStatusBar renders the bottom status bar for the receiver.
func RenderStatusBar(width int, st ReceiverStatus) string {
	status := StyleStatusIdle.Render("[STANDBY]")
	if st.Scanning {
		status = StyleStatusActive.Render("[SCANNING]")
	}

	info := fmt.Sprintf(" Signals: %d/%d  Critical: %d  FREQ: 2.4GHz / BLE  Sweep: %ddeg  Range: 0-%.0fm",
		st.Signals, st.Capacity, st.Critical, int(st.SweepDeg), st.MaxRange)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)
	return StyleStatusBar.Width(width).MaxHeight(1).Render(content)
}

// RenderHintBar renders a bottom bar with a single line of help text.
func RenderHintBar(width int, text string) string {
	return StyleStatusBar.Width(width).Render(StyleHelp.Render(text))
}
