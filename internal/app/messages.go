package app

import (
	"time"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
)

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// BatteryMsg drains the mock battery.
type BatteryMsg time.Time

// SignalMsg reports a signal emitted by the simulator.
type SignalMsg beacon.Signal

// FixMsg carries a new position fix from the locator.
type FixMsg beacon.GeoLocation

// AnalysisDoneMsg carries the assessment of the sender's context text.
type AnalysisDoneMsg struct {
	Assessment analysis.Assessment
}
