package beacon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/config"
)

// ErrNoFix is returned when activation is attempted before any position fix.
var ErrNoFix = errors.New("waiting for GPS lock")

// ErrBusy is returned while an analysis is still running.
var ErrBusy = errors.New("analysis in progress")

// State is the sender beacon lifecycle.
type State int

const (
	StateIdle State = iota
	StateAnalyzing
	StateBroadcasting
)

func (s State) String() string {
	switch s {
	case StateAnalyzing:
		return "ANALYZING"
	case StateBroadcasting:
		return "BROADCASTING"
	default:
		return "STANDBY"
	}
}

// Sender tracks the SOS beacon of the local device. It is not safe for
// concurrent use; the UI drives it from a single goroutine.
type Sender struct {
	state      State
	location   *GeoLocation
	battery    int
	context    string
	assessment analysis.Assessment
	id         string
	startedAt  time.Time
}

// NewSender creates an idle sender with a full battery and no fix.
func NewSender() *Sender {
	return &Sender{battery: 100}
}

// State returns the current lifecycle state.
func (s *Sender) State() State { return s.state }

// Battery returns the mock battery percentage.
func (s *Sender) Battery() int { return s.battery }

// Location returns the latest fix, if any.
func (s *Sender) Location() (GeoLocation, bool) {
	if s.location == nil {
		return GeoLocation{}, false
	}
	return *s.location, true
}

// Assessment returns the classification of the active broadcast.
func (s *Sender) Assessment() analysis.Assessment { return s.assessment }

// UpdateLocation replaces the stored fix with a newer one.
func (s *Sender) UpdateLocation(loc GeoLocation) {
	s.location = &loc
}

// DrainBattery removes one percentage point, stopping at zero.
func (s *Sender) DrainBattery() {
	if s.battery > 0 {
		s.battery--
	}
}

// Toggle handles the SOS button. While broadcasting it stops the beacon.
// Otherwise it requires a fix; an empty context activates immediately with
// the default assessment, anything else moves to StateAnalyzing and the
// caller must follow up with CompleteAnalysis.
func (s *Sender) Toggle(text string, now time.Time) (analyze bool, err error) {
	switch s.state {
	case StateBroadcasting:
		s.state = StateIdle
		return false, nil
	case StateAnalyzing:
		return false, ErrBusy
	}

	if s.location == nil {
		return false, ErrNoFix
	}

	s.context = strings.TrimSpace(text)
	if s.context == "" {
		s.activate(analysis.Assessment{
			Category: analysis.CategoryOther,
			Priority: analysis.PriorityHigh,
			Summary:  config.ActiveSummary,
		}, now)
		return false, nil
	}

	s.state = StateAnalyzing
	return true, nil
}

// CompleteAnalysis starts broadcasting with the given assessment. It is
// ignored unless an analysis was pending.
func (s *Sender) CompleteAnalysis(a analysis.Assessment, now time.Time) {
	if s.state != StateAnalyzing {
		return
	}
	s.activate(a, now)
}

func (s *Sender) activate(a analysis.Assessment, now time.Time) {
	s.assessment = a
	s.id = uuid.NewString()
	s.startedAt = now
	s.state = StateBroadcasting
}

// SOS returns the message currently being broadcast.
func (s *Sender) SOS() (Message, bool) {
	if s.state != StateBroadcasting || s.location == nil {
		return Message{}, false
	}
	return Message{
		ID:        s.id,
		Timestamp: s.startedAt,
		Location:  *s.location,
		Message:   s.context,
		Category:  s.assessment.Category,
		Priority:  s.assessment.Priority,
		Battery:   s.battery,
	}, true
}
