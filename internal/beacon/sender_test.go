package beacon

import (
	"errors"
	"testing"
	"time"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/config"
)

func TestSenderRequiresFix(t *testing.T) {
	s := NewSender()
	if _, err := s.Toggle("help", time.Now()); !errors.Is(err, ErrNoFix) {
		t.Fatalf("expected ErrNoFix, got %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestSenderEmptyContextBroadcastsDefault(t *testing.T) {
	s := NewSender()
	s.UpdateLocation(GeoLocation{Latitude: 1, Longitude: 2})

	analyze, err := s.Toggle("   ", time.Now())
	if err != nil || analyze {
		t.Fatalf("expected immediate activation, got analyze=%v err=%v", analyze, err)
	}
	if s.State() != StateBroadcasting {
		t.Fatalf("expected broadcasting, got %s", s.State())
	}
	a := s.Assessment()
	if a.Category != analysis.CategoryOther || a.Priority != analysis.PriorityHigh || a.Summary != config.ActiveSummary {
		t.Fatalf("unexpected default assessment %+v", a)
	}
}

func TestSenderAnalysisFlow(t *testing.T) {
	s := NewSender()
	s.UpdateLocation(GeoLocation{Latitude: 1, Longitude: 2})

	analyze, err := s.Toggle("house fire", time.Now())
	if err != nil || !analyze {
		t.Fatalf("expected analysis request, got analyze=%v err=%v", analyze, err)
	}
	if _, err := s.Toggle("again", time.Now()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	s.CompleteAnalysis(analysis.Classify("house fire"), time.Now())
	msg, ok := s.SOS()
	if !ok {
		t.Fatal("expected an active SOS")
	}
	if msg.Category != analysis.CategoryEnvironmental || msg.Message != "house fire" {
		t.Fatalf("unexpected SOS %+v", msg)
	}
	if msg.Location.Latitude != 1 || msg.Battery != 100 {
		t.Fatalf("unexpected SOS payload %+v", msg)
	}

	if _, err := s.Toggle("", time.Now()); err != nil {
		t.Fatalf("expected stop, got %v", err)
	}
	if _, ok := s.SOS(); ok {
		t.Fatal("expected no SOS after stopping")
	}
}

func TestSenderCompleteAnalysisIgnoredWhenIdle(t *testing.T) {
	s := NewSender()
	s.CompleteAnalysis(analysis.Default(), time.Now())
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %s", s.State())
	}
}

func TestSenderBatteryFloor(t *testing.T) {
	s := NewSender()
	for i := 0; i < 150; i++ {
		s.DrainBattery()
	}
	if s.Battery() != 0 {
		t.Fatalf("expected battery floor at 0, got %d", s.Battery())
	}
}

func TestSenderKeepsLatestFix(t *testing.T) {
	s := NewSender()
	s.UpdateLocation(GeoLocation{Latitude: 1})
	s.UpdateLocation(GeoLocation{Latitude: 2})
	loc, ok := s.Location()
	if !ok || loc.Latitude != 2 {
		t.Fatalf("expected latest fix, got %+v", loc)
	}
}
