package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
)

func testSignal() beacon.Signal {
	now := time.Date(2024, 5, 1, 12, 30, 15, 0, time.UTC)
	return beacon.Signal{
		Message: beacon.Message{
			ID:        "abc",
			Timestamp: now,
			Location:  beacon.GeoLocation{Latitude: 34.0522123, Longitude: -118.2437456, Accuracy: 10},
			Message:   "Heavy bleeding from a head wound",
			Category:  analysis.CategoryMedical,
			Priority:  analysis.PriorityCritical,
			Battery:   42,
		},
		Strength: -60,
		Distance: 412.6,
		LastSeen: now,
	}
}

func TestClampLines(t *testing.T) {
	if got := ClampLines("a\nb\nc", 2); got != "a\nb" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := ClampLines("a", 3); got != "a\n\n" {
		t.Fatalf("expected padding, got %q", got)
	}
}

func TestTruncRaw(t *testing.T) {
	if got := truncRaw("héllo", 3); got != "hél" {
		t.Fatalf("expected rune truncation, got %q", got)
	}
	if got := truncRaw("ab", 4); got != "ab  " {
		t.Fatalf("expected padding, got %q", got)
	}
}

func TestRenderSignalListEmpty(t *testing.T) {
	out := RenderSignalList(nil, 40, 20, 0)
	if !strings.Contains(out, "No signals detected") {
		t.Fatal("expected empty notice")
	}
	if !strings.Contains(out, "DETECTED SIGNALS (0)") {
		t.Fatal("expected header with count")
	}
}

func TestRenderSignalListEntry(t *testing.T) {
	out := RenderSignalList([]beacon.Signal{testSignal()}, 60, 20, -1)
	for _, want := range []string{"CRITICAL", "MEDICAL ALERT", "413m away", "12:30:15", "Heavy bleeding"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in list", want)
		}
	}
	if got := len(splitLines(out)); got != 20 {
		t.Fatalf("expected list clamped to 20 lines, got %d", got)
	}
}

func TestRenderTargetPanel(t *testing.T) {
	s := testSignal()
	out := RenderTargetPanel(&s, 60, 40, s.LastSeen.Add(5*time.Second))
	for _, want := range []string{"TARGET LOCKED", "34.052212", "-118.243746", "42%", "5s ago", "~413m"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in target panel", want)
		}
	}
}

func TestRenderSenderPanelFix(t *testing.T) {
	waiting := RenderSenderPanel(60, 30, SenderView{Battery: 100})
	if !strings.Contains(waiting, "Waiting for GPS lock...") || !strings.Contains(waiting, "ACQUIRING") {
		t.Fatal("expected acquiring state without a fix")
	}

	locked := RenderSenderPanel(60, 30, SenderView{
		State:    beacon.StateBroadcasting,
		Battery:  87,
		HasFix:   true,
		Location: beacon.GeoLocation{Latitude: 1.5, Longitude: 2.25, Accuracy: 8},
		Assessment: analysis.Assessment{
			Category: analysis.CategoryEnvironmental,
			Priority: analysis.PriorityCritical,
			Summary:  "Trapped by rising flood...",
		},
	})
	for _, want := range []string{"GPS LOCKED", "BAT 87%", "CRITICAL • ENVIRONMENTAL", "1.500000", "2.250000", "ACTIVE"} {
		if !strings.Contains(locked, want) {
			t.Errorf("expected %q in sender panel", want)
		}
	}
}

func TestRenderInputKeepsTail(t *testing.T) {
	out := renderInput(strings.Repeat("a", 30)+"xyz", false, 10)
	if !strings.Contains(out, "xyz") {
		t.Fatalf("expected tail to stay visible, got %q", out)
	}
}

func TestBearingName(t *testing.T) {
	cases := map[float64]string{
		0:               "N",
		math.Pi / 4:     "NE",
		math.Pi / 2:     "E",
		math.Pi:         "S",
		3 * math.Pi / 2: "W",
		-math.Pi / 4:    "NW",
		2 * math.Pi:     "N",
	}
	for a, want := range cases {
		if got := BearingName(a); got != want {
			t.Errorf("BearingName(%v) = %s, want %s", a, got, want)
		}
	}
}

func TestRenderCompassSize(t *testing.T) {
	out := RenderCompass(21, 9, math.Pi/2, 100, false)
	lines := splitLines(out)
	if len(lines) != 9 {
		t.Fatalf("expected 9 rows, got %d", len(lines))
	}
	if !strings.Contains(out, ">") {
		t.Fatal("expected east-pointing arrowhead")
	}
}

func TestRenderLandingMarksCursor(t *testing.T) {
	out := RenderLanding(60, 20, []MenuItem{{Title: "SENDER"}, {Title: "RECEIVER"}}, 1)
	if !strings.Contains(out, ">> RECEIVER") {
		t.Fatal("expected cursor on second entry")
	}
}
