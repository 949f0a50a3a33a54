package app

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
	"signal-link.klederson.com/internal/config"
)

type quietLocator struct{}

func (quietLocator) Watch(context.Context, func(beacon.GeoLocation)) {}

type fixedAnalyzer struct{ a analysis.Assessment }

func (f fixedAnalyzer) Analyze(context.Context, string) analysis.Assessment { return f.a }

func newTestModel(t *testing.T, mode Mode) AppModel {
	t.Helper()
	cfg := beacon.DefaultSimulatorConfig()
	cfg.Tick = time.Hour
	cfg.Probability = 1

	m := New(Options{
		Mode:      mode,
		Simulator: beacon.NewSimulator(cfg, rand.New(rand.NewSource(7))),
		Analyzer: fixedAnalyzer{analysis.Assessment{
			Category: analysis.CategoryMedical,
			Priority: analysis.PriorityCritical,
			Summary:  "Heavy bleeding",
		}},
		Locator: quietLocator{},
	})
	t.Cleanup(m.Shutdown)
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(m AppModel, msg tea.Msg) AppModel {
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestLandingNavigation(t *testing.T) {
	m := newTestModel(t, ModeLanding)

	m = update(m, key(tea.KeyDown))
	m = update(m, key(tea.KeyEnter))
	if m.mode != ModeReceiver {
		t.Fatalf("expected receiver after selecting second entry, got %v", m.mode)
	}

	m = update(m, key(tea.KeyEsc))
	if m.mode != ModeLanding {
		t.Fatalf("expected esc to return to landing, got %v", m.mode)
	}

	m = update(m, runes("1"))
	if m.mode != ModeSender {
		t.Fatalf("expected shortcut 1 to open sender, got %v", m.mode)
	}
}

func TestReceiverScanToggle(t *testing.T) {
	m := newTestModel(t, ModeReceiver)

	m = update(m, runes("s"))
	if !m.shared.sim.Active() {
		t.Fatal("expected simulator to be running after s")
	}
	if !m.shared.sweep.Running {
		t.Fatal("expected sweep to resume while scanning")
	}

	m = update(m, runes("s"))
	if m.shared.sim.Active() {
		t.Fatal("expected simulator to stop after second s")
	}
	if m.shared.sweep.Running {
		t.Fatal("expected sweep to park when stopped")
	}
}

func TestReceiverListsNewestFirstAndLocksTarget(t *testing.T) {
	m := newTestModel(t, ModeReceiver)
	m = update(m, runes("s"))

	now := time.Now()
	first, ok := m.shared.sim.Step(now)
	if !ok {
		t.Fatal("expected a signal with probability 1")
	}
	second, _ := m.shared.sim.Step(now.Add(time.Second))
	m = update(m, SignalMsg(second))

	if len(m.signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(m.signals))
	}
	if m.signals[0].ID != second.ID || m.signals[1].ID != first.ID {
		t.Fatal("expected newest signal first")
	}

	m = update(m, key(tea.KeyDown))
	m = update(m, key(tea.KeyEnter))
	if m.selectedID != first.ID {
		t.Fatalf("expected %s locked, got %q", first.ID, m.selectedID)
	}
	if view := m.View(); !strings.Contains(view, "TARGET LOCKED") {
		t.Fatal("expected target panel in view")
	}

	m = update(m, key(tea.KeyEsc))
	if m.selectedID != "" || m.mode != ModeReceiver {
		t.Fatal("expected esc to close the target panel first")
	}
}

func TestReceiverLeavingStopsScan(t *testing.T) {
	m := newTestModel(t, ModeReceiver)
	m = update(m, runes("s"))
	m = update(m, key(tea.KeyEsc))

	if m.shared.sim.Active() {
		t.Fatal("expected simulator stopped when leaving receiver")
	}
}

func TestSenderRequiresFix(t *testing.T) {
	m := newTestModel(t, ModeSender)

	m = update(m, key(tea.KeyEnter))
	if m.shared.sender.State() != beacon.StateIdle {
		t.Fatal("expected activation refused without fix")
	}
	if m.notice != beacon.ErrNoFix.Error() {
		t.Fatalf("expected no-fix notice, got %q", m.notice)
	}

	m = update(m, FixMsg(beacon.GeoLocation{Latitude: 1, Longitude: 2, Accuracy: 10}))
	if m.notice != "" {
		t.Fatalf("expected notice cleared by fix, got %q", m.notice)
	}
}

func TestSenderEmptyContextBroadcastsDefault(t *testing.T) {
	m := newTestModel(t, ModeSender)
	m = update(m, FixMsg(beacon.GeoLocation{Latitude: 1, Longitude: 2}))

	m = update(m, key(tea.KeyEnter))
	sender := m.shared.sender
	if sender.State() != beacon.StateBroadcasting {
		t.Fatalf("expected broadcasting, got %v", sender.State())
	}
	a := sender.Assessment()
	if a.Category != analysis.CategoryOther || a.Priority != analysis.PriorityHigh || a.Summary != config.ActiveSummary {
		t.Fatalf("unexpected default assessment %+v", a)
	}
	if !strings.Contains(m.View(), "HIGH • OTHER") {
		t.Fatal("expected priority and category in view")
	}

	m = update(m, key(tea.KeyEnter))
	if sender.State() != beacon.StateIdle {
		t.Fatal("expected second enter to stop the beacon")
	}
}

func TestSenderAnalyzesContext(t *testing.T) {
	m := newTestModel(t, ModeSender)
	m = update(m, FixMsg(beacon.GeoLocation{Latitude: 1, Longitude: 2}))
	m = update(m, runes("bleeding"))

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(AppModel)
	if m.shared.sender.State() != beacon.StateAnalyzing {
		t.Fatalf("expected analyzing, got %v", m.shared.sender.State())
	}
	if cmd == nil {
		t.Fatal("expected an analysis command")
	}

	// Typing is ignored while the analysis runs
	m = update(m, runes("x"))
	if m.input != "bleeding" {
		t.Fatalf("expected input frozen, got %q", m.input)
	}

	m = update(m, cmd())
	sos, ok := m.shared.sender.SOS()
	if !ok {
		t.Fatal("expected broadcasting after analysis")
	}
	if sos.Priority != analysis.PriorityCritical || sos.Message != "bleeding" {
		t.Fatalf("unexpected SOS %+v", sos)
	}
}

func TestSenderInputEditing(t *testing.T) {
	m := newTestModel(t, ModeSender)

	m = update(m, runes("help"))
	m = update(m, key(tea.KeySpace))
	m = update(m, runes("me!"))
	m = update(m, key(tea.KeyBackspace))
	if m.input != "help me" {
		t.Fatalf("expected %q, got %q", "help me", m.input)
	}

	m = update(m, key(tea.KeyCtrlP))
	if m.input != config.PresetMessage {
		t.Fatalf("expected preset, got %q", m.input)
	}

	// q is text on the sender screen, not quit
	next, cmd := m.Update(runes("q"))
	m = next.(AppModel)
	if cmd != nil {
		t.Fatal("expected no quit command while typing")
	}
	if !strings.HasSuffix(m.input, "q") {
		t.Fatalf("expected q appended, got %q", m.input)
	}
}

func TestBatteryDrains(t *testing.T) {
	m := newTestModel(t, ModeSender)
	m = update(m, BatteryMsg(time.Now()))
	m = update(m, BatteryMsg(time.Now()))
	if got := m.shared.sender.Battery(); got != 98 {
		t.Fatalf("expected 98%%, got %d", got)
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := New(Options{Locator: quietLocator{}})
	defer m.Shutdown()
	if got := m.View(); !strings.HasPrefix(got, "Initializing") {
		t.Fatalf("unexpected view %q", got)
	}
}
