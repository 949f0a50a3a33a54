package beacon

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/config"
)

func newTestSimulator(probability float64) *Simulator {
	cfg := DefaultSimulatorConfig()
	cfg.Probability = probability
	return NewSimulator(cfg, rand.New(rand.NewSource(42)))
}

func TestSimulatorStepFieldRanges(t *testing.T) {
	s := newTestSimulator(1)
	now := time.Now()
	half := config.LocationJitter / 2

	for i := 0; i < 500; i++ {
		got, ok := s.Step(now)
		if !ok {
			t.Fatal("expected a signal with probability 1")
		}
		if got.ID == "" {
			t.Fatal("expected an id")
		}
		if got.Distance < 0 || got.Distance >= config.MaxSignalDist {
			t.Fatalf("distance out of range: %v", got.Distance)
		}
		if got.Battery < 0 || got.Battery > 100 {
			t.Fatalf("battery out of range: %d", got.Battery)
		}
		if got.Strength > -40 || got.Strength <= -90 {
			t.Fatalf("strength out of range: %v", got.Strength)
		}
		if d := got.Location.Latitude - config.OriginLat; d < -half || d > half {
			t.Fatalf("latitude jitter out of range: %v", d)
		}
		if d := got.Location.Longitude - config.OriginLon; d < -half || d > half {
			t.Fatalf("longitude jitter out of range: %v", d)
		}
		if got.Location.Accuracy != config.SignalAccuracy {
			t.Fatalf("unexpected accuracy %v", got.Location.Accuracy)
		}
		if !got.Timestamp.Equal(now) || !got.LastSeen.Equal(now) {
			t.Fatal("expected timestamps to match the tick time")
		}
		if got.Priority != analysis.PriorityHigh && got.Priority != analysis.PriorityCritical {
			t.Fatalf("unexpected priority %s", got.Priority)
		}
	}
}

func TestSimulatorNeverEmitsAtZeroProbability(t *testing.T) {
	s := newTestSimulator(0)
	for i := 0; i < 100; i++ {
		if _, ok := s.Step(time.Now()); ok {
			t.Fatal("expected no signal with probability 0")
		}
	}
	if len(s.Signals()) != 0 {
		t.Fatal("expected empty buffer")
	}
}

func TestSimulatorEmissionRate(t *testing.T) {
	s := newTestSimulator(0.3)
	emitted := 0
	for i := 0; i < 2000; i++ {
		if _, ok := s.Step(time.Now()); ok {
			emitted++
		}
	}
	if emitted < 480 || emitted > 720 {
		t.Fatalf("expected roughly 30%% emissions, got %d/2000", emitted)
	}
}

func TestSimulatorSixthSignalEvictsOldest(t *testing.T) {
	s := newTestSimulator(1)
	var first Signal
	for i := 0; i < 6; i++ {
		got, _ := s.Step(time.Now())
		if i == 0 {
			first = got
		}
	}

	signals := s.Signals()
	if len(signals) != config.SignalCapacity {
		t.Fatalf("expected %d signals, got %d", config.SignalCapacity, len(signals))
	}
	if _, ok := s.Find(first.ID); ok {
		t.Fatal("expected the oldest signal to be dropped")
	}
}

func TestSimulatorStopClearsAndRestartIsEmpty(t *testing.T) {
	s := newTestSimulator(1)
	s.cfg.Tick = time.Hour

	s.Start(context.Background())
	if !s.Active() {
		t.Fatal("expected simulator to be active")
	}
	for i := 0; i < 3; i++ {
		s.Step(time.Now())
	}
	if len(s.Signals()) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(s.Signals()))
	}

	s.Stop()
	if s.Active() {
		t.Fatal("expected simulator to be stopped")
	}
	if len(s.Signals()) != 0 {
		t.Fatal("expected stop to clear the buffer")
	}

	s.Start(context.Background())
	defer s.Stop()
	if len(s.Signals()) != 0 {
		t.Fatal("expected restart to begin empty")
	}
}

func TestSimulatorLoopEmitsAndCallsBack(t *testing.T) {
	cfg := DefaultSimulatorConfig()
	cfg.Tick = 5 * time.Millisecond
	cfg.Probability = 1
	s := NewSimulator(cfg, rand.New(rand.NewSource(7)))

	var mu sync.Mutex
	var seen []Signal
	done := make(chan struct{})
	s.OnSignal(func(sig Signal) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, sig)
		if len(seen) == 8 {
			close(done)
		}
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for simulated signals")
	}
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) < 8 {
		t.Fatalf("expected at least 8 callbacks, got %d", len(seen))
	}
}

func TestSimulatorStaleTickIgnoredAfterStop(t *testing.T) {
	s := newTestSimulator(1)
	s.Start(context.Background())
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.Stop()

	s.tick(time.Now(), gen)
	if len(s.Signals()) != 0 {
		t.Fatal("expected a tick from a stopped run to be discarded")
	}
}

func TestSimulatorStartTwiceIsNoop(t *testing.T) {
	s := newTestSimulator(1)
	s.cfg.Tick = time.Hour
	s.Start(context.Background())
	defer s.Stop()

	s.Step(time.Now())
	s.Start(context.Background())
	if len(s.Signals()) != 1 {
		t.Fatal("expected second Start to keep the running buffer")
	}
}
