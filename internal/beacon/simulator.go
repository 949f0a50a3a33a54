package beacon

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/config"
	"signal-link.klederson.com/internal/metrics"
)

// Messages carried by fabricated signals. Category and priority come from
// running each one through the keyword classifier.
var mockMessages = []string{
	"Injured leg, need assistance immediately.",
	"Heavy bleeding from a head wound",
	"Hiker unconscious near the trail",
	"Trapped by rising flood water",
	"Smoke everywhere, cannot find the exit",
	"Stuck on the ridge, storm coming in",
	"Earthquake damage, building collapsed",
	"Robbery in progress, gunman outside",
	"Someone is following me, in danger",
	"Car stalled, no phone signal",
}

// SimulatorConfig controls how often and where signals are fabricated.
type SimulatorConfig struct {
	Tick        time.Duration
	Probability float64 // Chance of emitting a signal on each tick
	Capacity    int     // Signals retained
	OriginLat   float64
	OriginLon   float64
}

// DefaultSimulatorConfig returns the stock receiver behaviour.
func DefaultSimulatorConfig() SimulatorConfig {
	return SimulatorConfig{
		Tick:        config.EmitInterval,
		Probability: config.EmitProbability,
		Capacity:    config.SignalCapacity,
		OriginLat:   config.OriginLat,
		OriginLon:   config.OriginLon,
	}
}

// FromSettings converts loaded settings into a SimulatorConfig.
func FromSettings(s config.SimulatorSettings) SimulatorConfig {
	return SimulatorConfig{
		Tick:        s.Tick,
		Probability: s.Probability,
		Capacity:    s.Capacity,
		OriginLat:   s.Origin.Lat,
		OriginLon:   s.Origin.Lon,
	}
}

// Simulator fabricates nearby distress signals on a fixed tick while active.
type Simulator struct {
	cfg      SimulatorConfig
	buffer   *SignalBuffer
	onSignal func(Signal)

	mu      sync.Mutex // guards rng, running, gen, cancel
	rng     *rand.Rand
	running bool
	gen     int
	cancel  context.CancelFunc
}

// NewSimulator creates an idle simulator. rng may be nil for a time-seeded source.
func NewSimulator(cfg SimulatorConfig, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		cfg:    cfg,
		buffer: NewSignalBuffer(cfg.Capacity),
		rng:    rng,
	}
}

// OnSignal registers a callback invoked for every emitted signal, outside
// any simulator lock. Must be set before Start.
func (s *Simulator) OnSignal(fn func(Signal)) {
	s.onSignal = fn
}

// Start clears the buffer and begins ticking. Starting an active simulator
// is a no-op.
func (s *Simulator) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.buffer.Clear()
	s.running = true
	s.gen++

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.loop(ctx, s.gen)
}

// Stop halts ticking and clears the buffer. It does not wait for an
// in-flight OnSignal callback to return.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
	s.gen++
	s.buffer.Clear()
}

// Active reports whether the simulator is ticking.
func (s *Simulator) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Signals returns the retained signals, oldest first.
func (s *Simulator) Signals() []Signal {
	return s.buffer.Snapshot()
}

// Find returns a retained signal by ID.
func (s *Simulator) Find(id string) (Signal, bool) {
	return s.buffer.Find(id)
}

// Capacity returns how many signals are retained.
func (s *Simulator) Capacity() int {
	return s.buffer.Cap()
}

// Step runs a single tick: with the configured probability a signal is
// fabricated, retained and passed to the OnSignal callback.
func (s *Simulator) Step(now time.Time) (Signal, bool) {
	s.mu.Lock()
	sig, ok := s.roll(now)
	if ok {
		s.buffer.Push(sig)
		metrics.ObserveSignal(string(sig.Category))
	}
	s.mu.Unlock()

	if ok && s.onSignal != nil {
		s.onSignal(sig)
	}
	return sig, ok
}

func (s *Simulator) loop(ctx context.Context, gen int) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.tick(now, gen)
		}
	}
}

// tick is Step restricted to the run that started the loop, so a tick racing
// with Stop cannot repopulate a cleared buffer.
func (s *Simulator) tick(now time.Time, gen int) {
	s.mu.Lock()
	if !s.running || s.gen != gen {
		s.mu.Unlock()
		return
	}
	sig, ok := s.roll(now)
	if ok {
		s.buffer.Push(sig)
		metrics.ObserveSignal(string(sig.Category))
	}
	s.mu.Unlock()

	if ok && s.onSignal != nil {
		s.onSignal(sig)
	}
}

// roll must be called with s.mu held.
func (s *Simulator) roll(now time.Time) (Signal, bool) {
	if s.rng.Float64() >= s.cfg.Probability {
		return Signal{}, false
	}
	return s.fabricate(now), true
}

func (s *Simulator) fabricate(now time.Time) Signal {
	text := mockMessages[s.rng.Intn(len(mockMessages))]
	assessment := analysis.Classify(text)
	priority := assessment.Priority
	if s.rng.Float64() < config.CriticalEscalate {
		priority = analysis.PriorityCritical
	}

	return Signal{
		Message: Message{
			ID:        uuid.NewString(),
			Timestamp: now,
			Location: GeoLocation{
				Latitude:  s.cfg.OriginLat + (s.rng.Float64()-0.5)*config.LocationJitter,
				Longitude: s.cfg.OriginLon + (s.rng.Float64()-0.5)*config.LocationJitter,
				Accuracy:  config.SignalAccuracy,
				Timestamp: now,
			},
			Message:  text,
			Category: assessment.Category,
			Priority: priority,
			Battery:  s.rng.Intn(100),
		},
		Strength: config.StrengthCeiling - s.rng.Float64()*config.StrengthSpread,
		Distance: float64(s.rng.Intn(config.MaxSignalDist)),
		LastSeen: now,
	}
}
