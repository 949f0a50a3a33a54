package beacon

import (
	"context"
	"math/rand"
	"time"

	"signal-link.klederson.com/internal/config"
)

// Locator streams position fixes. Consumers keep only the latest fix.
type Locator interface {
	// Watch delivers fixes to fn until ctx is cancelled. It returns immediately.
	Watch(ctx context.Context, fn func(GeoLocation))
}

// StaticLocator reports one fixed position as soon as it is watched.
type StaticLocator struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

func (l StaticLocator) Watch(ctx context.Context, fn func(GeoLocation)) {
	go func() {
		select {
		case <-ctx.Done():
		default:
			fn(GeoLocation{
				Latitude:  l.Latitude,
				Longitude: l.Longitude,
				Accuracy:  l.Accuracy,
				Timestamp: time.Now(),
			})
		}
	}()
}

// SimulatedGPS behaves like a receiver acquiring a lock: nothing during the
// acquire delay, then a jittered fix every interval with improving accuracy.
type SimulatedGPS struct {
	Latitude     float64
	Longitude    float64
	Accuracy     float64 // Best accuracy reached once settled
	AcquireDelay time.Duration
	Interval     time.Duration
	Rand         *rand.Rand // Only used from the watch goroutine
}

// NewSimulatedGPS creates a simulated receiver around the given position.
func NewSimulatedGPS(lat, lon, accuracy float64) *SimulatedGPS {
	return &SimulatedGPS{
		Latitude:     lat,
		Longitude:    lon,
		Accuracy:     accuracy,
		AcquireDelay: config.GPSAcquireDelay,
		Interval:     config.GPSFixInterval,
		Rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *SimulatedGPS) Watch(ctx context.Context, fn func(GeoLocation)) {
	go g.loop(ctx, fn)
}

func (g *SimulatedGPS) loop(ctx context.Context, fn func(GeoLocation)) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(g.AcquireDelay):
	}

	ticker := time.NewTicker(g.Interval)
	defer ticker.Stop()

	accuracy := g.Accuracy * 5
	for {
		fn(g.fix(accuracy))
		if accuracy > g.Accuracy {
			accuracy = max(g.Accuracy, accuracy*0.7)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (g *SimulatedGPS) fix(accuracy float64) GeoLocation {
	// ~1e-5 degrees is about a meter; wander within the accuracy radius.
	spread := accuracy * 1e-5
	return GeoLocation{
		Latitude:  g.Latitude + (g.Rand.Float64()-0.5)*spread,
		Longitude: g.Longitude + (g.Rand.Float64()-0.5)*spread,
		Accuracy:  accuracy,
		Timestamp: time.Now(),
	}
}

// NewLocator builds the locator selected by sender settings.
func NewLocator(s config.SenderSettings) Locator {
	if s.GPS == config.GPSStatic {
		return StaticLocator{Latitude: s.Lat, Longitude: s.Lon, Accuracy: s.Accuracy}
	}
	return NewSimulatedGPS(s.Lat, s.Lon, s.Accuracy)
}
