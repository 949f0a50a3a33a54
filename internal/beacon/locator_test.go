package beacon

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"signal-link.klederson.com/internal/config"
)

func TestStaticLocator(t *testing.T) {
	fixes := make(chan GeoLocation, 1)
	StaticLocator{Latitude: 10, Longitude: 20, Accuracy: 5}.Watch(context.Background(), func(g GeoLocation) {
		fixes <- g
	})

	select {
	case g := <-fixes:
		if g.Latitude != 10 || g.Longitude != 20 || g.Accuracy != 5 {
			t.Fatalf("unexpected fix %+v", g)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fix")
	}
}

func TestSimulatedGPSConverges(t *testing.T) {
	g := &SimulatedGPS{
		Latitude:     34,
		Longitude:    -118,
		Accuracy:     10,
		AcquireDelay: time.Millisecond,
		Interval:     time.Millisecond,
		Rand:         rand.New(rand.NewSource(1)),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixes := make(chan GeoLocation, 64)
	g.Watch(ctx, func(loc GeoLocation) {
		select {
		case fixes <- loc:
		default:
		}
	})

	var last GeoLocation
	for i := 0; i < 20; i++ {
		select {
		case last = <-fixes:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for fixes")
		}
		if math.Abs(last.Latitude-34) > 0.01 || math.Abs(last.Longitude+118) > 0.01 {
			t.Fatalf("fix wandered too far: %+v", last)
		}
	}
	if last.Accuracy != 10 {
		t.Fatalf("expected accuracy to settle at 10, got %v", last.Accuracy)
	}
}

func TestNewLocator(t *testing.T) {
	if _, ok := NewLocator(config.SenderSettings{GPS: config.GPSStatic}).(StaticLocator); !ok {
		t.Fatal("expected static locator")
	}
	if _, ok := NewLocator(config.SenderSettings{GPS: config.GPSSimulated}).(*SimulatedGPS); !ok {
		t.Fatal("expected simulated gps")
	}
}
