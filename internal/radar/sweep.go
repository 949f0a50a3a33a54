package radar

import (
	"math"
	"time"

	"signal-link.klederson.com/internal/config"
)

// Sweep manages the rotating sweep line state. A parked sweep has no glow.
type Sweep struct {
	Angle     float64 // Current angle in radians [0, 2π)
	StartTime time.Time
	Running   bool
}

// NewSweep creates a parked sweep pointing north.
func NewSweep() *Sweep {
	return &Sweep{StartTime: time.Now()}
}

// Resume restarts rotation from north.
func (s *Sweep) Resume(now time.Time) {
	s.StartTime = now
	s.Angle = 0
	s.Running = true
}

// Park stops rotation and removes the trail.
func (s *Sweep) Park() {
	s.Running = false
}

// Update advances the sweep angle based on elapsed time.
func (s *Sweep) Update(now time.Time) {
	if !s.Running {
		return
	}
	elapsed := now.Sub(s.StartTime).Seconds()
	rps := float64(config.SweepSpeedRPM) / 60.0 // rotations per second
	s.Angle = math.Mod(elapsed*rps*2*math.Pi, 2*math.Pi)
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow intensity [0, 1] for a given cell angle.
// The sweep has a trailing glow of SweepTrailDeg degrees.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	if !s.Running {
		return 0
	}
	// How far behind the sweep head this angle is
	diff := NormalizeAngle(s.Angle - cellAngle)

	trailRad := config.SweepTrailDeg * math.Pi / 180.0
	if diff > trailRad {
		return 0
	}
	return 1.0 - diff/trailRad
}
