package config

import "time"

const (
	// Radar display
	MaxRange      = 1000.0 // Radar edge in meters; farther signals clamp to the edge
	AspectRatio   = 0.5    // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount     = 4      // Number of concentric rings
	SweepSpeedRPM = 30     // Sweep rotations per minute (1 rotation per 2 seconds)
	SweepTrailDeg = 30.0   // Sweep trail angle in degrees
	TargetFPS     = 30     // Target frames per second

	// Signal simulator
	SignalCapacity   = 5               // Most recent signals retained
	EmitInterval     = 2 * time.Second // Simulator tick
	EmitProbability  = 0.3             // Chance of a new signal per tick
	OriginLat        = 34.0522
	OriginLon        = -118.2437
	LocationJitter   = 0.01  // Full jitter span in degrees, centered on the origin
	MaxSignalDist    = 800   // Fabricated distances fall in [0, MaxSignalDist)
	SignalAccuracy   = 10.0  // Reported accuracy radius in meters
	StrengthCeiling  = -40.0 // dBm
	StrengthSpread   = 50.0  // dBm below the ceiling
	CriticalEscalate = 0.2   // Chance a fabricated signal is escalated to CRITICAL

	// Sender
	BatteryDrainInterval = 30 * time.Second
	AnalysisDelay        = 600 * time.Millisecond
	GPSFixInterval       = time.Second
	GPSAcquireDelay      = 3 * time.Second

	// Analysis
	DefaultSummary = "Emergency Beacon"
	ActiveSummary  = "Emergency Beacon Active"
	PresetMessage  = "Medical Emergency. Cannot move."

	// App
	AppName    = "SIGNAL-LINK"
	AppVersion = "1.0"
)
