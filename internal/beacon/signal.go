package beacon

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"signal-link.klederson.com/internal/analysis"
)

// GeoLocation is a single position fix. Fixes are never modified after capture.
type GeoLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // Radius in meters
	Timestamp time.Time `json:"timestamp"`
}

// Message is the SOS payload a sender broadcasts.
type Message struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Location  GeoLocation       `json:"location"`
	Message   string            `json:"message"`
	Category  analysis.Category `json:"type"`
	Priority  analysis.Priority `json:"priority"`
	Battery   int               `json:"batteryLevel"` // Percent
}

// Signal is a Message as observed by a receiver.
type Signal struct {
	Message
	Strength float64   `json:"signalStrength"` // dBm
	Distance float64   `json:"distance"`       // Estimated meters
	LastSeen time.Time `json:"lastSeen"`
}

// Critical reports whether the signal carries CRITICAL priority.
func (s *Signal) Critical() bool {
	return s.Priority == analysis.PriorityCritical
}

// Bearing derives a stable bearing from the signal ID using a hash.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func (s *Signal) Bearing() float64 {
	return IDToBearing(s.ID)
}

// Callsign returns a short radar label for the signal.
func (s *Signal) Callsign() string {
	return fmt.Sprintf("%dm", int(math.Round(s.Distance)))
}

// IDToBearing maps an identifier to a consistent angle in [0, 2π).
func IDToBearing(id string) float64 {
	h := sha256.Sum256([]byte(id))
	val := binary.BigEndian.Uint32(h[:4])
	return float64(val) / (float64(math.MaxUint32) + 1) * 2 * math.Pi
}

// StrengthPercent maps a dBm reading to the 0-100 bar width shown in lists.
func StrengthPercent(dbm float64) float64 {
	return math.Max(0, math.Min(100, 100+dbm))
}
