package radar

import (
	"math"

	"signal-link.klederson.com/internal/config"
)

// CellDistance computes the distance from a cell to the radar center,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell.
// Returns radians in [0, 2π), where 0=north, increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return NormalizeAngle(math.Atan2(dx, -dy))
}

// RingChar returns the appropriate character for a ring at the given angle.
func RingChar(angle float64) rune {
	switch Sector(angle) {
	case 0, 4: // N, S
		return '-'
	case 1, 5: // NE, SW; rows grow downward
		return '\\'
	case 2, 6: // E, W
		return '|'
	default: // SE, NW
		return '/'
	}
}

// Sector maps an angle onto one of 8 compass sectors, 0=N, clockwise.
func Sector(angle float64) int {
	return int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the shortest angular distance between two angles.
// Result is in [0, π].
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// MetersToRadius converts distance in meters to radar cells. Anything past
// maxRange sits on the outer ring.
func MetersToRadius(meters, maxRange, radarRadius float64) float64 {
	if meters <= 0 {
		return 0
	}
	if meters > maxRange {
		return radarRadius
	}
	return (meters / maxRange) * radarRadius
}

// Project returns the cell for a target at the given bearing and distance.
func Project(bearing, meters float64, centerX, centerY int, radius float64) (col, row int) {
	r := MetersToRadius(meters, config.MaxRange, radius)
	col = centerX + int(math.Round(r*math.Sin(bearing)))
	row = centerY - int(math.Round(r*math.Cos(bearing)*config.AspectRatio))
	return col, row
}
