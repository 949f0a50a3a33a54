package radar

import (
	"math"
	"testing"

	"signal-link.klederson.com/internal/config"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tc := range cases {
		if got := NormalizeAngle(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("NormalizeAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	if got := AngleDiff(0.1, 2*math.Pi-0.1); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("expected wrap-around diff 0.2, got %v", got)
	}
}

func TestCellAngleCardinals(t *testing.T) {
	cases := []struct {
		col, row int
		want     float64
	}{
		{10, 5, 0},               // north
		{15, 10, math.Pi / 2},    // east
		{10, 15, math.Pi},        // south
		{5, 10, 3 * math.Pi / 2}, // west
	}
	for _, tc := range cases {
		if got := CellAngle(tc.col, tc.row, 10, 10); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("CellAngle(%d,%d) = %v, want %v", tc.col, tc.row, got, tc.want)
		}
	}
}

func TestMetersToRadius(t *testing.T) {
	if got := MetersToRadius(500, config.MaxRange, 10); got != 5 {
		t.Fatalf("expected half radius, got %v", got)
	}
	if got := MetersToRadius(5000, config.MaxRange, 10); got != 10 {
		t.Fatalf("expected clamp to the edge, got %v", got)
	}
	if got := MetersToRadius(-3, config.MaxRange, 10); got != 0 {
		t.Fatalf("expected center for negative distance, got %v", got)
	}
}

func TestProject(t *testing.T) {
	col, row := Project(math.Pi/2, config.MaxRange, 20, 10, 10)
	if col != 30 || row != 10 {
		t.Fatalf("expected east edge (30,10), got (%d,%d)", col, row)
	}
	col, row = Project(0, config.MaxRange, 20, 10, 10)
	if col != 20 || row != 5 {
		t.Fatalf("expected north edge (20,5), got (%d,%d)", col, row)
	}
}

func TestRingChar(t *testing.T) {
	if RingChar(0) != '-' || RingChar(math.Pi/2) != '|' || RingChar(math.Pi/4) != '\\' || RingChar(3*math.Pi/4) != '/' {
		t.Fatal("unexpected ring characters")
	}
}
