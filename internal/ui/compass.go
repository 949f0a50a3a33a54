package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/config"
	"signal-link.klederson.com/internal/radar"
)

type glyphKind uint8

const (
	glyphEmpty glyphKind = iota
	glyphRing
	glyphAxis
	glyphMark
	glyphNeedle
)

// canvas is a character grid where every cell remembers what drew it, so
// styling can be applied per kind at render time.
type canvas struct {
	w, h int
	ch   [][]rune
	kind [][]glyphKind
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, ch: make([][]rune, h), kind: make([][]glyphKind, h)}
	for row := range c.ch {
		c.ch[row] = []rune(strings.Repeat(" ", w))
		c.kind[row] = make([]glyphKind, w)
	}
	return c
}

func (c *canvas) set(col, row int, r rune, k glyphKind) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	c.ch[row][col] = r
	c.kind[row][col] = k
}

func (c *canvas) setIfEmpty(col, row int, r rune, k glyphKind) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h || c.kind[row][col] != glyphEmpty {
		return
	}
	c.set(col, row, r, k)
}

func (c *canvas) render(styles map[glyphKind]lipgloss.Style) string {
	var sb strings.Builder
	for row := 0; row < c.h; row++ {
		for col := 0; col < c.w; col++ {
			st, ok := styles[c.kind[row][col]]
			if !ok {
				sb.WriteRune(c.ch[row][col])
				continue
			}
			sb.WriteString(st.Render(string(c.ch[row][col])))
		}
		if row < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ellipse is the compass outline in cell coordinates.
type ellipse struct {
	cx, cy float64
	rx, ry float64
}

// at returns the cell at angle a (0=north, clockwise) and frac of the radius.
func (e ellipse) at(a, frac float64) (col, row int) {
	col = int(math.Round(e.cx + frac*e.rx*math.Sin(a)))
	row = int(math.Round(e.cy - frac*e.ry*math.Cos(a)))
	return col, row
}

// RenderCompass renders a compass with a needle pointing toward a target.
// angle is in radians (0=north, clockwise) and distance in meters. Closer
// targets get a longer, brighter needle; critical targets are drawn red.
func RenderCompass(width, height int, angle, distance float64, critical bool) string {
	if width < 9 || height < 5 {
		return ""
	}

	c := newCanvas(width, height)
	e := ellipse{
		cx: float64(width) / 2,
		cy: float64(height) / 2,
		rx: math.Max(float64(width)/2-2, 3),
		ry: math.Max(float64(height)/2-2, 2),
	}

	drawNeedle(c, e, angle, needleLength(distance))
	drawRing(c, e)
	drawAxes(c, e)
	drawMarkers(c, e)

	needleColor := lipgloss.Color(proximityColor(distance))
	if critical {
		needleColor = ColorCritical
	}
	return c.render(map[glyphKind]lipgloss.Style{
		glyphRing:   lipgloss.NewStyle().Foreground(ColorDimGreen),
		glyphAxis:   lipgloss.NewStyle().Foreground(lipgloss.Color("#003300")),
		glyphMark:   lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true),
		glyphNeedle: lipgloss.NewStyle().Foreground(needleColor).Bold(true),
	})
}

func drawRing(c *canvas, e ellipse) {
	const steps = 96
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / steps
		col, row := e.at(a, 1)
		c.setIfEmpty(col, row, radar.RingChar(a), glyphRing)
	}
}

func drawAxes(c *canvas, e ellipse) {
	col0, row0 := e.at(0, 0)
	for row := row0 - int(e.ry) + 1; row < row0+int(e.ry); row++ {
		if row != row0 {
			c.setIfEmpty(col0, row, ':', glyphAxis)
		}
	}
	for col := col0 - int(e.rx) + 1; col < col0+int(e.rx); col++ {
		if col != col0 {
			c.setIfEmpty(col, row0, '.', glyphAxis)
		}
	}
}

func drawMarkers(c *canvas, e ellipse) {
	outside := ellipse{cx: e.cx, cy: e.cy, rx: e.rx + 1, ry: e.ry + 1}
	for i, r := range "NESW" {
		col, row := outside.at(float64(i)*math.Pi/2, 1)
		c.set(col, row, r, glyphMark)
	}
	col, row := e.at(0, 0)
	c.set(col, row, '+', glyphMark)
}

// needleLength maps distance onto a fraction of the radius, closer = longer.
func needleLength(distance float64) float64 {
	const longest, shortest = 0.85, 0.3
	frac := math.Min(math.Max(distance/config.MaxRange, 0), 1)
	return longest - (longest-shortest)*frac
}

func drawNeedle(c *canvas, e ellipse, angle, length float64) {
	steps := int(math.Max(e.rx, e.ry) * length)
	if steps < 2 {
		steps = 2
	}

	shaft := shaftRune(angle)
	var tipCol, tipRow int
	for s := 1; s <= steps; s++ {
		tipCol, tipRow = e.at(angle, length*float64(s)/float64(steps))
		c.set(tipCol, tipRow, shaft, glyphNeedle)
	}

	// One barb on each side, swept back from the tip
	for _, off := range []float64{-0.8 * math.Pi, 0.8 * math.Pi} {
		ba := angle + off
		dc := int(math.Round(math.Sin(ba) * 1.5))
		dr := int(math.Round(-math.Cos(ba)))
		c.set(tipCol+dc, tipRow+dr, shaftRune(ba), glyphNeedle)
	}

	c.set(tipCol, tipRow, tipRune(angle), glyphNeedle)
}

// shaftRune is the line character for a radial stroke at angle a.
func shaftRune(a float64) rune {
	switch radar.Sector(a) {
	case 0, 4:
		return '|'
	case 2, 6:
		return '-'
	case 1, 5:
		return '/'
	default:
		return '\\'
	}
}

func tipRune(a float64) rune {
	return []rune("^/>\\v/<\\")[radar.Sector(a)]
}

// proximityColor maps distance to a green shade (brighter = closer).
func proximityColor(meters float64) string {
	switch {
	case meters < 100:
		return "#00FF41"
	case meters < 250:
		return "#00CC33"
	case meters < 500:
		return "#00AA22"
	case meters < 750:
		return "#008F11"
	default:
		return "#005511"
	}
}

var dirNames = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// BearingName returns the 8-point compass direction for an angle.
func BearingName(a float64) string {
	return dirNames[radar.Sector(a)]
}
