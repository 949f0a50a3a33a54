package radar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"signal-link.klederson.com/internal/beacon"
	"signal-link.klederson.com/internal/config"
)

var (
	colorBright   = lipgloss.Color("#00FF41")
	colorMid      = lipgloss.Color("#008F11")
	colorDim      = lipgloss.Color("#004A0A")
	colorCritical = lipgloss.Color("#FF3300")
	colorHigh     = lipgloss.Color("#FFAA00")
	colorLabel    = lipgloss.Color("#FFFFFF")

	styleCenter   = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing     = lipgloss.NewStyle().Foreground(colorMid)
	styleDot      = lipgloss.NewStyle().Foreground(colorDim)
	styleCritical = lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	styleHigh     = lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(colorBright).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(colorLabel)
	styleLabelDim = lipgloss.NewStyle().Foreground(colorMid)
)

const (
	symbolCritical = "!"
	symbolHigh     = "o"
)

type blip struct {
	col, row int
	sig      *beacon.Signal
	label    string
	labelCol int
	labelRow int
}

type segment struct{ start, end int }

// Render produces the complete radar display as a styled string. The signal
// with selectedID, if any, is highlighted.
func Render(width, height int, signals []beacon.Signal, sweep *Sweep, selectedID string) string {
	if width < 10 || height < 5 {
		return ""
	}

	centerX := width / 2
	centerY := height / 2
	radius := float64(min(centerX-1, int(float64(centerY-1)/config.AspectRatio)))
	if radius < 3 {
		radius = 3
	}

	ringRadii := make([]float64, config.RingCount)
	for i := range ringRadii {
		ringRadii[i] = radius * float64(i+1) / float64(config.RingCount)
	}

	blips := placeBlips(signals, centerX, centerY, radius, width)

	// Label cells keyed by row*width+col
	type labelCell struct {
		blipIdx int
		charIdx int
	}
	labelMap := make(map[int]labelCell)
	for i, b := range blips {
		for ci := 0; ci < len(b.label); ci++ {
			labelMap[b.labelRow*width+b.labelCol+ci] = labelCell{blipIdx: i, charIdx: ci}
		}
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if lc, ok := labelMap[row*width+col]; ok {
				b := blips[lc.blipIdx]
				sb.WriteString(styleLabelFor(b.label[lc.charIdx], sweep, CellAngle(col, row, centerX, centerY)))
				continue
			}
			sb.WriteString(renderCell(col, row, centerX, centerY, radius, ringRadii, sweep, blips, selectedID))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// placeBlips projects signals onto the grid and places distance labels,
// trying right of the blip, then one row below, then one row above.
func placeBlips(signals []beacon.Signal, centerX, centerY int, radius float64, width int) []blip {
	blips := make([]blip, 0, len(signals))
	occupied := make(map[int][]segment)

	for i := range signals {
		s := &signals[i]
		dc, dr := Project(s.Bearing(), s.Distance, centerX, centerY, radius)

		label := s.Callsign()
		lc := dc + 2
		if lc+len(label) >= width {
			lc = dc - len(label) - 1
		}
		if lc < 0 {
			lc = 0
		}

		lr, placed := dr, false
		for _, candidate := range []int{dr, dr + 1, dr - 1} {
			if !overlaps(occupied[candidate], lc, lc+len(label)) {
				lr, placed = candidate, true
				break
			}
		}
		if !placed {
			// No room; keep the radar clean
			label = ""
		}

		blips = append(blips, blip{
			col:      dc,
			row:      dr,
			sig:      s,
			label:    label,
			labelCol: lc,
			labelRow: lr,
		})

		occupied[dr] = append(occupied[dr], segment{dc, dc + 1})
		if label != "" {
			occupied[lr] = append(occupied[lr], segment{lc, lc + len(label)})
		}
	}

	return blips
}

func overlaps(segs []segment, start, end int) bool {
	for _, seg := range segs {
		if start < seg.end && end > seg.start {
			return true
		}
	}
	return false
}

func styleLabelFor(ch byte, sweep *Sweep, cellAngle float64) string {
	if sweep.Intensity(cellAngle) > 0.5 {
		return lipgloss.NewStyle().Foreground(colorBright).Bold(true).Render(string(ch))
	}
	if sweep.Running {
		return styleLabel.Render(string(ch))
	}
	return styleLabelDim.Render(string(ch))
}

func renderCell(col, row, centerX, centerY int, radius float64, ringRadii []float64, sweep *Sweep, blips []blip, selectedID string) string {
	// Later signals are drawn over earlier ones on the same cell
	for i := len(blips) - 1; i >= 0; i-- {
		b := blips[i]
		if col == b.col && row == b.row {
			return renderBlip(b.sig, b.sig.ID == selectedID)
		}
	}

	dist := CellDistance(col, row, centerX, centerY)
	if dist > radius+0.5 {
		return " "
	}

	angle := CellAngle(col, row, centerX, centerY)

	if col == centerX && row == centerY {
		return styleCenter.Render("+")
	}

	if col == centerX && dist <= radius {
		return renderSweepChar('|', sweep, angle)
	}
	if row == centerY && dist <= radius {
		return renderSweepChar('-', sweep, angle)
	}

	for _, ringR := range ringRadii {
		if abs(dist-ringR) < 0.8 {
			return renderSweepChar(RingChar(angle), sweep, angle)
		}
	}

	if dist <= radius {
		return renderInteriorCell(sweep, angle)
	}

	return " "
}

func renderBlip(s *beacon.Signal, selected bool) string {
	symbol := symbolHigh
	if s.Critical() {
		symbol = symbolCritical
	}
	switch {
	case selected:
		return styleSelected.Render(symbol)
	case s.Critical():
		return styleCritical.Render(symbol)
	default:
		return styleHigh.Render(symbol)
	}
}

func renderSweepChar(ch rune, sweep *Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		return styleRing.Render(string(ch))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(ch))
}

func renderInteriorCell(sweep *Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		return styleDot.Render(".")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(".")
}

func sweepColor(intensity float64) string {
	switch {
	case intensity <= 0:
		return ""
	case intensity > 0.8:
		return "#00FF41"
	case intensity > 0.5:
		return "#00CC33"
	case intensity > 0.3:
		return "#00AA22"
	default:
		return "#005511"
	}
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := styleCritical.Render(symbolCritical+" CRITICAL") +
		"  " +
		styleHigh.Render(symbolHigh+" HIGH") +
		"  " +
		styleLabelDim.Render("range 0-1km")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
