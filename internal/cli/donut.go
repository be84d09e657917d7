package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/p200/internal/tracker"
)

// donutAspect compensates for terminal cells being about twice as tall as wide.
const donutAspect = 2.0

// DonutCell reports which segment covers the cell at (dx, dy) relative to
// the centre, in radius units. It returns -1 outside the ring. The first
// segment starts at the left and the ring fills clockwise.
func DonutCell(dx, dy, inner float64, segs []tracker.Segment) int {
	d := math.Hypot(dx, dy)
	if d > 1 || d < inner {
		return -1
	}
	theta := math.Atan2(-dy, -dx) * 180 / math.Pi
	if theta < 0 {
		theta += 360
	}
	frac := theta / 360

	acc := 0.0
	for i, s := range segs {
		acc += s.Share
		if frac < acc {
			return i
		}
	}
	return len(segs) // unfilled: every share is zero
}

// RenderDonut draws a ring chart with the given outer radius in rows.
func RenderDonut(segs []tracker.Segment, radius int) string {
	if radius < 2 {
		radius = 2
	}
	const inner = 0.55

	styles := make([]lipgloss.Style, len(segs))
	for i, s := range segs {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
	}

	rows := 2*radius + 1
	cols := int(float64(rows) * donutAspect)
	cx, cy := float64(cols-1)/2, float64(rows-1)/2

	var b strings.Builder
	for y := range rows {
		for x := range cols {
			dx := (float64(x) - cx) / (cy * donutAspect)
			dy := (float64(y) - cy) / cy
			switch idx := DonutCell(dx, dy, inner, segs); {
			case idx < 0:
				b.WriteByte(' ')
			case idx >= len(segs):
				b.WriteString(dimStyle.Render("░"))
			default:
				b.WriteString(styles[idx].Render("█"))
			}
		}
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderLegend lists each segment as "● Name: share%" with its money value.
func RenderLegend(segs []tracker.Segment, money Money) string {
	lines := make([]string, 0, len(segs))
	for _, s := range segs {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render("●")
		lines = append(lines, dot+" "+valueStyle.Render(s.Name+": "+FormatShare(s.Share))+
			"  "+mutedStyle.Render(money.Format(s.Value)))
	}
	return strings.Join(lines, "\n")
}
