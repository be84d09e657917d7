package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// eighths are the partial-cell glyphs for the top of a bar, indexed 0..8.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values. NaN and negative
// amounts draw as the lowest block.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface)
	return style.Render(cli.RenderSparkline(plottable(values)))
}

// yAxis is a rounded vertical scale split into equal tick intervals.
type yAxis struct {
	step        float64
	ceiling     float64
	intervals   int
	rowsPerTick int
}

func (a yAxis) rows() int { return a.intervals * a.rowsPerTick }

// newYAxis picks a round tick step for peak so that at most height/2
// intervals are needed, then spreads the intervals over height rows.
func newYAxis(peak float64, height int) yAxis {
	step := chartTickStep(peak)
	maxIntervals := max(2, height/2)
	for math.Ceil(peak/step) > float64(maxIntervals) {
		step *= 2
	}
	n := max(1, int(math.Ceil(peak/step)))
	return yAxis{
		step:        step,
		ceiling:     step * float64(n),
		intervals:   n,
		rowsPerTick: max(2, height/n),
	}
}

// BarChart renders weekly amounts as vertical bars with a labelled y-axis.
// NaN and negative amounts draw as empty columns. The bar at index highlight
// uses the accent color; pass -1 for none.
func BarChart(values []float64, labels []string, color lipgloss.Color, highlight, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	values = plottable(values)
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := 1.0
	for _, v := range values {
		peak = max(peak, v)
	}
	axis := newYAxis(peak, height)
	labelW := max(4, len(formatChartLabel(axis.ceiling))+1)
	plotW := max(5, width-labelW-1)

	// Columns are at least two cells wide with a one-cell gap; thin the
	// series when they do not fit.
	if len(values) > 1 && (plotW+1)/len(values) < 3 {
		values, labels = sampleSeries(values, labels, max(2, (plotW+1)/3))
		highlight = -1
	}
	n := len(values)
	gap := min(1, n-1)
	barW := min(6, plotW)
	if n > 1 {
		barW = min(6, (plotW-(n-1))/n)
	}
	axisLen := n*barW + (n-1)*gap

	fill := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	var b strings.Builder
	rows := axis.rows()
	for row := rows; row >= 1; row-- {
		top := axis.ceiling * float64(row) / float64(rows)
		bottom := axis.ceiling * float64(row-1) / float64(rows)

		tick := ""
		if row%axis.rowsPerTick == 0 {
			tick = formatChartLabel(axis.step * float64(row/axis.rowsPerTick))
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", labelW, tick)))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(fill.Render(strings.Repeat(" ", gap)))
			}
			style := barStyle
			if i == highlight {
				style = activeStyle
			}
			cell := ' '
			switch {
			case v >= top:
				cell = '█'
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				cell = eighths[min(8, max(1, idx))]
			}
			b.WriteString(style.Render(strings.Repeat(string(cell), barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(fill.Render(strings.Repeat(" ", labelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// xAxisLabels places each label under its column, skipping labels that would
// collide with the previous one. The last label is always attempted.
func xAxisLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	place := func(i int) {
		pos := i * pitch
		lbl := labels[i]
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := range len(labels) - 1 {
		place(i)
	}
	place(len(labels) - 1)
	return strings.TrimRight(string(buf), " ")
}

// sampleSeries picks n evenly spaced points, keeping the first and last.
func sampleSeries(values []float64, labels []string, n int) ([]float64, []string) {
	src := len(values)
	outV := make([]float64, n)
	var outL []string
	if len(labels) == src {
		outL = make([]string, n)
	}
	for i := range n {
		j := i * (src - 1) / (n - 1)
		outV[i] = values[j]
		if outL != nil {
			outL[i] = labels[j]
		}
	}
	return outV, outL
}

// chartTickStep rounds peak/5 to 1, 2 or 5 times a power of ten.
func chartTickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel renders an axis tick compactly, dropping a trailing ".0".
func formatChartLabel(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.2f", v)
	}
	return strings.Replace(cli.FormatCompact(v), ".0", "", 1)
}

// plottable copies values with NaN, infinite and negative entries zeroed.
func plottable(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			continue
		}
		out[i] = v
	}
	return out
}
