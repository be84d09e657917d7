package components

import (
	"math"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// TargetBar renders the progress-to-target bar. width is the fill percentage
// already clamped to 0..100; percent is the unclamped value for the label.
func TargetBar(width, percent float64, trending bool, barWidth int) string {
	t := theme.Active

	if barWidth < 4 {
		barWidth = 4
	}
	frac := width / 100
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Given)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.SurfaceBright)

	pctStyle := lipgloss.NewStyle().Foreground(t.Given).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	out := bar.ViewAs(frac) + spaceStyle.Render(" ") + pctStyle.Render(cli.FormatPercent(percent))
	if trending {
		out += spaceStyle.Render(" ") + pctStyle.Render("↗")
	}
	return out
}
