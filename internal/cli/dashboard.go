package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"
)

// Dashboard bundles what RenderDashboard needs beyond the view itself.
type Dashboard struct {
	Money  Money
	Footer *config.FooterConfig // nil hides the decorative footer
}

// RenderDashboard renders the full one-shot dashboard for v.
func RenderDashboard(v tracker.View, d Dashboard) string {
	var b strings.Builder

	title := v.Campaign.Name
	if title == "" {
		title = "Project 200"
	}
	b.WriteString("\n")
	b.WriteString(RenderTitle(title + " Tracker"))
	b.WriteString("\n\n")

	if !v.Loaded() {
		b.WriteString(mutedStyle.Render("  Loading..."))
		b.WriteString("\n")
		return b.String()
	}

	if v.FeedError != "" {
		b.WriteString(warnStyle.Render("  Feed unavailable; showing no data."))
		b.WriteString("\n\n")
	}
	if v.ViewingPast {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  Viewing past data (Current: Week %d)", v.CurrentWeek)))
		b.WriteString("\n\n")
	}

	b.WriteString(RenderCards(v, d.Money))
	b.WriteString("\n\n")

	b.WriteString("  " + headerStyle.Render("Progress to Target"))
	b.WriteString("\n  ")
	b.WriteString(RenderProgressBar(v.BarWidth, FormatPercent(v.Progress.Percent), v.Trending, 40))
	b.WriteString("\n\n")

	b.WriteString("  " + headerStyle.Render("Given vs Remaining"))
	b.WriteString("\n")
	donut := lipgloss.NewStyle().PaddingLeft(2).Render(RenderDonut(v.Segments, 5))
	legend := lipgloss.NewStyle().PaddingLeft(3).PaddingTop(4).Render(RenderLegend(v.Segments, d.Money))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, donut, legend))
	b.WriteString("\n\n")

	b.WriteString(RenderBreakdown(v, d.Money))
	b.WriteString("\n")
	if len(v.Breakdown) > 1 {
		b.WriteString("  " + mutedStyle.Render("Weekly trend ") + givenStyle.Render(RenderSparkline(weeklyAmounts(v))))
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render("  " + TargetLine(v, d.Money)))
	b.WriteString("\n")

	if d.Footer != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(RenderFooter(*d.Footer, v.Now.Year())))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCards renders the Total Given and Remaining metric boxes side by side.
func RenderCards(v tracker.View, money Money) string {
	card := func(label, value string, accent lipgloss.Style) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Width(26).
			Padding(0, 1).
			Render(mutedStyle.Render(label) + "\n" + accent.Bold(true).Render(value))
	}
	given := card(fmt.Sprintf("Total Given (Week %d)", v.ActiveWeek), money.Format(v.Progress.TotalGiven), givenStyle)
	remaining := card("Remaining", money.Format(v.Progress.Remaining), remainingStyle)
	return lipgloss.NewStyle().PaddingLeft(2).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, given, " ", remaining))
}

// RenderBreakdown renders every week in feed order; the active week is marked.
func RenderBreakdown(v tracker.View, money Money) string {
	t := Table{
		Title:   "Weekly Breakdown",
		Headers: []string{"Week", "Amount", "Cumulative"},
	}
	marker := "(" + strings.ToUpper(v.Variant.Marker()[:1]) + v.Variant.Marker()[1:] + ")"
	for i, row := range v.Breakdown {
		label := row.Week.Label
		if row.Highlight {
			label += " " + marker
			if t.Highlight == 0 {
				t.Highlight = i + 1
			}
		}
		t.Rows = append(t.Rows, []string{label, money.Format(row.Week.Amount), money.Format(row.Week.Cumulative)})
	}
	if len(t.Rows) == 0 {
		return "  " + headerStyle.Render(t.Title) + "\n  " + mutedStyle.Render("No weeks recorded yet.") + "\n"
	}
	return RenderTable(t)
}

// RenderWeeklyBars renders one horizontal bar per week, scaled to the
// largest weekly amount.
func RenderWeeklyBars(v tracker.View, money Money, width int) string {
	amounts := weeklyAmounts(v)
	peak := 0.0
	for _, a := range amounts {
		peak = max(peak, a)
	}
	labelW := 0
	for _, row := range v.Breakdown {
		labelW = max(labelW, len(row.Week.Label))
	}

	var b strings.Builder
	b.WriteString("  " + headerStyle.Render("Weekly Amounts"))
	b.WriteString("\n")
	for i, row := range v.Breakdown {
		b.WriteString(RenderHorizontalBar(padRight(row.Week.Label, labelW), amounts[i], peak, width, money.Format(row.Week.Amount)))
		b.WriteString("\n")
	}
	return b.String()
}

// weeklyAmounts lists each week's amount with NaN read as zero.
func weeklyAmounts(v tracker.View) []float64 {
	out := make([]float64, len(v.Breakdown))
	for i, row := range v.Breakdown {
		if !math.IsNaN(row.Week.Amount) {
			out[i] = row.Week.Amount
		}
	}
	return out
}

// TargetLine is the "Target: X • Viewing Week S of N" summary line.
func TargetLine(v tracker.View, money Money) string {
	return fmt.Sprintf("Target: %s • Viewing Week %d of %d", money.Format(v.Campaign.Target), v.ActiveWeek, v.WeekCount)
}
