package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/tui/components"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	v := a.view
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Background)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)

	b.WriteString(titleStyle.Render(" " + campaignTitle(v.Campaign.Name)))
	b.WriteString("\n")
	if v.ViewingPast {
		b.WriteString(warnStyle.Render(fmt.Sprintf(" Viewing past data (Current: Week %d)", v.CurrentWeek)))
		b.WriteString("\n")
	}

	// Row 1: money cards
	b.WriteString(components.MetricCardRow([]components.Metric{
		{
			Label:  fmt.Sprintf("Total Given (Week %d)", v.ActiveWeek),
			Value:  a.money.Format(v.Progress.TotalGiven),
			Detail: "of " + a.money.Format(v.Campaign.Target),
			Color:  t.Given,
		},
		{
			Label:  "Remaining",
			Value:  a.money.Format(v.Progress.Remaining),
			Detail: v.Variant.Policy().Describe(),
			Color:  t.Remaining,
		},
	}, cw))
	b.WriteString("\n")

	// Row 2: progress bar
	barW := components.CardInnerWidth(cw) - 10
	b.WriteString(components.ContentCard("Progress to Target",
		components.TargetBar(v.BarWidth, v.Progress.Percent, v.Trending, barW), cw))
	b.WriteString("\n")

	// Row 3: donut beside the recent weeks
	donut := a.renderDonutCard
	recent := a.renderRecentCard
	if a.isCompactLayout() {
		b.WriteString(donut(cw))
		b.WriteString("\n")
		b.WriteString(recent(cw, 6))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{donut(halves[0]), recent(halves[1], 11)}))
	}
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render(" " + cli.TargetLine(v, a.money)))

	if a.cfg.Display.ShowFooter {
		if f := cli.RenderFooter(a.cfg.Footer, v.Now.Year()); f != "" {
			b.WriteString("\n")
			b.WriteString(components.ContentCard("", f, cw))
		}
	}
	return b.String()
}

func (a App) renderDonutCard(w int) string {
	v := a.view
	ring := cli.RenderDonut(v.Segments, 5)
	legend := lipgloss.NewStyle().PaddingLeft(3).PaddingTop(4).Render(cli.RenderLegend(v.Segments, a.money))
	return components.ContentCard("Given vs Remaining", lipgloss.JoinHorizontal(lipgloss.Top, ring, legend), w)
}

// renderRecentCard lists the last n weeks of the breakdown, ending at the
// active week when it is further back.
func (a App) renderRecentCard(w, n int) string {
	t := theme.Active
	v := a.view

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if len(v.Breakdown) == 0 {
		return components.ContentCard("Weekly Breakdown", mutedStyle.Render("No weeks recorded yet."), w)
	}

	end := len(v.Breakdown)
	for i, row := range v.Breakdown {
		if row.Highlight && i < end-n {
			end = i + 1
			break
		}
	}
	start := max(0, end-n)

	inner := components.CardInnerWidth(w)
	amtW := max(12, (inner-14)/2)
	var body strings.Builder
	body.WriteString(mutedStyle.Render(fmt.Sprintf("%-14s%*s%*s", "Week", amtW, "Amount", amtW, "Cumulative")))
	for _, row := range v.Breakdown[start:end] {
		style := rowStyle
		label := row.Week.Label
		if row.Highlight {
			style = activeStyle
			label = "▸ " + label
		}
		body.WriteString("\n")
		body.WriteString(style.Render(fmt.Sprintf("%-14s%*s%*s",
			truncStr(label, 13), amtW, a.money.Format(row.Week.Amount), amtW, a.money.Format(row.Week.Cumulative))))
	}
	if start > 0 {
		body.WriteString("\n")
		body.WriteString(mutedStyle.Render(fmt.Sprintf("%d earlier weeks on the Breakdown tab", start)))
	}
	return components.ContentCard("Weekly Breakdown", body.String(), w)
}
