package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/p200/internal/tracker"
	"github.com/theirongolddev/p200/internal/tui/components"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// breakdownState is the scroll position of the weekly table.
type breakdownState struct {
	offset int
}

func (s *breakdownState) scroll(delta, rows int) {
	s.offset += delta
	s.clamp(rows)
}

func (s *breakdownState) clamp(rows int) {
	if s.offset > rows-1 {
		s.offset = rows - 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// handleKey applies a scroll key and reports whether it was consumed.
func (s *breakdownState) handleKey(key string, rows int) bool {
	switch key {
	case "j", "down":
		s.scroll(1, rows)
	case "k", "up":
		s.scroll(-1, rows)
	case "ctrl+d":
		s.scroll(10, rows)
	case "ctrl+u":
		s.scroll(-10, rows)
	case "g":
		s.offset = 0
	case "G":
		s.offset = rows - 1
		s.clamp(rows)
	default:
		return false
	}
	return true
}

func (a App) renderBreakdownTab(cw, h int) string {
	t := theme.Active
	v := a.view

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	var b strings.Builder

	// Row 1: weekly amounts chart
	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	values := make([]float64, len(v.Breakdown))
	labels := make([]string, len(v.Breakdown))
	active := -1
	for i, row := range v.Breakdown {
		values[i] = row.Week.Amount
		labels[i] = fmt.Sprintf("W%d", i+1)
		if n, ok := row.Week.Number(); ok {
			labels[i] = fmt.Sprintf("W%d", n)
		}
		if row.Highlight && active < 0 {
			active = i
		}
	}
	if len(values) > 0 {
		b.WriteString(components.ContentCard("Weekly Amounts",
			components.BarChart(values, labels, t.Given, active, components.CardInnerWidth(cw), chartH), cw))
		b.WriteString("\n")
	}

	// Row 2: table
	inner := components.CardInnerWidth(cw)
	numW := max(14, (inner-20)/3)
	marker := fmt.Sprintf("(%s)", strings.ToUpper(v.Variant.Marker()[:1])+v.Variant.Marker()[1:])

	var table strings.Builder
	table.WriteString(headerStyle.Render(fmt.Sprintf("%-20s%*s%*s%*s", "Week", numW, "Amount", numW, "Change", numW, "Cumulative")))
	table.WriteString("\n")
	table.WriteString(mutedStyle.Render(strings.Repeat("─", 20+3*numW)))

	if len(v.Breakdown) == 0 {
		table.WriteString("\n")
		table.WriteString(mutedStyle.Render("No weeks recorded yet."))
	}

	// Whatever height is left after the chart and the warnings card.
	warnings := tracker.CheckConsistency(a.tracker.Records())
	used := lipgloss.Height(b.String()) + 4
	if len(warnings) > 0 {
		used += min(len(warnings), 5) + 3
	}
	visible := max(3, h-used)
	start := min(a.breakdown.offset, max(0, len(v.Breakdown)-1))
	end := min(len(v.Breakdown), start+visible)

	for _, row := range v.Breakdown[start:end] {
		label := row.Week.Label
		style := rowStyle
		if row.Highlight {
			label += " " + marker
			style = activeStyle
		}
		table.WriteString("\n")
		table.WriteString(style.Render(fmt.Sprintf("%-20s%*s%*s%*s",
			truncStr(label, 19),
			numW, a.money.Format(row.Week.Amount),
			numW, a.money.Format(row.Week.Change),
			numW, a.money.Format(row.Week.Cumulative))))
	}

	title := "Weekly Breakdown"
	if len(v.Breakdown) > visible {
		title = fmt.Sprintf("Weekly Breakdown (%d-%d of %d)", start+1, end, len(v.Breakdown))
	}
	b.WriteString(components.ContentCard(title, table.String(), cw))

	// Row 3: feed consistency notes
	if len(warnings) > 0 {
		var wb strings.Builder
		for i, w := range warnings {
			if i == 5 {
				wb.WriteString("\n")
				wb.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", len(warnings)-5)))
				break
			}
			if i > 0 {
				wb.WriteString("\n")
			}
			wb.WriteString(warnStyle.Render(truncStr(w.String(), inner)))
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Feed Notes", wb.String(), cw))
	}

	return b.String()
}
