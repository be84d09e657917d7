package components

import (
	"strings"

	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar reports about the feed.
type Status struct {
	Fetched    string // relative fetch time, e.g. "2 minutes ago"
	Week       string // e.g. "Week 3 of 5"
	Refreshing bool
	FeedDown   bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	busyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	left := keyStyle.Render(" [?]help  [w]eek  [r]efresh  [q]uit")

	right := ""
	switch {
	case s.Refreshing:
		right = busyStyle.Render("refreshing… ")
	case s.FeedDown:
		right = warnStyle.Render("feed unavailable ") + infoStyle.Render(s.Fetched+" ")
	case s.Fetched != "":
		right = infoStyle.Render("fetched " + s.Fetched + " ")
	}
	if s.Week != "" {
		right = infoStyle.Render(s.Week+" │ ") + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return barStyle.Width(width).Render(left + barStyle.Render(strings.Repeat(" ", padding)) + right)
}
