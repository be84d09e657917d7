package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/p200/internal/tracker"
	"github.com/theirongolddev/p200/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pickerState is the week dropdown. It lists only the weeks the tracker
// reports as selectable.
type pickerState struct {
	open    bool
	cursor  int
	options []tracker.WeekOption
}

func (a App) openPicker() App {
	if !a.view.Variant.Selectable() {
		a.flash = "This feed layout always shows the current week."
		return a
	}
	opts := a.view.Options
	if len(opts) == 0 {
		a.flash = "No weeks to choose from yet."
		return a
	}
	a.picker = pickerState{open: true, options: opts}
	for i, o := range opts {
		if o.Value == a.view.SelectedWeek {
			a.picker.cursor = i
		}
	}
	return a
}

func (a App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &a.picker
	switch msg.String() {
	case "j", "down":
		if p.cursor < len(p.options)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		p.cursor = len(p.options) - 1
	case "enter":
		week := p.options[p.cursor].Value
		a.picker = pickerState{}
		return a.selectWeek(week), nil
	case "esc", "w", "q":
		a.picker = pickerState{}
	}
	return a, nil
}

// stepWeek moves the selection by delta within the selectable weeks.
func (a App) stepWeek(delta int) App {
	if !a.view.Variant.Selectable() || len(a.view.Options) == 0 {
		return a
	}
	target := a.view.SelectedWeek + delta
	if target < a.view.Options[0].Value || target > a.view.Options[len(a.view.Options)-1].Value {
		return a
	}
	return a.selectWeek(target)
}

func (a App) selectWeek(week int) App {
	if err := a.tracker.Select(week); err != nil {
		switch {
		case errors.Is(err, tracker.ErrSelectionUnsupported):
			a.flash = "This feed layout always shows the current week."
		default:
			a.flash = fmt.Sprintf("Week %d is not available.", week)
		}
		return a
	}
	a.flash = ""
	a.view = a.tracker.View()
	return a
}

func (a App) renderPicker() string {
	t := theme.Active
	p := a.picker

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 2)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	cursorStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	// Keep the list inside the content area on short terminals.
	visible := max(3, a.height-12)
	start := 0
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end := min(len(p.options), start+visible)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Select Week"))
	b.WriteString("\n\n")
	for i := start; i < end; i++ {
		o := p.options[i]
		text := o.Text
		if o.Value == a.view.CurrentWeek {
			text += " (current)"
		}
		line := fmt.Sprintf("%-22s", text)
		if i == p.cursor {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[j/k] move  [Enter] select  [Esc] close"))

	return cardStyle.Render(b.String())
}
