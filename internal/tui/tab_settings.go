package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"
	"github.com/theirongolddev/p200/internal/tui/components"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldName
	settingsFieldTarget
	settingsFieldStart
	settingsFieldFeedURL
	settingsFieldCurrency
	settingsFieldLocale
	settingsFieldVariant
	settingsFieldFooter
	settingsFieldInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60
	return ti
}

// settingsValue returns the editable text of field in cfg.
func settingsValue(cfg config.Config, field int) string {
	switch field {
	case settingsFieldTheme:
		return cfg.Appearance.Theme
	case settingsFieldName:
		return cfg.Campaign.Name
	case settingsFieldTarget:
		return strconv.FormatFloat(cfg.Campaign.Target, 'f', -1, 64)
	case settingsFieldStart:
		return cfg.Campaign.Start
	case settingsFieldFeedURL:
		return cfg.Feed.URL
	case settingsFieldCurrency:
		return cfg.Campaign.Currency
	case settingsFieldLocale:
		return cfg.Campaign.Locale
	case settingsFieldVariant:
		return cfg.Display.Variant
	case settingsFieldFooter:
		return strconv.FormatBool(cfg.Display.ShowFooter)
	case settingsFieldInterval:
		return strconv.Itoa(int(cfg.PollInterval().Seconds()))
	}
	return ""
}

// applySetting parses val into a copy of cfg.
func applySetting(cfg config.Config, field int, val string) (config.Config, error) {
	val = strings.TrimSpace(val)
	switch field {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			return cfg, fmt.Errorf("unknown theme %q (want one of %s)", val, strings.Join(theme.Names(), ", "))
		}
		cfg.Appearance.Theme = val
	case settingsFieldName:
		cfg.Campaign.Name = val
	case settingsFieldTarget:
		f, err := parseTarget(val)
		if err != nil {
			return cfg, err
		}
		cfg.Campaign.Target = f
	case settingsFieldStart:
		if err := validateStart(val); err != nil {
			return cfg, err
		}
		cfg.Campaign.Start = val
	case settingsFieldFeedURL:
		if err := validateURL(val); err != nil {
			return cfg, err
		}
		cfg.Feed.URL = val
	case settingsFieldCurrency:
		cfg.Campaign.Currency = strings.ToUpper(val)
	case settingsFieldLocale:
		cfg.Campaign.Locale = val
	case settingsFieldVariant:
		v, err := tracker.ParseVariant(val)
		if err != nil {
			return cfg, err
		}
		cfg.Display.Variant = v.String()
	case settingsFieldFooter:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return cfg, fmt.Errorf("show footer: want true or false, got %q", val)
		}
		cfg.Display.ShowFooter = b
	case settingsFieldInterval:
		n, err := strconv.Atoi(val)
		if err != nil || n < 10 {
			return cfg, fmt.Errorf("refresh interval: want whole seconds >= 10, got %q", val)
		}
		cfg.Server.IntervalSec = n
	}
	return cfg, nil
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
	case settingsFieldStart:
		ti.Placeholder = "2025-11-02T00:00:00+01:00"
	case settingsFieldVariant:
		ti.Placeholder = "cumulative or weekly"
	case settingsFieldFooter:
		ti.Placeholder = "true or false"
	case settingsFieldInterval:
		ti.Placeholder = "300 (seconds, minimum 10)"
	}
	ti.SetValue(settingsValue(a.cfg, a.settings.cursor))
	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		next, err := applySetting(a.cfg, a.settings.cursor, a.settings.input.Value())
		if err != nil {
			a.settings.saveErr = err
			a.settings.saved = false
			return a, nil
		}
		var cmd tea.Cmd
		a, cmd = a.applyConfig(next)
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Success).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	labels := [settingsFieldCount]string{
		"Theme", "Campaign Name", "Target", "Start", "Feed URL",
		"Currency", "Locale", "Feed Layout", "Show Footer", "Refresh Interval",
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, label := range labels {
		value := settingsValue(cfg, i)
		switch i {
		case settingsFieldTarget:
			value = a.money.Format(cfg.Campaign.Target)
		case settingsFieldInterval:
			value += "s"
		case settingsFieldVariant:
			if value != a.tracker.Variant().String() {
				value += " (applies on restart)"
			}
		}
		value = truncStr(value, innerW-24)

		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-20s ", label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			l := selectedLabelStyle.Render(fmt.Sprintf("%-20s ", label+":"))
			val := selectedStyle.Render(value)
			formBody.WriteString(marker + l + val)
			padLen := innerW - lipgloss.Width(marker) - lipgloss.Width(l) - lipgloss.Width(val)
			if padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(valueStyle.Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", label+":")))
			formBody.WriteString(valueStyle.Render(value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(truncStr("Not saved: "+a.settings.saveErr.Error(), innerW)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(dimStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	v := a.view
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(a.cfgPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Weeks in feed: ") + valueStyle.Render(strconv.Itoa(v.WeekCount)) + "\n")
	infoBody.WriteString(labelStyle.Render("Current week:  ") + valueStyle.Render(strconv.Itoa(v.CurrentWeek)) + "\n")
	infoBody.WriteString(labelStyle.Render("Last fetch:    ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
