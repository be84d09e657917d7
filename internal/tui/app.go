// Package tui provides the interactive Bubble Tea dashboard for p200.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/feed"
	"github.com/theirongolddev/p200/internal/tracker"
	"github.com/theirongolddev/p200/internal/tui/components"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// LoadedMsg is sent when a feed load finishes, successful or not.
type LoadedMsg struct {
	Result feed.Result
	Took   time.Duration
}

// Options configures NewApp.
type Options struct {
	Tracker    *tracker.Tracker
	Config     config.Config
	ConfigPath string // where the settings tab and setup form save
	NeedSetup  bool   // run the setup form after the first load
	Logger     *zap.Logger
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	cfg     config.Config
	cfgPath string
	money   cli.Money
	log     *zap.Logger

	// Data
	view        tracker.View
	loaded      bool
	loadTime    time.Duration
	lastRefresh time.Time
	refreshing  bool
	flash       string // one-line notice shown above the status bar

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	picker    pickerState
	breakdown breakdownState
	settings  settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
	loadTimeout      = time.Minute
	tickInterval     = time.Second
)

// Tab indices, in components.Tabs order.
const (
	tabDashboard = iota
	tabBreakdown
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	path := opts.ConfigPath
	if path == "" {
		path = config.Path()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	c := opts.Tracker.Campaign()
	return App{
		tracker:   opts.Tracker,
		cfg:       opts.Config,
		cfgPath:   path,
		money:     cli.NewMoney(c.Currency, c.Locale),
		log:       log,
		needSetup: opts.NeedSetup,
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.tracker),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case LoadedMsg:
		a.refreshing = false
		a.loaded = true
		a.loadTime = msg.Took
		a.lastRefresh = time.Now()
		a.view = a.tracker.View()
		a.breakdown.clamp(len(a.view.Breakdown))
		if msg.Result.Err != nil {
			a.flash = "Feed unavailable: " + msg.Result.Err.Error()
		} else if strings.HasPrefix(a.flash, "Feed unavailable") {
			a.flash = ""
		}

		if a.needSetup && a.setupForm == nil {
			vals := SetupValuesFrom(a.cfg)
			a.setupVals = &vals
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.refreshing && time.Since(a.lastRefresh) >= a.cfg.PollInterval() {
			a.refreshing = true
			cmds = append(cmds, loadCmd(a.tracker))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || a.setupForm != nil || a.picker.open {
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabBreakdown {
			a.breakdown.scroll(-1, len(a.view.Breakdown))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabBreakdown {
			a.breakdown.scroll(1, len(a.view.Breakdown))
		}
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		if key == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.picker.open {
		return a.updatePicker(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabBreakdown:
		if a.breakdown.handleKey(key, len(a.view.Breakdown)) {
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadCmd(a.tracker)
		}
		return a, nil
	case "w":
		return a.openPicker(), nil
	case "[":
		return a.stepWeek(-1), nil
	case "]":
		return a.stepWeek(1), nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		next := a.cfg
		if err := a.setupVals.Apply(&next); err != nil {
			a.flash = "Setup not saved: " + err.Error()
			return a, nil
		}
		return a.applyConfig(next)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applyConfig persists next and pushes campaign changes into the tracker.
// A reload is started when the campaign or feed changed.
func (a App) applyConfig(next config.Config) (App, tea.Cmd) {
	c, err := next.Resolve()
	if err != nil {
		a.settings.saveErr = err
		return a, nil
	}
	if err := config.SaveTo(a.cfgPath, next); err != nil {
		a.settings.saveErr = err
		return a, nil
	}
	a.settings.saveErr = nil

	prev := a.cfg
	a.cfg = next
	theme.SetActive(next.Appearance.Theme)
	a.money = cli.NewMoney(c.Currency, c.Locale)

	if prev.Campaign == next.Campaign && prev.Feed == next.Feed {
		return a, nil
	}
	var src feed.Fetcher
	if prev.Feed != next.Feed {
		src = feed.NewClient(c.FeedURL, next.FeedTimeout())
	}
	a.tracker.Reconfigure(c, src)
	a.log.Info("campaign reconfigured", zap.String("feed", c.FeedURL), zap.Float64("target", c.Target))
	a.refreshing = true
	return a, loadCmd(a.tracker)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  p200 needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	c := a.tracker.Campaign()
	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ " + campaignTitle(c.Name)))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Fetching " + feedHost(c.FeedURL) + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

var helpSections = []struct {
	title    string
	bindings []binding
}{
	{"Navigation", []binding{
		{"d b x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll breakdown / settings"},
		{"g G", "Top / bottom of breakdown"},
	}},
	{"Weeks", []binding{
		{"w", "Choose week"},
		{"[ ]", "Previous / Next week"},
	}},
	{"Actions", []binding{
		{"Enter", "Confirm / Edit setting"},
		{"Esc", "Cancel"},
		{"r", "Refresh feed"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for i, sec := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	v := a.view
	status := components.Status{
		Refreshing: a.refreshing,
		FeedDown:   v.FeedError != "",
	}
	if !v.FetchedAt.IsZero() {
		status.Fetched = humanize.Time(v.FetchedAt)
	}
	if v.Loaded() {
		status.Week = fmt.Sprintf("Week %d of %d", v.ActiveWeek, v.CurrentWeek)
	}
	footer := components.RenderStatusBar(w, status)
	if a.flash != "" {
		flashStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface).Width(w)
		footer = flashStyle.Render(" "+truncStr(a.flash, w-2)) + "\n" + footer
	}

	contentH := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	if a.picker.open {
		content = lipgloss.Place(cw, contentH, lipgloss.Center, lipgloss.Center, a.renderPicker(),
			lipgloss.WithWhitespaceBackground(t.Background))
	}
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCmd fetches the feed into t off the UI goroutine.
func loadCmd(t *tracker.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		start := time.Now()
		res := t.Load(ctx)
		return LoadedMsg{Result: res, Took: time.Since(start)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func campaignTitle(name string) string {
	if name == "" {
		name = "Project 200"
	}
	return name + " Tracker"
}

func feedHost(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
	}
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "the feed"
	}
	return raw
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
