package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

const testCSV = "weeks,amount,change,cumm\n" +
	"Week 1,1000000,199000000,1000000\n" +
	"Week 2,2000000,197000000,3000000\n" +
	"Week 3,1500000,195500000,4500000\n" +
	"Week 4,500000,195000000,5000000\n"

type stubFetcher struct {
	mu   sync.Mutex
	text string
	err  error
}

func (s *stubFetcher) Fetch(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.err
}

// newTestApp returns a loaded App whose clock sits in week 3.
func newTestApp(t *testing.T, src *stubFetcher, opts ...tracker.Option) App {
	t.Helper()

	cfg := config.DefaultConfig()
	c, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	clock := campaign.FixedClock(c.WeekStart(3).Add(time.Hour))
	tr := tracker.New(c, src, append([]tracker.Option{tracker.WithClock(clock)}, opts...)...)

	a := NewApp(Options{
		Tracker:    tr,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
	})
	a = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 50})
	return update(t, a, loadCmd(tr)())
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

func keys(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadingViewBeforeFirstLoad(t *testing.T) {
	cfg := config.DefaultConfig()
	c, _ := cfg.Resolve()
	a := NewApp(Options{Tracker: tracker.New(c, &stubFetcher{text: testCSV}), Config: cfg})
	a = update(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})

	if a.loaded {
		t.Fatal("app should not be loaded before LoadedMsg")
	}
	if out := a.View(); !strings.Contains(out, "Fetching docs.google.com") {
		t.Errorf("loading view missing fetch line:\n%s", out)
	}
}

func TestLoadedDashboard(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})

	if !a.loaded {
		t.Fatal("app not loaded after LoadedMsg")
	}
	if a.view.SelectedWeek != 3 {
		t.Errorf("SelectedWeek = %d, want 3", a.view.SelectedWeek)
	}
	out := a.View()
	for _, want := range []string{"Total Given (Week 3)", "Remaining", "Progress to Target", "Given vs Remaining", "Week 3 of 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if strings.Contains(out, "Viewing past data") {
		t.Error("dashboard should not flag past data for the current week")
	}
	if !strings.Contains(out, "target minus total given") || strings.Contains(out, "target-minus-total") {
		t.Error("remaining card should describe its policy in words")
	}
}

func TestWeekPickerSelectsPastWeek(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})

	a = update(t, a, keys("w"))
	if !a.picker.open {
		t.Fatal("w should open the week picker")
	}
	// Week 4 exists in the feed but is in the future, so it is not offered.
	if got := len(a.picker.options); got != 3 {
		t.Fatalf("picker offers %d weeks, want 3", got)
	}
	if a.picker.cursor != 2 {
		t.Errorf("picker cursor = %d, want 2 (the selected week)", a.picker.cursor)
	}

	a = update(t, a, keys("k"))
	a = update(t, a, keys("enter"))
	if a.picker.open {
		t.Error("enter should close the picker")
	}
	if a.view.SelectedWeek != 2 {
		t.Errorf("SelectedWeek = %d, want 2", a.view.SelectedWeek)
	}
	if a.view.Progress.TotalGiven != 3_000_000 {
		t.Errorf("TotalGiven = %v, want 3000000", a.view.Progress.TotalGiven)
	}
	if out := a.View(); !strings.Contains(out, "Viewing past data (Current: Week 3)") {
		t.Error("dashboard should flag past data after picking week 2")
	}
}

func TestPickerEscapeKeepsSelection(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	a = update(t, a, keys("w"))
	a = update(t, a, keys("k"))
	a = update(t, a, keys("esc"))
	if a.picker.open {
		t.Error("esc should close the picker")
	}
	if a.view.SelectedWeek != 3 {
		t.Errorf("SelectedWeek = %d, want 3", a.view.SelectedWeek)
	}
}

func TestStepWeekStaysInRange(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})

	a = update(t, a, keys("]"))
	if a.view.SelectedWeek != 3 {
		t.Errorf("] past the current week moved to %d", a.view.SelectedWeek)
	}
	a = update(t, a, keys("["))
	a = update(t, a, keys("["))
	a = update(t, a, keys("["))
	if a.view.SelectedWeek != 1 {
		t.Errorf("SelectedWeek = %d after three [, want 1", a.view.SelectedWeek)
	}
}

func TestWeeklyVariantRefusesPicker(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV}, tracker.WithVariant(tracker.Weekly))
	a = update(t, a, keys("w"))
	if a.picker.open {
		t.Error("weekly layout should not open the picker")
	}
	if a.flash == "" {
		t.Error("weekly layout should explain why the picker did not open")
	}
}

func TestFeedFailureShowsEmptyDashboard(t *testing.T) {
	a := newTestApp(t, &stubFetcher{err: errors.New("boom")})

	if !a.loaded {
		t.Fatal("a failed fetch still completes the load")
	}
	if a.view.WeekCount != 0 {
		t.Errorf("WeekCount = %d, want 0", a.view.WeekCount)
	}
	if !strings.HasPrefix(a.flash, "Feed unavailable") {
		t.Errorf("flash = %q, want feed unavailable notice", a.flash)
	}
	if out := a.View(); !strings.Contains(out, "No weeks recorded yet.") {
		t.Error("empty feed should say no weeks are recorded")
	}
}

func TestTabKeys(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})

	a = update(t, a, keys("b"))
	if a.activeTab != tabBreakdown {
		t.Fatalf("activeTab = %d after b, want %d", a.activeTab, tabBreakdown)
	}
	if out := a.View(); !strings.Contains(out, "Weekly Amounts") || !strings.Contains(out, "(Selected)") {
		t.Error("breakdown tab should show the chart and mark the selected week")
	}

	a = update(t, a, keys("x"))
	if a.activeTab != tabSettings {
		t.Fatalf("activeTab = %d after x, want %d", a.activeTab, tabSettings)
	}
	a = update(t, a, tea.KeyMsg{Type: tea.KeyLeft})
	if a.activeTab != tabBreakdown {
		t.Errorf("activeTab = %d after left, want %d", a.activeTab, tabBreakdown)
	}
}

func TestMouseClickSwitchesTab(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	x := tabWidthForTest(0, 0) + 1 + 2 // inside "Breakdown"
	a = update(t, a, tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if a.activeTab != tabBreakdown {
		t.Errorf("activeTab = %d after click, want %d", a.activeTab, tabBreakdown)
	}
}

func TestHelpToggle(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	a = update(t, a, keys("?"))
	if !a.showHelp || !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Fatal("? should show help")
	}
	a = update(t, a, keys("j"))
	if a.showHelp {
		t.Error("any key should dismiss help")
	}
}

func TestBreakdownScrollClamps(t *testing.T) {
	var s breakdownState
	s.handleKey("k", 4)
	if s.offset != 0 {
		t.Errorf("offset = %d after k at top, want 0", s.offset)
	}
	s.handleKey("G", 4)
	if s.offset != 3 {
		t.Errorf("offset = %d after G, want 3", s.offset)
	}
	s.handleKey("j", 4)
	if s.offset != 3 {
		t.Errorf("offset = %d after j at bottom, want 3", s.offset)
	}
	if s.handleKey("z", 4) {
		t.Error("z should not be consumed")
	}
}

func TestTooNarrow(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	a = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(a.View(), "Terminal too narrow") {
		t.Error("narrow terminal should show the width notice")
	}
}
