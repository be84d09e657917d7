package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/p200/internal/config"
)

func TestApplySettingValidates(t *testing.T) {
	cfg := config.DefaultConfig()

	cases := []struct {
		field int
		val   string
	}{
		{settingsFieldTheme, "neon"},
		{settingsFieldTarget, "-5"},
		{settingsFieldTarget, "lots"},
		{settingsFieldStart, "2025-11-02"},
		{settingsFieldFeedURL, "ftp://example.com/feed.csv"},
		{settingsFieldVariant, "monthly"},
		{settingsFieldFooter, "maybe"},
		{settingsFieldInterval, "5"},
	}
	for _, c := range cases {
		if _, err := applySetting(cfg, c.field, c.val); err == nil {
			t.Errorf("applySetting(field %d, %q) = nil error, want failure", c.field, c.val)
		}
	}
}

func TestApplySettingUpdatesCopy(t *testing.T) {
	cfg := config.DefaultConfig()
	next, err := applySetting(cfg, settingsFieldTarget, "250,000,000")
	if err != nil {
		t.Fatalf("applySetting error: %v", err)
	}
	if next.Campaign.Target != 250_000_000 {
		t.Errorf("Target = %v, want 250000000", next.Campaign.Target)
	}
	if cfg.Campaign.Target != 200_000_000 {
		t.Errorf("original config mutated: Target = %v", cfg.Campaign.Target)
	}

	next, err = applySetting(cfg, settingsFieldVariant, "Weekly")
	if err != nil || next.Display.Variant != "weekly" {
		t.Errorf("variant = %q, %v; want weekly", next.Display.Variant, err)
	}
}

func TestSettingsEditSavesAndReloads(t *testing.T) {
	src := &stubFetcher{text: testCSV}
	a := newTestApp(t, src)
	a = update(t, a, keys("x"))

	// Move to Target and replace its value.
	a = update(t, a, keys("j"))
	a = update(t, a, keys("j"))
	a = update(t, a, keys("enter"))
	if !a.settings.editing {
		t.Fatal("enter should start editing")
	}
	a.settings.input.SetValue("100000000")

	m, cmd := a.Update(keys("enter"))
	a = m.(App)
	if a.settings.saveErr != nil {
		t.Fatalf("save error: %v", a.settings.saveErr)
	}
	if !a.settings.saved {
		t.Error("settings should report saved")
	}
	if cmd == nil {
		t.Fatal("a target change should trigger a reload")
	}

	saved, err := config.LoadFrom(a.cfgPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if saved.Campaign.Target != 100_000_000 {
		t.Errorf("saved target = %v, want 100000000", saved.Campaign.Target)
	}

	a = update(t, a, loadCmd(a.tracker)())
	if a.view.Campaign.Target != 100_000_000 {
		t.Errorf("view target = %v after reload", a.view.Campaign.Target)
	}
	if a.view.Progress.Remaining != 95_500_000 {
		t.Errorf("Remaining = %v, want 95500000", a.view.Progress.Remaining)
	}
}

func TestSettingsEditEscCancels(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	a = update(t, a, keys("x"))
	a = update(t, a, keys("enter"))
	a = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.settings.editing {
		t.Error("esc should stop editing")
	}
	if a.settings.saved {
		t.Error("esc should not save")
	}
}

func TestSettingsRendersFields(t *testing.T) {
	a := newTestApp(t, &stubFetcher{text: testCSV})
	a = update(t, a, keys("x"))
	out := a.View()
	for _, want := range []string{"Theme:", "Target:", "Feed URL:", "Refresh Interval:", "Config file:"} {
		if !strings.Contains(out, want) {
			t.Errorf("settings tab missing %q", want)
		}
	}
}
