package tui

import (
	"errors"
	"testing"

	"github.com/theirongolddev/p200/internal/config"
)

func TestSetupValuesRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	vals.Name = "  Harvest Drive "
	vals.Target = "1,000,000"
	vals.Currency = "usd"
	vals.Locale = "en-US"
	vals.Theme = "terminal"

	if err := vals.Apply(&cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Campaign.Name != "Harvest Drive" {
		t.Errorf("Name = %q", cfg.Campaign.Name)
	}
	if cfg.Campaign.Target != 1_000_000 {
		t.Errorf("Target = %v, want 1000000", cfg.Campaign.Target)
	}
	if cfg.Campaign.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Campaign.Currency)
	}
	if cfg.Appearance.Theme != "terminal" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
}

func TestSetupApplyRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	before := cfg.Campaign

	vals := SetupValuesFrom(cfg)
	vals.Currency = "XXXX"
	err := vals.Apply(&cfg)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("Apply error = %v, want ErrInvalid", err)
	}
	if cfg.Campaign != before {
		t.Error("config changed despite validation failure")
	}

	vals = SetupValuesFrom(cfg)
	vals.Target = "0"
	if err := vals.Apply(&cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("zero target error = %v, want ErrInvalid", err)
	}
}

func TestNewSetupFormBuilds(t *testing.T) {
	vals := SetupValuesFrom(config.DefaultConfig())
	if NewSetupForm(&vals) == nil {
		t.Fatal("NewSetupForm returned nil")
	}
}
