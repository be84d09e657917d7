package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigBuildsCampaign(t *testing.T) {
	c, err := DefaultConfig().Resolve()
	if err != nil {
		t.Fatalf("Campaign: %v", err)
	}
	if c.Target != 200_000_000 {
		t.Fatalf("Target = %v, want 200000000", c.Target)
	}
	want := time.Date(2025, 11, 1, 23, 0, 0, 0, time.UTC)
	if !c.Start.Equal(want) {
		t.Fatalf("Start = %v, want %v", c.Start, want)
	}
	if c.Currency != "NGN" || c.Locale != "en-NG" {
		t.Fatalf("Currency, Locale = %q, %q; want NGN, en-NG", c.Currency, c.Locale)
	}
}

func TestCampaignValidation(t *testing.T) {
	cases := map[string]func(*Config){
		"zero target":  func(c *Config) { c.Campaign.Target = 0 },
		"NaN target":   func(c *Config) { c.Campaign.Target = math.NaN() },
		"+Inf target":  func(c *Config) { c.Campaign.Target = math.Inf(1) },
		"-Inf target":  func(c *Config) { c.Campaign.Target = math.Inf(-1) },
		"bad start":    func(c *Config) { c.Campaign.Start = "2025-11-02" },
		"bad currency": func(c *Config) { c.Campaign.Currency = "NAIRA" },
		"bad locale":   func(c *Config) { c.Campaign.Locale = "not a locale!" },
		"bad url":      func(c *Config) { c.Feed.URL = "ftp://example.com/x.csv" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := cfg.Resolve(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8200" {
		t.Fatalf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p200", "config.toml")
	cfg := DefaultConfig()
	cfg.Campaign.Target = 5_000
	cfg.Display.Variant = "weekly"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Campaign.Target != 5_000 || got.Display.Variant != "weekly" {
		t.Fatalf("round trip lost values: %+v", got)
	}
	if len(got.Footer.Social) != 4 {
		t.Fatalf("Footer.Social = %d links, want 4", len(got.Footer.Social))
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[campaign]\ntarget = 1000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Campaign.Target != 1000 {
		t.Fatalf("Target = %v, want 1000", cfg.Campaign.Target)
	}
	if cfg.Campaign.Currency != "NGN" {
		t.Fatalf("Currency = %q, want default NGN", cfg.Campaign.Currency)
	}
}

func TestApplyEnvLayering(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "P200_TARGET=750\nP200_VARIANT=weekly\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("P200_TARGET", "900")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, envFile); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Campaign.Target != 900 {
		t.Fatalf("Target = %v, want process env 900", cfg.Campaign.Target)
	}
	if cfg.Display.Variant != "weekly" {
		t.Fatalf("Variant = %q, want weekly from .env", cfg.Display.Variant)
	}
	if cfg.Campaign.Name != "Project 200" {
		t.Fatalf("Name = %q, want default kept", cfg.Campaign.Name)
	}
}

func TestApplyEnvMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
}

func TestApplyEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("P200_TARGET", "lots")
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, ""); err == nil {
		t.Fatal("ApplyEnv should reject a non-numeric target")
	}
}

func TestNonFiniteTargetFromFileAndEnvIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[campaign]\ntarget = inf\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if _, err := cfg.Resolve(); !errors.Is(err, ErrInvalid) {
		t.Errorf("toml inf: err = %v, want ErrInvalid", err)
	}

	t.Setenv("P200_TARGET", "NaN")
	cfg = DefaultConfig()
	if err := ApplyEnv(&cfg, ""); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if _, err := cfg.Resolve(); !errors.Is(err, ErrInvalid) {
		t.Errorf("env NaN: err = %v, want ErrInvalid", err)
	}
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if Exists(path) {
		t.Fatal("Exists before save = true")
	}
	if err := SaveTo(path, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Fatal("Exists after save = false")
	}
}

func TestPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got, want := Path(), filepath.Join(dir, "p200", "config.toml"); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
