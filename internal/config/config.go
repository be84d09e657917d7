// Package config loads and saves p200 settings. Values are layered:
// defaults, then the TOML file, then a .env file, then P200_* variables.
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/theirongolddev/p200/internal/campaign"
)

// ErrInvalid marks configuration values that cannot describe a campaign.
var ErrInvalid = errors.New("config: invalid")

// DefaultFeedURL is the published spreadsheet of Project 200.
const DefaultFeedURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRB6nQTxvwfnkbVR3vvGC-5_Efwzolru-Lt_7cCfj-VAzwHn2s7r8PfVX9bz2OXeht92H56daBLIr7h/pub?gid=0&single=true&output=csv"

// Config holds all p200 configuration.
type Config struct {
	Campaign   CampaignConfig   `toml:"campaign"`
	Feed       FeedConfig       `toml:"feed"`
	Display    DisplayConfig    `toml:"display"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Footer     FooterConfig     `toml:"footer"`
}

// CampaignConfig describes the fundraising drive.
type CampaignConfig struct {
	Name     string  `toml:"name" env:"P200_NAME"`
	Target   float64 `toml:"target" env:"P200_TARGET"`
	Start    string  `toml:"start" env:"P200_START"` // RFC 3339 with offset
	Currency string  `toml:"currency" env:"P200_CURRENCY"`
	Locale   string  `toml:"locale" env:"P200_LOCALE"`
}

// FeedConfig locates the spreadsheet export.
type FeedConfig struct {
	URL        string `toml:"url" env:"P200_FEED_URL"`
	TimeoutSec int    `toml:"timeout_sec" env:"P200_FEED_TIMEOUT_SEC"` // 0 disables the timeout
}

// DisplayConfig holds dashboard behaviour.
type DisplayConfig struct {
	Variant    string `toml:"variant" env:"P200_VARIANT"`
	ShowFooter bool   `toml:"show_footer" env:"P200_SHOW_FOOTER"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"P200_THEME"`
}

// ServerConfig holds settings for `p200 serve`.
type ServerConfig struct {
	Addr        string `toml:"addr" env:"P200_ADDR"`
	IntervalSec int    `toml:"interval_sec" env:"P200_INTERVAL_SEC"`
	History     bool   `toml:"history" env:"P200_HISTORY"`
	DBPath      string `toml:"db_path,omitempty" env:"P200_DB_PATH"`
}

// Link is a labelled footer hyperlink.
type Link struct {
	Label string `toml:"label"`
	URL   string `toml:"url"`
}

// FooterConfig holds the decorative page footer content.
type FooterConfig struct {
	Brand           string `toml:"brand" env:"P200_FOOTER_BRAND"`
	Tagline         string `toml:"tagline"`
	QuickLinks      []Link `toml:"quick_links"`
	Legal           []Link `toml:"legal"`
	Social          []Link `toml:"social"`
	NewsletterTitle string `toml:"newsletter_title"`
	NewsletterText  string `toml:"newsletter_text"`
	ContractAddress string `toml:"contract_address"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Campaign: CampaignConfig{
			Name:     "Project 200",
			Target:   200_000_000,
			Start:    "2025-11-02T00:00:00+01:00",
			Currency: "NGN",
			Locale:   "en-NG",
		},
		Feed: FeedConfig{
			URL: DefaultFeedURL,
		},
		Display: DisplayConfig{
			Variant:    "cumulative",
			ShowFooter: true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8200",
			IntervalSec: 300,
			History:     true,
		},
		Footer: FooterConfig{
			Brand:   "Farmcat",
			Tagline: "The future of DeFi on Binance Smart Chain. Join our growing community and explore the ecosystem.",
			QuickLinks: []Link{
				{Label: "Documentation", URL: "#"},
				{Label: "Whitepaper", URL: "#"},
				{Label: "Audit Report", URL: "#"},
				{Label: "Brand Kit", URL: "#"},
			},
			Legal: []Link{
				{Label: "Terms of Service", URL: "#"},
				{Label: "Privacy Policy", URL: "#"},
				{Label: "Cookie Policy", URL: "#"},
				{Label: "Disclaimer", URL: "#"},
			},
			Social: []Link{
				{Label: "Telegram", URL: "https://t.me/farmcat"},
				{Label: "X (Twitter)", URL: "https://twitter.com/farmcat"},
				{Label: "Discord", URL: "https://discord.gg/farmcat"},
				{Label: "Medium", URL: "https://medium.com/@farmcat"},
			},
			NewsletterTitle: "Stay Ahead of the Moon",
			NewsletterText:  "Be the first to know about new features, partnerships, and exclusive community events",
			ContractAddress: "0x62bf832C5a817C160eb3504A11E96FB13681db15",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "p200")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "p200")
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LoadFrom reads the config file at path on top of the defaults.
// A missing file is not an error.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is user-supplied config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists reports whether a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ApplyEnv overlays P200_* variables onto cfg. Variables from envFile are
// read first and lose to the process environment; a missing envFile is
// ignored.
func ApplyEnv(cfg *Config, envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vars = fileVars
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("reading %s: %w", envFile, err)
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FeedTimeout returns the configured fetch timeout.
func (c Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSec) * time.Second
}

// PollInterval returns the server's feed polling interval.
func (c Config) PollInterval() time.Duration {
	if c.Server.IntervalSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Server.IntervalSec) * time.Second
}

// Resolve validates the campaign settings and builds the immutable value.
func (c Config) Resolve() (campaign.Campaign, error) {
	cc := c.Campaign
	if !(cc.Target > 0) || math.IsInf(cc.Target, 0) {
		return campaign.Campaign{}, fmt.Errorf("%w: target must be positive, got %v", ErrInvalid, cc.Target)
	}
	start, err := time.Parse(time.RFC3339, strings.TrimSpace(cc.Start))
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("%w: start %q: %w", ErrInvalid, cc.Start, err)
	}
	unit, err := currency.ParseISO(cc.Currency)
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("%w: currency %q: %w", ErrInvalid, cc.Currency, err)
	}
	tag, err := language.Parse(cc.Locale)
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("%w: locale %q: %w", ErrInvalid, cc.Locale, err)
	}
	u, err := url.Parse(strings.TrimSpace(c.Feed.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return campaign.Campaign{}, fmt.Errorf("%w: feed url %q must be an http(s) URL", ErrInvalid, c.Feed.URL)
	}

	return campaign.Campaign{
		Name:     cc.Name,
		Target:   cc.Target,
		Start:    start,
		FeedURL:  u.String(),
		Currency: unit.String(),
		Locale:   tag.String(),
	}, nil
}
