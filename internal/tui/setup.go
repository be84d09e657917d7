package tui

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"
	"github.com/theirongolddev/p200/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	Name       string
	Target     string
	Start      string
	FeedURL    string
	Currency   string
	Locale     string
	Variant    string
	Theme      string
	ShowFooter bool
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Name:       cfg.Campaign.Name,
		Target:     strconv.FormatFloat(cfg.Campaign.Target, 'f', -1, 64),
		Start:      cfg.Campaign.Start,
		FeedURL:    cfg.Feed.URL,
		Currency:   cfg.Campaign.Currency,
		Locale:     cfg.Campaign.Locale,
		Variant:    cfg.Display.Variant,
		Theme:      cfg.Appearance.Theme,
		ShowFooter: cfg.Display.ShowFooter,
	}
}

// Apply writes the answers into cfg and validates the resulting campaign.
// cfg is left unchanged when validation fails.
func (v SetupValues) Apply(cfg *config.Config) error {
	target, err := parseTarget(v.Target)
	if err != nil {
		return err
	}

	next := *cfg
	next.Campaign.Name = strings.TrimSpace(v.Name)
	next.Campaign.Target = target
	next.Campaign.Start = strings.TrimSpace(v.Start)
	next.Campaign.Currency = strings.ToUpper(strings.TrimSpace(v.Currency))
	next.Campaign.Locale = strings.TrimSpace(v.Locale)
	next.Feed.URL = strings.TrimSpace(v.FeedURL)
	next.Display.Variant = v.Variant
	next.Display.ShowFooter = v.ShowFooter
	next.Appearance.Theme = v.Theme

	if _, err := tracker.ParseVariant(next.Display.Variant); err != nil {
		return err
	}
	if _, err := next.Resolve(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	variants := make([]huh.Option[string], 0, len(tracker.Variants))
	for _, v := range tracker.Variants {
		variants = append(variants, huh.NewOption(v.String(), v.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to p200").
				Description("Track weekly giving toward the campaign target.\nThese answers are saved to "+config.Path()+"."),
			huh.NewInput().
				Title("Campaign name").
				Value(&vals.Name),
			huh.NewInput().
				Title("Target amount").
				Description("Whole currency units, e.g. 200000000").
				Value(&vals.Target).
				Validate(func(s string) error {
					_, err := parseTarget(s)
					return err
				}),
			huh.NewInput().
				Title("Campaign start").
				Description("RFC 3339 with offset, e.g. 2025-11-02T00:00:00+01:00").
				Value(&vals.Start).
				Validate(validateStart),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Feed URL").
				Description("Published CSV export of the tracking spreadsheet").
				Value(&vals.FeedURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code").
				Value(&vals.Currency),
			huh.NewInput().
				Title("Locale").
				Description("BCP 47 tag used for number formatting").
				Value(&vals.Locale),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Feed layout").
				Options(variants...).
				Value(&vals.Variant),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Show the decorative footer?").
				Value(&vals.ShowFooter),
		),
	).WithShowHelp(true)
}

func parseTarget(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%w: target must be a positive number, got %q", config.ErrInvalid, s)
	}
	return f, nil
}

func validateStart(s string) error {
	if _, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err != nil {
		return errors.New("use RFC 3339, e.g. 2025-11-02T00:00:00+01:00")
	}
	return nil
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL")
	}
	return nil
}
