package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tracker"

	"github.com/spf13/cobra"
)

var flagWeek int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "One-shot dashboard: totals, progress, donut and breakdown",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&flagWeek, "week", 0, "Show this week instead of the current one")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, t, err := loadTracker(cmd.Context())
	if err != nil {
		return err
	}

	if flagWeek > 0 {
		if err := t.Select(flagWeek); err != nil {
			return fmt.Errorf("--week %d: %w", flagWeek, err)
		}
	}

	v := t.View()
	if v.FeedError != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Feed unavailable, showing an empty dashboard\n")
	}

	d := cli.Dashboard{Money: cli.NewMoney(cfg.Campaign.Currency, cfg.Campaign.Locale)}
	if cfg.Display.ShowFooter {
		d.Footer = &cfg.Footer
	}
	fmt.Print(cli.RenderDashboard(v, d))
	return nil
}

// loadTracker builds a tracker from the layered config and loads the feed once.
func loadTracker(ctx context.Context) (config.Config, *tracker.Tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	t, err := newTracker(cfg)
	if err != nil {
		return cfg, nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	t.Load(ctx)
	return cfg, t, nil
}
