package cmd

import (
	"fmt"

	"github.com/theirongolddev/p200/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "  Config file: %s\n", flagConfig)
	if config.Exists(flagConfig) {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Campaign]")
	fmt.Fprintf(out, "    Name:     %s\n", cfg.Campaign.Name)
	fmt.Fprintf(out, "    Target:   %.0f\n", cfg.Campaign.Target)
	fmt.Fprintf(out, "    Start:    %s\n", cfg.Campaign.Start)
	fmt.Fprintf(out, "    Currency: %s (%s)\n", cfg.Campaign.Currency, cfg.Campaign.Locale)
	if _, err := cfg.Resolve(); err != nil {
		fmt.Fprintf(out, "    Problem:  %v\n", err)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Feed]")
	fmt.Fprintf(out, "    URL:     %s\n", cfg.Feed.URL)
	if cfg.Feed.TimeoutSec > 0 {
		fmt.Fprintf(out, "    Timeout: %s\n", cfg.FeedTimeout())
	} else {
		fmt.Fprintln(out, "    Timeout: none")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Display]")
	fmt.Fprintf(out, "    Variant:     %s\n", cfg.Display.Variant)
	fmt.Fprintf(out, "    Show footer: %v\n", cfg.Display.ShowFooter)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Appearance]")
	fmt.Fprintf(out, "    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Server]")
	fmt.Fprintf(out, "    Address:  %s\n", cfg.Server.Addr)
	fmt.Fprintf(out, "    Interval: %s\n", cfg.PollInterval())
	fmt.Fprintf(out, "    History:  %v (%s)\n", cfg.Server.History, historyPath(cfg.Server.DBPath))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Run `p200 setup` to reconfigure.")
	return nil
}
