package cmd

import (
	"fmt"

	"github.com/theirongolddev/p200/internal/chart"
	"github.com/theirongolddev/p200/internal/cli"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	flagChartOut    string
	flagChartWeek   int
	flagChartWidth  float64
	flagChartHeight float64
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Export the Given vs Remaining donut as an image",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartOut, "out", "o", "donut.png", "Output file (.png, .svg or .pdf)")
	chartCmd.Flags().IntVar(&flagChartWeek, "week", 0, "Chart this week instead of the current one")
	chartCmd.Flags().Float64Var(&flagChartWidth, "width", 5, "Image width in inches")
	chartCmd.Flags().Float64Var(&flagChartHeight, "height", 5, "Image height in inches")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, _ []string) error {
	if _, err := chart.FormatForPath(flagChartOut); err != nil {
		return err
	}

	cfg, t, err := loadTracker(cmd.Context())
	if err != nil {
		return err
	}
	if flagChartWeek > 0 {
		if err := t.Select(flagChartWeek); err != nil {
			return fmt.Errorf("--week %d: %w", flagChartWeek, err)
		}
	}

	v := t.View()
	money := cli.NewMoney(cfg.Campaign.Currency, cfg.Campaign.Locale)
	opts := chart.Options{
		Width:  vg.Length(flagChartWidth) * vg.Inch,
		Height: vg.Length(flagChartHeight) * vg.Inch,
		Title:  fmt.Sprintf("%s: Week %d", campaignName(cfg.Campaign.Name), v.ActiveWeek),
		Format: money.Format,
	}
	if err := chart.WriteFile(flagChartOut, v, opts); err != nil {
		return err
	}

	logger.Debug("chart written")
	fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s (%s of %s, %s)\n",
		flagChartOut, money.Format(v.Progress.TotalGiven), money.Format(v.Campaign.Target), cli.FormatPercent(v.Progress.Percent))
	return nil
}

func campaignName(name string) string {
	if name == "" {
		return "Project 200"
	}
	return name
}
