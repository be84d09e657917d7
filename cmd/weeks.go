package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/tracker"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagWeeksFormat string

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "Weekly breakdown as a table or an export",
	RunE:  runWeeks,
}

func init() {
	weeksCmd.Flags().StringVarP(&flagWeeksFormat, "format", "f", "table", "Output format: table, json, csv or yaml")
	rootCmd.AddCommand(weeksCmd)
}

// weekRow is the export shape of one breakdown row. Unparseable amounts
// are nil and export as null or an empty CSV cell.
type weekRow struct {
	Week       int      `json:"week" yaml:"week"`
	Label      string   `json:"label" yaml:"label"`
	Amount     *float64 `json:"amount" yaml:"amount"`
	Change     *float64 `json:"change" yaml:"change"`
	Cumulative *float64 `json:"cumulative" yaml:"cumulative"`
	Active     bool     `json:"active" yaml:"active"`
}

func runWeeks(cmd *cobra.Command, _ []string) error {
	cfg, t, err := loadTracker(cmd.Context())
	if err != nil {
		return err
	}
	if !flagQuiet {
		for _, w := range tracker.CheckConsistency(t.Records()) {
			fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
		}
	}

	v := t.View()
	out := cmd.OutOrStdout()
	switch flagWeeksFormat {
	case "table", "":
		money := cli.NewMoney(cfg.Campaign.Currency, cfg.Campaign.Locale)
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderBreakdown(v, money))
		if len(v.Breakdown) > 0 {
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderWeeklyBars(v, money, 30))
		}
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(weekRows(v))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(weekRows(v)); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		return writeWeeksCSV(out, weekRows(v))
	}
	return fmt.Errorf("unknown format %q (want table, json, csv or yaml)", flagWeeksFormat)
}

// weekRows converts the breakdown.
func weekRows(v tracker.View) []weekRow {
	rows := make([]weekRow, 0, len(v.Breakdown))
	for i, b := range v.Breakdown {
		n, ok := b.Week.Number()
		if !ok {
			n = i + 1
		}
		rows = append(rows, weekRow{
			Week:       n,
			Label:      b.Week.Label,
			Amount:     finite(b.Week.Amount),
			Change:     finite(b.Week.Change),
			Cumulative: finite(b.Week.Cumulative),
			Active:     b.Highlight,
		})
	}
	return rows
}

func writeWeeksCSV(w io.Writer, rows []weekRow) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"week", "label", "amount", "change", "cumulative", "active"})
	for _, r := range rows {
		_ = cw.Write([]string{
			strconv.Itoa(r.Week),
			r.Label,
			csvFloat(r.Amount),
			csvFloat(r.Change),
			csvFloat(r.Cumulative),
			strconv.FormatBool(r.Active),
		})
	}
	cw.Flush()
	return cw.Error()
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func csvFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
