package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/p200/internal/cli"
	"github.com/theirongolddev/p200/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagHistoryPrune int
	flagHistoryShow  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List feed snapshots stored by `p200 serve`",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Max snapshots to list (0 = all)")
	historyCmd.Flags().IntVar(&flagHistoryPrune, "prune", 0, "Keep only the newest N snapshots")
	historyCmd.Flags().StringVar(&flagHistoryShow, "show", "", "Show the weeks of the snapshot with this ID (or ID prefix)")
	rootCmd.AddCommand(historyCmd)
}

func historyPath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return store.DefaultPath()
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	h, err := store.Open(historyPath(cfg.Server.DBPath))
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	out := cmd.OutOrStdout()
	if flagHistoryPrune > 0 {
		n, err := h.Prune(flagHistoryPrune)
		if err != nil {
			return fmt.Errorf("pruning history: %w", err)
		}
		fmt.Fprintf(out, "  Pruned %d snapshots\n", n)
	}

	money := cli.NewMoney(cfg.Campaign.Currency, cfg.Campaign.Locale)
	if flagHistoryShow != "" {
		return showSnapshot(out, h, flagHistoryShow, money)
	}

	snaps, err := h.List(flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("listing history: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "\n  No snapshots stored yet. Run `p200 serve` to start recording.")
		return nil
	}

	t := cli.Table{
		Title:   "Feed Snapshots",
		Headers: []string{"ID", "Fetched", "Weeks", "Current", "Total Given", "Checksum"},
	}
	for _, s := range snaps {
		t.Rows = append(t.Rows, []string{
			s.ID[:8],
			humanize.Time(s.FetchedAt),
			strconv.Itoa(s.WeekCount),
			strconv.Itoa(s.CurrentWeek),
			money.Format(s.TotalGiven),
			fmt.Sprintf("%016x", s.Checksum)[:8],
		})
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderTable(t))
	if total, err := h.Count(); err == nil {
		fmt.Fprintf(out, "  %s snapshots stored. Use --show <id> for the weeks of one.\n", cli.FormatNumber(int64(total)))
	}
	return nil
}

// findSnapshot resolves an ID or unique ID prefix.
func findSnapshot(h *store.History, id string) (store.Snapshot, error) {
	snaps, err := h.List(0)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("listing history: %w", err)
	}
	var found []store.Snapshot
	for _, s := range snaps {
		if strings.HasPrefix(s.ID, id) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return store.Snapshot{}, fmt.Errorf("no snapshot with id %q", id)
	case 1:
		return found[0], nil
	}
	return store.Snapshot{}, fmt.Errorf("id prefix %q matches %d snapshots", id, len(found))
}

func showSnapshot(out io.Writer, h *store.History, id string, money cli.Money) error {
	s, err := findSnapshot(h, id)
	if err != nil {
		return err
	}
	weeks, err := h.Weeks(s.ID)
	if err != nil {
		return fmt.Errorf("loading snapshot weeks: %w", err)
	}

	t := cli.Table{
		Title:   fmt.Sprintf("Snapshot %s (fetched %s)", s.ID[:8], humanize.Time(s.FetchedAt)),
		Headers: []string{"Week", "Amount", "Change", "Cumulative"},
	}
	for _, w := range weeks {
		t.Rows = append(t.Rows, []string{w.Label, money.Format(w.Amount), money.Format(w.Change), money.Format(w.Cumulative)})
	}
	fmt.Fprintln(out)
	if len(t.Rows) == 0 {
		fmt.Fprintf(out, "  Snapshot %s has no parsed weeks.\n", s.ID[:8])
		return nil
	}
	fmt.Fprint(out, cli.RenderTable(t))
	return nil
}
