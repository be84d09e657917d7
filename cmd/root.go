// Package cmd implements the p200 CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/p200/internal/campaign"
	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/feed"
	"github.com/theirongolddev/p200/internal/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig  string
	flagEnvFile string
	flagVerbose bool
	flagQuiet   bool
	flagLogFile string
	flagVariant string
	flagNow     string
)

// logger is built in PersistentPreRunE; commands may replace it.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "p200",
	Short: "Project 200 giving tracker",
	Long:  "Track weekly giving toward the Project 200 target from the published spreadsheet.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		l, err := buildLogger()
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.Path(), "Config file path")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional .env file with P200_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&flagVariant, "variant", "", "Feed layout: cumulative or weekly")
	rootCmd.PersistentFlags().StringVar(&flagNow, "now", "", "Pin the clock to an RFC 3339 time")
	rootCmd.Flags().IntVar(&flagWeek, "week", 0, "Show this week instead of the current one")
}

func buildLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableStacktrace = true
	switch {
	case flagVerbose:
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case flagQuiet:
		zc.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	if flagLogFile != "" {
		zc.OutputPaths = []string{flagLogFile}
		zc.ErrorOutputPaths = []string{flagLogFile}
	}
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// loadConfig layers the config file, the .env file, the environment and
// the --variant flag.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFrom(flagConfig)
	if err != nil {
		return cfg, err
	}
	if err := config.ApplyEnv(&cfg, flagEnvFile); err != nil {
		return cfg, err
	}
	if flagVariant != "" {
		cfg.Display.Variant = flagVariant
	}
	return cfg, nil
}

// newTracker builds a tracker for cfg honoring the --now flag.
func newTracker(cfg config.Config) (*tracker.Tracker, error) {
	c, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	v, err := tracker.ParseVariant(cfg.Display.Variant)
	if err != nil {
		return nil, err
	}

	opts := []tracker.Option{
		tracker.WithVariant(v),
		tracker.WithLogger(logger),
	}
	if flagNow != "" {
		now, err := time.Parse(time.RFC3339, flagNow)
		if err != nil {
			return nil, fmt.Errorf("--now: %w", err)
		}
		opts = append(opts, tracker.WithClock(campaign.FixedClock(now)))
	}

	src := feed.NewClient(cfg.Feed.URL, cfg.FeedTimeout())
	return tracker.New(c, src, opts...), nil
}
