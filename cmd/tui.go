package cmd

import (
	"fmt"

	"github.com/theirongolddev/p200/internal/config"
	"github.com/theirongolddev/p200/internal/tui"
	"github.com/theirongolddev/p200/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// stderr belongs to the alt screen.
	if flagLogFile == "" {
		logger = zap.NewNop()
	}

	needSetup := !config.Exists(flagConfig)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	t, err := newTracker(cfg)
	if err != nil {
		return err
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Tracker:    t,
		Config:     cfg,
		ConfigPath: flagConfig,
		NeedSetup:  needSetup,
		Logger:     logger.Named("tui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
