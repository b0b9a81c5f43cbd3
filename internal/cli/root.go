// Package cli wires the command line entrypoint: config loading,
// first-run setup, login and the TUI session.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shantheone/dstui/internal/config"
	"github.com/shantheone/dstui/internal/syno"
	"github.com/shantheone/dstui/internal/tui"
)

const sessionName = "DownloadStation"

var rootCmd = &cobra.Command{
	Use:          "dstui",
	Short:        "Terminal client for Synology Download Station",
	Long:         "dstui is a terminal client for managing download tasks on a Synology Download Station server.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run() error {
	log, closeLog := newLogger()
	defer closeLog()

	cfg, err := loadOrSetup(log)
	if err != nil {
		return err
	}
	if cfg == nil {
		// Setup aborted. Not an error.
		return nil
	}

	client := syno.NewClient(cfg.Endpoint(), log)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.DiscoverAPIs(ctx); err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Endpoint(), err)
	}
	if err := client.Login(ctx, cfg.Username, cfg.Password, sessionName); err != nil {
		return fmt.Errorf("logging in to %s: %w", cfg.Endpoint(), err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Logout(ctx, sessionName); err != nil {
			log.Warn().Err(err).Msg("logout failed")
		}
	}()

	model := tui.NewModel(client, cfg, log)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

// loadOrSetup loads the config file, falling back to the interactive
// setup form on first run. A nil config with nil error means the user
// aborted setup.
func loadOrSetup(log zerolog.Logger) (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err == nil {
		return cfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log.Info().Msg("no config file found, running first-time setup")
	cfg, aborted, err := tui.RunSetup()
	if err != nil {
		return nil, err
	}
	if aborted {
		return nil, nil
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	path, _ := config.Path()
	log.Info().Str("path", path).Msg("config saved")
	return cfg, nil
}

// newLogger writes structured logs to a file under the user cache dir,
// keeping the terminal free for the UI. Falls back to a no-op logger
// when the file cannot be opened.
func newLogger() (zerolog.Logger, func()) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	path := filepath.Join(dir, "dstui", "dstui.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}
	}
	log := zerolog.New(f).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if os.Getenv("DSTUI_DEBUG") != "" {
		log = log.Level(zerolog.DebugLevel)
	}
	return log, func() { _ = f.Close() }
}
