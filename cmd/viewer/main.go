package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/insta-viewer/internal/config"
	"github.com/orgball2608/insta-viewer/internal/relay/relayimpl"
	"github.com/orgball2608/insta-viewer/internal/session"
	"github.com/orgball2608/insta-viewer/internal/tui"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the viewer CLI.
func newRootCmd() *cobra.Command {
	var (
		relayURL string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:   "viewer [username]",
		Short: "Browse public Instagram profiles in the terminal",
		Long: `viewer talks to the relay and shows a profile's header, its media feed
and a lightbox. Press / to search, arrows to navigate and o to open the current
item in the browser.

Environment:
` + config.Usage(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if relayURL != "" {
				cfg.Viewer.RelayURL = relayURL
			}

			var username string
			if len(args) == 1 {
				username = args[0]
			}
			return run(cmd.Context(), cfg, username)
		},
	}

	cmd.Flags().StringVar(&relayURL, "relay", "", "relay base URL (overrides VIEWER_RELAY_URL)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file to read")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, username string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Viewer.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.New(logger.Opts{Env: cfg.Env, Output: logFile})
	log.Info("Viewer starting", "relay", cfg.Viewer.RelayURL, "username", username)

	sess := session.New(session.Opts{
		Relay:           relayimpl.NewClient(cfg.Viewer.RelayURL, relayimpl.WithTimeout(cfg.Viewer.Timeout)),
		Logger:          log,
		Clock:           clockwork.NewRealClock(),
		PageSize:        cfg.Viewer.PageSize,
		ScrollDebounce:  cfg.Viewer.ScrollDebounce,
		ScrollThreshold: cfg.Viewer.ScrollThreshold,
	})
	defer sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		tui.NewModel(ctx, sess, username),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	sess.OnChange(func() { go p.Send(tui.SessionChanged{}) })

	if _, err := p.Run(); err != nil {
		log.Error("Viewer exited with error", "error", err)
		return err
	}
	log.Info("Viewer stopped")
	return nil
}
