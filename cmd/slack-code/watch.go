package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/slack-code/internal/tui"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Open the session dashboard for a running daemon",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	return runDashboard(ctx, cfg)
}

// runDashboard opens the dashboard. An unreachable daemon is shown in the
// dashboard rather than failing the command.
func runDashboard(ctx context.Context, cfg *config.Config) error {
	if !tui.IsTerminal() {
		return errors.New("the dashboard requires an interactive terminal; use 'slack-code sessions' instead")
	}

	opts := tui.DashboardOptions{
		Hooks:   hookToggle{installer: newInstaller(cfg)},
		Config:  cfg.Masked(),
		Version: version,
		Theme:   theme(),
	}

	client, stream, err := subscribe(ctx, cfg)
	if err == nil {
		defer func() { _ = stream.Close() }()

		opts.Events = stream
		opts.Commands = client
	} else {
		opts.Commands = transport.NewClient(cfg.GetDaemon().SocketPath)
	}

	return tui.RunDashboard(ctx, opts)
}
