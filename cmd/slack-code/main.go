// Package main provides the slack-code CLI: daemon control, hook
// registration, session listing and the dashboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/slack-code/internal/color"
	internalconfig "github.com/smykla-skalski/slack-code/internal/config"
	"github.com/smykla-skalski/slack-code/internal/daemon"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var (
	configPath   string
	socketPath   string
	logLevelFlag string
	noColorFlag  bool
	keepDaemon   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slack-code",
	Short: "Track Claude Code sessions and mirror them to Slack",
	Long: `slack-code tracks Claude Code sessions reported by hooks and mirrors their
progress into a Slack thread per session.

Without a subcommand it opens the session dashboard, starting the daemon in
the background when needed and stopping it again on exit.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		checkVersionFlag()
	},
	RunE:              runRoot,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to configuration file (default: $XDG_CONFIG_HOME/slack-code/config.toml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&socketPath,
		"socket",
		"",
		"Path to the daemon socket (overrides daemon.socket_path)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevelFlag,
		"log-level",
		"",
		"Daemon log level: debug, info, error (overrides daemon.log_level)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&noColorFlag,
		"no-color",
		false,
		"Disable colored output",
	)

	rootCmd.Flags().BoolVar(
		&keepDaemon,
		"keep-daemon",
		false,
		"Leave the daemon running after the dashboard exits",
	)
}

// loadConfig loads configuration with CLI flag overrides applied.
func loadConfig(extra map[string]any) (*config.Config, error) {
	loader := internalconfig.NewKoanfLoader()
	if configPath != "" {
		loader.WithConfigPath(configPath)
	}

	flags := map[string]any{
		"socket":    socketPath,
		"log-level": logLevelFlag,
	}

	for key, value := range extra {
		flags[key] = value
	}

	cfg, err := loader.Load(flags)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	return cfg, nil
}

// newController returns a lifecycle controller whose spawned daemon sees the
// same overrides as this process. The daemon runs from "/", so the config
// path is made absolute.
func newController(cfg *config.Config, opts ...daemon.ControllerOption) *daemon.Controller {
	args := []string{"daemon", "run"}

	if configPath != "" {
		path, err := filepath.Abs(configPath)
		if err != nil {
			path = configPath
		}

		args = append(args, "--config", path)
	}

	if socketPath != "" {
		args = append(args, "--socket", socketPath)
	}

	if logLevelFlag != "" {
		args = append(args, "--log-level", logLevelFlag)
	}

	return daemon.NewController(
		cfg.GetDaemon(),
		append([]daemon.ControllerOption{daemon.WithCommand("", args...)}, opts...)...,
	)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func theme() color.Theme {
	return color.NewTheme(color.Enabled(noColorFlag) && color.IsTerminal(os.Stdout))
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ctrl := newController(cfg)

	startedHere := !ctrl.IsRunning(ctx)
	if startedHere {
		if err := ctrl.StartBackground(ctx); err != nil {
			return errors.Wrap(err, "starting daemon")
		}
	}

	runErr := runDashboard(ctx, cfg)

	if startedHere && !keepDaemon {
		if _, err := ctrl.Stop(context.Background()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to stop daemon: %v\n", err)
		}
	}

	return runErr
}
