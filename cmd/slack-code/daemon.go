package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-skalski/slack-code/internal/daemon"
	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/internal/notifier"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

var metricsAddr string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Control the background daemon",
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the background",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is running",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon in the foreground",
	Long: `Run the daemon in the current process until SIGINT or SIGTERM.

This is what 'daemon start' executes in the background; use it directly
under a service manager.`,
	Args: cobra.NoArgs,
	RunE: runDaemonRun,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.AddCommand(daemonStartCmd, daemonStopCmd, daemonStatusCmd, daemonRunCmd)

	daemonRunCmd.Flags().StringVar(
		&metricsAddr,
		"metrics-addr",
		"",
		"Serve Prometheus metrics on this address (overrides metrics.listen_addr)",
	)
}

func runDaemonStart(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	ctrl := newController(cfg)

	pid, err := ctrl.Start(cmd.Context())
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		running, _ := ctrl.ReadPID()
		fmt.Fprintf(cmd.OutOrStdout(), "Daemon is already running (PID %d)\n", running)

		return nil
	}

	if err != nil {
		return errors.Wrap(err, "starting daemon")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Daemon started (PID %d)\n", pid)
	fmt.Fprintf(cmd.OutOrStdout(), "  Socket: %s\n", cfg.GetDaemon().SocketPath)
	fmt.Fprintf(cmd.OutOrStdout(), "  Log:    %s\n", cfg.GetDaemon().LogFile)

	return nil
}

func runDaemonStop(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	result, err := newController(cfg).Stop(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "stopping daemon")
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.String())

	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	daemonCfg := cfg.GetDaemon()
	probe := newController(cfg).Probe(cmd.Context())
	out := cmd.OutOrStdout()

	switch {
	case probe.Usable():
		fmt.Fprintf(out, "Daemon: running (PID %d)\n", probe.PID)
	case probe.ProcessAlive:
		fmt.Fprintf(out, "Daemon: starting or unresponsive (PID %d)\n", probe.PID)
	case probe.PID != 0:
		fmt.Fprintf(out, "Daemon: not running (stale PID %d)\n", probe.PID)
	default:
		fmt.Fprintln(out, "Daemon: not running")
	}

	fmt.Fprintf(out, "  Socket: %s\n", daemonCfg.SocketPath)
	fmt.Fprintf(out, "  PID file: %s\n", daemonCfg.PIDFile)

	slack := cfg.GetSlack()
	if slack.IsConfigured() && slack.UserID != "" {
		fmt.Fprintln(out, "  Slack: configured")
	} else {
		fmt.Fprintln(out, "  Slack: not configured (run 'slack-code setup')")
	}

	return nil
}

func runDaemonRun(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(map[string]any{"metrics-addr": metricsAddr})
	if err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.GetDaemon().GetLogLevel())
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	log := logger.New(os.Stderr, level)
	ctx := context.Background()

	ctrl := newController(cfg, daemon.WithControllerLogger(log))
	if err := ctrl.PrepareRun(ctx); err != nil {
		return err
	}

	defer ctrl.ReleasePID(os.Getpid())

	m := metrics.New()
	opts := []daemon.Option{
		daemon.WithLogger(log),
		daemon.WithMetrics(m),
	}

	slack, err := notifier.NewSlack(
		cfg.GetSlack(),
		notifier.WithLogger(log.With("component", "slack")),
		notifier.WithMetrics(m),
	)

	switch {
	case errors.Is(err, notifier.ErrNotConfigured):
		log.Info("running without slack", "reason", err.Error())
	case err != nil:
		return errors.Wrap(err, "creating slack notifier")
	default:
		opts = append(opts, daemon.WithNotifier(slack))
	}

	d := daemon.New(cfg, opts...)

	defer func() {
		if err := d.Close(); err != nil {
			log.Error("closing daemon", "error", err.Error())
		}
	}()

	log.Info("daemon starting",
		"pid", os.Getpid(),
		"socket", cfg.GetDaemon().SocketPath,
		"version", version,
	)

	return d.Run(ctx)
}
