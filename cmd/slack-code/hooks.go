package main

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smykla-skalski/slack-code/internal/hooks"
	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var settingsPath string

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage Claude Code hook registrations",
	Long: `Manage the SessionStart, SessionEnd, Notification and Stop hooks that
report sessions to the daemon.

Registrations live in ~/.claude/settings.json. Unrelated settings and hooks
are preserved, and a timestamped backup is written before each change.`,
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register slack-code hooks",
	Args:  cobra.NoArgs,
	RunE:  runHooksInstall,
}

var hooksUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove slack-code hooks",
	Args:  cobra.NoArgs,
	RunE:  runHooksUninstall,
}

var hooksStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which hooks are registered",
	Args:  cobra.NoArgs,
	RunE:  runHooksStatus,
}

func init() {
	rootCmd.AddCommand(hooksCmd)
	hooksCmd.AddCommand(hooksInstallCmd, hooksUninstallCmd, hooksStatusCmd)

	hooksCmd.PersistentFlags().StringVar(
		&settingsPath,
		"settings",
		"",
		"Path to Claude Code settings.json (default: ~/.claude/settings.json)",
	)
}

// hookCommand returns the hook binary to register, preferring an absolute
// path from PATH.
func hookCommand() string {
	if path, err := exec.LookPath(hooks.DefaultCommand); err == nil {
		return path
	}

	return hooks.DefaultCommand
}

func newInstaller(cfg *config.Config) *hooks.Installer {
	path := settingsPath
	if path == "" {
		path = xdg.ClaudeSettingsFile()
	}

	return hooks.NewInstaller(
		path,
		hooks.WithCommand(hookCommand()),
		hooks.WithTimeout(cfg.GetDefaults().GetHookTimeout()),
	)
}

func runHooksInstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	installer := newInstaller(cfg)

	result, err := installer.Install()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(result.Changed) == 0 {
		fmt.Fprintf(out, "Hooks already installed in %s\n", installer.Path())

		return nil
	}

	fmt.Fprintf(out, "Installed hooks in %s\n", installer.Path())
	printChanged(out, result)

	return nil
}

func runHooksUninstall(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	installer := newInstaller(cfg)

	result, err := installer.Uninstall()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(result.Changed) == 0 {
		fmt.Fprintf(out, "No slack-code hooks found in %s\n", installer.Path())

		return nil
	}

	fmt.Fprintf(out, "Removed hooks from %s\n", installer.Path())
	printChanged(out, result)

	return nil
}

func runHooksStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	status, err := newInstaller(cfg).Status()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if status.All() {
		fmt.Fprintln(out, "Hooks: installed")
	} else {
		fmt.Fprintf(out, "Hooks: not installed (missing: %s)\n", strings.Join(status.Missing(), ", "))
	}

	fmt.Fprintf(out, "  Settings: %s\n", status.Path)

	for _, event := range hooks.Events {
		mark := " "
		if status.Installed[event] {
			mark = "x"
		}

		fmt.Fprintf(out, "  [%s] %s\n", mark, event)
	}

	return nil
}

func printChanged(out io.Writer, result hooks.Result) {
	for _, event := range result.Changed {
		fmt.Fprintf(out, "  %s\n", event)
	}

	if result.Backup != "" {
		fmt.Fprintf(out, "Backup: %s\n", result.Backup)
	}
}

// hookToggle adapts the installer to the dashboard's hook switch.
type hookToggle struct {
	installer *hooks.Installer
}

func (h hookToggle) Installed() (bool, error) {
	status, err := h.installer.Status()
	if err != nil {
		return false, err
	}

	return status.All(), nil
}

func (h hookToggle) Install() error {
	_, err := h.installer.Install()

	return err
}

func (h hookToggle) Uninstall() error {
	_, err := h.installer.Uninstall()

	return err
}
