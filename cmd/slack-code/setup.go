package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	internalconfig "github.com/smykla-skalski/slack-code/internal/config"
	"github.com/smykla-skalski/slack-code/internal/tui"
)

var (
	noTUIFlag     bool
	skipHooksFlag bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure Slack credentials and install hooks",
	Long: `Ask for the Slack bot token and member ID, write them to the config file
and optionally register the Claude Code hooks.

Existing values are offered as defaults. Piped input uses plain prompts.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&noTUIFlag, "no-tui", false, "Use plain prompts instead of the interactive form")
	setupCmd.Flags().BoolVar(&skipHooksFlag, "skip-hooks", false, "Do not offer to install hooks")
}

func runSetup(cmd *cobra.Command, _ []string) error {
	loader := internalconfig.NewKoanfLoader()
	if configPath != "" {
		loader.WithConfigPath(configPath)
	}

	// Only file values are written back; defaults and env stay implicit.
	existing, err := loader.LoadFileOnly()
	if err != nil {
		return errors.Wrap(err, "failed to read existing configuration")
	}

	slack := existing.GetSlack()

	result, err := tui.NewWithFallback(noTUIFlag).RunSetupForm(tui.SetupFormOptions{
		BotToken:   slack.BotToken,
		UserID:     slack.UserID,
		OfferHooks: !skipHooksFlag,
	})
	if err != nil {
		return errors.Wrap(err, "setup cancelled")
	}

	out := cmd.OutOrStdout()

	for _, warning := range result.Warnings() {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}

	result.Apply(existing)

	if err := internalconfig.NewValidator().Validate(existing); err != nil {
		return err
	}

	path := loader.ConfigPath()
	if err := internalconfig.NewWriter().WriteFile(path, existing); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration written to %s\n", path)

	if result.InstallHooks {
		installer := newInstaller(existing)

		changes, err := installer.Install()
		if err != nil {
			return errors.Wrap(err, "installing hooks")
		}

		fmt.Fprintf(out, "Hooks installed in %s (%d added)\n", installer.Path(), len(changes.Changed))
	}

	fmt.Fprintln(out, "Run 'slack-code daemon start' to start tracking sessions.")

	return nil
}
