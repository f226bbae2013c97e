package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/smykla-skalski/slack-code/internal/prompt"
)

const maxAttempts = 3

// FallbackUI implements UI using simple stdin/stdout prompts.
// This is used when the terminal is not interactive (CI, piped input, etc.).
type FallbackUI struct {
	prompter prompt.Prompter
	out      io.Writer
}

// NewFallbackUI creates a new FallbackUI instance.
func NewFallbackUI() *FallbackUI {
	return &FallbackUI{
		prompter: prompt.NewStdPrompter(),
		out:      os.Stdout,
	}
}

// NewFallbackUIWithPrompter creates a FallbackUI with a custom prompter and
// output.
func NewFallbackUIWithPrompter(p prompt.Prompter, out io.Writer) *FallbackUI {
	return &FallbackUI{
		prompter: p,
		out:      out,
	}
}

// IsInteractive returns false as FallbackUI is for non-interactive terminals.
func (*FallbackUI) IsInteractive() bool {
	return false
}

// RunSetupForm implements UI.
func (f *FallbackUI) RunSetupForm(opts SetupFormOptions) (*SetupResult, error) {
	var (
		result SetupResult
		err    error
	)

	f.println("slack-code setup")
	f.println("")

	result.BotToken, err = f.ask("Slack bot token", opts.BotToken, validateToken)
	if err != nil {
		return nil, err
	}

	result.UserID, err = f.ask("Slack member ID", opts.UserID, validateUserID)
	if err != nil {
		return nil, err
	}

	if opts.OfferHooks {
		result.InstallHooks, err = f.prompter.Confirm("Install Claude Code hooks", true)
		if err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// ask repeats a question until validate accepts the answer.
func (f *FallbackUI) ask(label, def string, validate func(string) error) (string, error) {
	var lastErr error

	for range maxAttempts {
		answer, err := f.prompter.Input(label, def)
		if err != nil {
			lastErr = err
			f.println("  " + err.Error())

			continue
		}

		if err := validate(answer); err != nil {
			lastErr = err
			f.println("  " + err.Error())

			continue
		}

		return answer, nil
	}

	return "", lastErr
}

func (f *FallbackUI) println(s string) {
	_, _ = fmt.Fprintln(f.out, s)
}
