// Package tui provides the terminal user interface: the setup form and the
// session dashboard.
package tui

import (
	"os"

	"golang.org/x/term"
)

// UI runs the setup questions either as an interactive form or as plain
// line prompts.
type UI interface {
	// RunSetupForm asks for Slack credentials and whether to install hooks.
	RunSetupForm(opts SetupFormOptions) (*SetupResult, error)

	// IsInteractive returns true if running in an interactive terminal.
	IsInteractive() bool
}

// New creates a new UI instance based on terminal capabilities.
// If the terminal is interactive (TTY), it returns a HuhUI.
// Otherwise, it returns a FallbackUI for non-interactive environments.
func New() UI {
	if IsTerminal() {
		return NewHuhUI()
	}

	return NewFallbackUI()
}

// NewWithFallback returns a FallbackUI when noTUI is set and New otherwise.
func NewWithFallback(noTUI bool) UI {
	if noTUI {
		return NewFallbackUI()
	}

	return New()
}

// IsTerminal checks if stdin and stdout are connected to a terminal.
func IsTerminal() bool {
	//nolint:gosec // G115: file descriptors are always small positive integers; uintptr→int is safe
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
