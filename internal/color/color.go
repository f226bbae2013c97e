// Package color provides color detection and status theming for CLI and
// dashboard output.
package color

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/smykla-skalski/slack-code/pkg/session"
)

// Enabled reports whether color output should be used.
//
// Color is disabled when any of:
//   - NO_COLOR env is set (any value, per https://no-color.org)
//   - CLICOLOR=0
//   - TERM=dumb
//   - noColorFlag is true (--no-color CLI flag)
func Enabled(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if os.Getenv("CLICOLOR") == "0" {
		return false
	}

	return os.Getenv("TERM") != "dumb"
}

// IsTerminal returns true if f is a character device.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return (info.Mode() & os.ModeCharDevice) != 0
}

// Theme holds lipgloss styles for session statuses and chrome.
type Theme struct {
	Starting  lipgloss.Style
	Running   lipgloss.Style
	Waiting   lipgloss.Style
	Completed lipgloss.Style
	Failed    lipgloss.Style

	Header   lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Accent   lipgloss.Style
}

// NewTheme creates a Theme. When color is false, all styles are empty (no ANSI codes).
func NewTheme(color bool) Theme {
	if !color {
		return Theme{}
	}

	return Theme{
		Starting:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // yellow
		Running:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // green
		Waiting:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // cyan
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Selected:  lipgloss.NewStyle().Bold(true).Reverse(true),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Status returns the style for a session status.
func (t Theme) Status(s session.Status) lipgloss.Style {
	switch s.Kind {
	case session.StatusKindStarting:
		return t.Starting
	case session.StatusKindRunning:
		return t.Running
	case session.StatusKindWaitingForInput:
		return t.Waiting
	case session.StatusKindCompleted:
		return t.Completed
	case session.StatusKindFailed:
		return t.Failed
	default:
		return t.Muted
	}
}
