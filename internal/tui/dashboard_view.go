package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"

	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

const (
	headerHeight  = 2
	footerHeight  = 2
	rowsPerItem   = 3
	nameWidth     = 24
	promptWidth   = 60
	notConfigured = "(not set)"
)

var viewKeys = map[View]string{
	ViewSessions: "[1] Sessions  [2] Config  [3] Logs  [r] Refresh  [?] Help  [q] Quit",
	ViewConfig:   "[1] Sessions  [2] Config  [3] Logs  [h] Toggle hooks  [?] Help  [q] Quit",
	ViewLogs:     "[1] Sessions  [2] Config  [3] Logs  [?] Help  [q] Quit",
}

const helpText = `KEYBOARD SHORTCUTS

Global:
  1 / 2 / 3   Sessions / Config / Logs
  tab         Next view
  ?           Toggle help
  q           Quit

Navigation:
  j / down    Next item
  k / up      Previous item
  g / G       First / last item

Sessions:
  r           Refresh sessions

Config:
  h           Install or uninstall hooks`

// View implements tea.Model.
func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(d.renderHeader())
	b.WriteString("\n")

	if d.showHelp {
		b.WriteString(lipgloss.NewStyle().Padding(1, 2).Render(helpText))
	} else {
		switch d.view {
		case ViewConfig:
			b.WriteString(d.renderConfig())
		case ViewLogs:
			b.WriteString(d.renderLogs())
		default:
			b.WriteString(d.renderSessions())
		}
	}

	b.WriteString("\n")
	b.WriteString(d.opts.Theme.Muted.Render("  " + viewKeys[d.view]))

	return b.String()
}

func (d *Dashboard) renderHeader() string {
	status := d.opts.Theme.Error.Render("Daemon: [Disconnected]")
	if d.connected {
		status = d.opts.Theme.Running.Render("Daemon: [Connected]")
	}

	title := d.opts.Theme.Header.Render("slack-code " + d.opts.Version)
	gap := max(1, d.width-lipgloss.Width(title)-lipgloss.Width(status)-4)

	return "  " + title + strings.Repeat(" ", gap) + status
}

func (d *Dashboard) visibleItems() int {
	return max(1, (d.height-headerHeight-footerHeight)/rowsPerItem)
}

func (d *Dashboard) clampOffset() {
	visible := d.visibleItems()

	if d.cursor < d.offset {
		d.offset = d.cursor
	}

	if d.cursor >= d.offset+visible {
		d.offset = d.cursor - visible + 1
	}

	d.offset = clamp(d.offset, 0, max(0, len(d.sessions)-visible))
}

func (d *Dashboard) renderSessions() string {
	if len(d.sessions) == 0 {
		return d.opts.Theme.Muted.Render(
			"\n  No active sessions.\n\n  Sessions will appear here when Claude Code is running.\n")
	}

	var b strings.Builder

	end := min(len(d.sessions), d.offset+d.visibleItems())

	for i := d.offset; i < end; i++ {
		b.WriteString(d.renderSession(d.sessions[i], i == d.cursor))
	}

	return b.String()
}

func (d *Dashboard) renderSession(s session.Session, selected bool) string {
	marker := " "
	if selected {
		marker = ">"
	}

	style := d.opts.Theme.Status(s.Status)
	if selected {
		style = style.Bold(true)
	}

	line := fmt.Sprintf(" %s %s %s %s",
		marker,
		runewidth.FillRight(runewidth.Truncate(s.DisplayName(), nameWidth, "..."), nameWidth),
		s.Status.Icon(),
		s.Status.Short(),
	)

	return style.Render(line) + "\n" +
		"   " + runewidth.Truncate(s.Prompt, promptWidth, "...") + "\n" +
		d.opts.Theme.Muted.Render("   "+FormatDuration(s.Duration(d.now))) + "\n"
}

func (d *Dashboard) renderConfig() string {
	slack := d.cfg.GetSlack()

	rows := [][2]string{
		{"Bot token", orNotSet(config.MaskToken(slack.BotToken))},
		{"App token", orNotSet(config.MaskToken(slack.AppToken))},
		{"Member ID", orNotSet(slack.UserID)},
		{"Socket", orNotSet(d.cfg.GetDaemon().SocketPath)},
		{"Hooks", hookState(d.hooks)},
	}

	var b strings.Builder

	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString("  ")
		b.WriteString(d.opts.Theme.Accent.Render(runewidth.FillRight(row[0], 12)))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	return b.String()
}

func (d *Dashboard) renderLogs() string {
	if len(d.logs) == 0 {
		return d.opts.Theme.Muted.Render("\n  No log entries.\n")
	}

	visible := max(1, d.height-headerHeight-footerHeight)
	start := clamp(d.logScroll, 0, max(0, len(d.logs)-visible))
	end := min(len(d.logs), start+visible)

	var b strings.Builder

	for _, entry := range d.logs[start:end] {
		style := d.opts.Theme.Muted

		switch entry.Level {
		case LogWarning:
			style = d.opts.Theme.Warning
		case LogError:
			style = d.opts.Theme.Error
		default:
		}

		b.WriteString("  ")
		b.WriteString(d.opts.Theme.Muted.Render(entry.At.Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(style.Render(entry.Message))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatDuration renders a session duration with at most two units.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "just started"
	}

	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}

func orNotSet(s string) string {
	if s == "" {
		return notConfigured
	}

	return s
}

func hookState(installed bool) string {
	if installed {
		return "installed"
	}

	return "not installed"
}
