package tui

import (
	"context"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/smykla-skalski/slack-code/internal/color"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

const (
	maxLogEntries = 1000
	tickInterval  = time.Second
	commandWait   = 2 * time.Second
)

// EventSource yields broadcast events; it is satisfied by a subscription
// stream.
type EventSource interface {
	Recv() (ipc.DaemonEvent, error)
}

// Commander sends observer commands to the daemon.
type Commander interface {
	SendCommand(ctx context.Context, cmd ipc.Command) error
}

// HookManager toggles hook registrations from the config view.
type HookManager interface {
	Installed() (bool, error)
	Install() error
	Uninstall() error
}

// View selects the dashboard pane.
type View int

const (
	ViewSessions View = iota
	ViewConfig
	ViewLogs
)

// LogLevel grades dashboard log entries.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarning
	LogError
)

// LogEntry is one line of the logs pane.
type LogEntry struct {
	At      time.Time
	Level   LogLevel
	Message string
}

// DashboardOptions wires the dashboard to the daemon.
type DashboardOptions struct {
	Events   EventSource
	Commands Commander
	Hooks    HookManager
	Config   *config.Config
	Version  string
	Theme    color.Theme
	Now      func() time.Time
}

// EventMsg carries one broadcast event into the model.
type EventMsg struct {
	Event ipc.DaemonEvent
}

// StreamClosedMsg reports that the subscription ended.
type StreamClosedMsg struct {
	Err error
}

// commandResultMsg reports a failed command send.
type commandResultMsg struct {
	cmd ipc.Command
	err error
}

type tickMsg time.Time

// Dashboard is the bubbletea model of the session dashboard.
type Dashboard struct {
	opts DashboardOptions

	sessions  []session.Session
	cfg       *config.Config
	logs      []LogEntry
	connected bool
	hooks     bool
	view      View
	showHelp  bool

	cursor    int
	offset    int
	logScroll int
	width     int
	height    int
	now       time.Time
}

// NewDashboard creates the dashboard model.
func NewDashboard(opts DashboardOptions) *Dashboard {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	if opts.Config == nil {
		opts.Config = &config.Config{}
	}

	d := &Dashboard{
		opts:      opts,
		cfg:       opts.Config,
		connected: opts.Events != nil,
		width:     100,
		height:    30,
		now:       opts.Now(),
	}

	if opts.Hooks != nil {
		installed, err := opts.Hooks.Installed()
		if err != nil {
			d.addLog(LogError, "reading hook status: "+err.Error())
		}

		d.hooks = installed
	}

	if d.connected {
		d.addLog(LogInfo, "Connected to daemon")
	} else {
		d.addLog(LogWarning, "Could not connect to daemon")
	}

	if !d.cfg.GetSlack().IsConfigured() || d.cfg.GetSlack().UserID == "" {
		d.addLog(LogWarning, "Slack not configured. Run 'slack-code setup' to configure.")
	}

	return d
}

// RunDashboard runs the dashboard until the user quits or ctx ends.
func RunDashboard(ctx context.Context, opts DashboardOptions) error {
	_, err := tea.NewProgram(
		NewDashboard(opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}

// Init implements tea.Model.
func (d *Dashboard) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}

	if d.opts.Events != nil {
		cmds = append(cmds, waitForEvent(d.opts.Events))
	}

	if d.opts.Commands != nil && d.connected {
		cmds = append(cmds,
			d.send(ipc.Ping),
			d.send(ipc.GetConfig),
			d.send(ipc.GetSessions),
		)
	}

	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.clampOffset()

		return d, nil

	case tickMsg:
		d.now = time.Time(msg)

		return d, tick()

	case EventMsg:
		d.apply(msg.Event)

		return d, waitForEvent(d.opts.Events)

	case StreamClosedMsg:
		d.connected = false
		d.addLog(LogError, "Daemon connection lost")

		return d, nil

	case commandResultMsg:
		if msg.err != nil {
			d.addLog(LogError, "sending "+msg.cmd.String()+": "+msg.err.Error())
		}

		return d, nil

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}

	return d, nil
}

func (d *Dashboard) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if d.showHelp {
		d.showHelp = false

		if key != "ctrl+c" {
			return d, nil
		}
	}

	switch key {
	case "q", "ctrl+c":
		return d, tea.Quit

	case "?":
		d.showHelp = true

	case "1":
		d.switchView(ViewSessions)

	case "2":
		d.switchView(ViewConfig)

	case "3":
		d.switchView(ViewLogs)

	case "tab":
		d.switchView((d.view + 1) % 3)

	case "up", "k":
		d.move(-1)

	case "down", "j":
		d.move(1)

	case "home", "g":
		d.move(-len(d.sessions) - len(d.logs))

	case "end", "G":
		d.move(len(d.sessions) + len(d.logs))

	case "r":
		if d.view == ViewSessions && d.opts.Commands != nil {
			d.addLog(LogInfo, "Refreshing sessions...")

			return d, d.send(ipc.GetSessions)
		}

	case "h":
		if d.view == ViewConfig {
			d.toggleHooks()
		}
	}

	return d, nil
}

func (d *Dashboard) switchView(v View) {
	d.view = v
	d.cursor = 0
	d.offset = 0
}

func (d *Dashboard) move(delta int) {
	switch d.view {
	case ViewSessions:
		d.cursor = clamp(d.cursor+delta, 0, len(d.sessions)-1)
		d.clampOffset()
	case ViewLogs:
		d.logScroll = clamp(d.logScroll+delta, 0, len(d.logs)-1)
	default:
	}
}

func (d *Dashboard) toggleHooks() {
	if d.opts.Hooks == nil {
		return
	}

	if d.hooks {
		if err := d.opts.Hooks.Uninstall(); err != nil {
			d.addLog(LogError, "Failed to uninstall hooks: "+err.Error())

			return
		}

		d.hooks = false
		d.addLog(LogInfo, "Hooks uninstalled")

		return
	}

	if err := d.opts.Hooks.Install(); err != nil {
		d.addLog(LogError, "Failed to install hooks: "+err.Error())

		return
	}

	d.hooks = true
	d.addLog(LogInfo, "Hooks installed")
}

// apply folds one broadcast event into the model.
func (d *Dashboard) apply(ev ipc.DaemonEvent) {
	switch ev.Kind {
	case ipc.EventKindSessionUpdated:
		if ev.Session == nil {
			return
		}

		if i := d.indexOf(ev.Session.ID); i >= 0 {
			d.sessions[i] = *ev.Session
		} else {
			d.sessions = append(d.sessions, *ev.Session)
		}

		d.sortSessions()

	case ipc.EventKindSessionRemoved:
		if i := d.indexOf(ev.SessionID); i >= 0 {
			d.sessions = slices.Delete(d.sessions, i, i+1)
		}

		d.cursor = clamp(d.cursor, 0, len(d.sessions)-1)

	case ipc.EventKindSlackMessageSent:
		d.addLog(LogInfo, "Slack message sent for "+d.nameOf(ev.SessionID))

	case ipc.EventKindError:
		d.addLog(LogError, ev.Error)

	case ipc.EventKindStatus:
		d.connected = ev.Status.Kind == ipc.StatusConnected

	case ipc.EventKindSessionList:
		d.sessions = slices.Clone(ev.Sessions)
		d.sortSessions()
		d.cursor = clamp(d.cursor, 0, len(d.sessions)-1)

	case ipc.EventKindConfigResponse:
		if ev.Config != nil {
			d.cfg = ev.Config
		}
	}

	d.clampOffset()
}

// sortSessions orders active sessions first, newest first within a group.
func (d *Dashboard) sortSessions() {
	slices.SortStableFunc(d.sessions, func(a, b session.Session) int {
		if a.IsActive() != b.IsActive() {
			if a.IsActive() {
				return -1
			}

			return 1
		}

		return b.StartedAt.Compare(a.StartedAt)
	})
}

func (d *Dashboard) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(d.sessions, func(s session.Session) bool { return s.ID == id })
}

func (d *Dashboard) nameOf(id uuid.UUID) string {
	if i := d.indexOf(id); i >= 0 {
		return d.sessions[i].DisplayName()
	}

	return id.String()
}

func (d *Dashboard) addLog(level LogLevel, msg string) {
	d.logs = append(d.logs, LogEntry{At: d.opts.Now(), Level: level, Message: strings.TrimSpace(msg)})

	if len(d.logs) > maxLogEntries {
		d.logs = d.logs[len(d.logs)-maxLogEntries:]
	}
}

// Sessions returns the sessions in display order.
func (d *Dashboard) Sessions() []session.Session {
	return slices.Clone(d.sessions)
}

// Logs returns the log entries, oldest first.
func (d *Dashboard) Logs() []LogEntry {
	return slices.Clone(d.logs)
}

// Connected reports the last known daemon status.
func (d *Dashboard) Connected() bool {
	return d.connected
}

// CurrentView returns the active pane.
func (d *Dashboard) CurrentView() View {
	return d.view
}

// Cursor returns the selected session index.
func (d *Dashboard) Cursor() int {
	return d.cursor
}

func (d *Dashboard) send(cmd ipc.Command) tea.Cmd {
	commands := d.opts.Commands

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandWait)
		defer cancel()

		return commandResultMsg{cmd: cmd, err: commands.SendCommand(ctx, cmd)}
	}
}

func waitForEvent(src EventSource) tea.Cmd {
	return func() tea.Msg {
		ev, err := src.Recv()
		if err != nil {
			return StreamClosedMsg{Err: err}
		}

		return EventMsg{Event: ev}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}

	return min(max(v, lo), hi)
}
