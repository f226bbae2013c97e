package tui_test

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/tui"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

type fakeCommander struct {
	sent []ipc.Command
}

func (f *fakeCommander) SendCommand(_ context.Context, cmd ipc.Command) error {
	f.sent = append(f.sent, cmd)

	return nil
}

type fakeHooks struct {
	installed bool
	failWith  error
}

func (f *fakeHooks) Installed() (bool, error) { return f.installed, nil }

func (f *fakeHooks) Install() error {
	if f.failWith != nil {
		return f.failWith
	}

	f.installed = true

	return nil
}

func (f *fakeHooks) Uninstall() error {
	f.installed = false

	return nil
}

type closedSource struct{}

func (closedSource) Recv() (ipc.DaemonEvent, error) { return ipc.DaemonEvent{}, ipc.ErrPeerClosed }

var _ = Describe("Dashboard", func() {
	var (
		now       time.Time
		commander *fakeCommander
		hooks     *fakeHooks
		d         *tui.Dashboard
	)

	key := func(s string) tea.KeyMsg {
		switch s {
		case "down":
			return tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			return tea.KeyMsg{Type: tea.KeyUp}
		default:
			return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
	}

	newSession := func(name string, started time.Time, status session.Status) session.Session {
		return session.Session{
			ID:        uuid.New(),
			RepoPath:  "/src/" + name,
			Prompt:    session.ExternalPrompt,
			Status:    status,
			StartedAt: started,
		}
	}

	update := func(msg tea.Msg) tea.Cmd {
		_, cmd := d.Update(msg)

		return cmd
	}

	BeforeEach(func() {
		now = time.Date(2025, 12, 4, 10, 30, 0, 0, time.UTC)
		commander = &fakeCommander{}
		hooks = &fakeHooks{}
		d = tui.NewDashboard(tui.DashboardOptions{
			Events:   closedSource{},
			Commands: commander,
			Hooks:    hooks,
			Config:   &config.Config{},
			Version:  "v1.0.0",
			Now:      func() time.Time { return now },
		})
	})

	It("warns when Slack is not configured", func() {
		Expect(d.Logs()).To(ContainElement(HaveField("Message", ContainSubstring("slack-code setup"))))
	})

	It("requests status, config and sessions on start", func() {
		Expect(d.Init()).NotTo(BeNil())
	})

	It("upserts sessions and orders active ones first", func() {
		done := newSession("done", now.Add(-2*time.Hour), session.Completed)
		older := newSession("older", now.Add(-time.Hour), session.Running)
		newer := newSession("newer", now.Add(-time.Minute), session.Running)

		for _, s := range []session.Session{done, older, newer} {
			update(tui.EventMsg{Event: ipc.SessionUpdatedEvent(s)})
		}

		names := func() []string {
			var out []string
			for _, s := range d.Sessions() {
				out = append(out, s.DisplayName())
			}

			return out
		}

		Expect(names()).To(Equal([]string{"/src/newer", "/src/older", "/src/done"}))

		newer.Status = session.Completed
		update(tui.EventMsg{Event: ipc.SessionUpdatedEvent(newer)})

		Expect(d.Sessions()).To(HaveLen(3))
		Expect(names()).To(Equal([]string{"/src/older", "/src/newer", "/src/done"}))
	})

	It("replaces sessions from a list and removes swept ones", func() {
		a := newSession("a", now, session.Running)
		b := newSession("b", now, session.Running)

		update(tui.EventMsg{Event: ipc.SessionListEvent([]session.Session{a, b})})
		Expect(d.Sessions()).To(HaveLen(2))

		update(tui.EventMsg{Event: ipc.SessionRemovedEvent(a.ID)})
		Expect(d.Sessions()).To(HaveLen(1))
		Expect(d.Sessions()[0].ID).To(Equal(b.ID))
	})

	It("logs errors and tracks daemon status", func() {
		update(tui.EventMsg{Event: ipc.ErrorEvent("creating slack thread: boom")})
		Expect(d.Logs()).To(ContainElement(HaveField("Level", tui.LogError)))

		update(tui.EventMsg{Event: ipc.StatusEvent(ipc.Disconnected("gone"))})
		Expect(d.Connected()).To(BeFalse())

		update(tui.EventMsg{Event: ipc.StatusEvent(ipc.Connected)})
		Expect(d.Connected()).To(BeTrue())

		update(tui.StreamClosedMsg{Err: errors.New("eof")})
		Expect(d.Connected()).To(BeFalse())
	})

	It("moves the cursor within bounds", func() {
		for _, name := range []string{"a", "b", "c"} {
			update(tui.EventMsg{Event: ipc.SessionUpdatedEvent(newSession(name, now, session.Running))})
		}

		update(key("down"))
		update(key("down"))
		update(key("down"))
		Expect(d.Cursor()).To(Equal(2))

		update(key("up"))
		Expect(d.Cursor()).To(Equal(1))

		update(key("g"))
		Expect(d.Cursor()).To(Equal(0))
	})

	It("switches views and toggles hooks from the config view", func() {
		update(key("2"))
		Expect(d.CurrentView()).To(Equal(tui.ViewConfig))

		update(key("h"))
		Expect(hooks.installed).To(BeTrue())
		Expect(d.View()).NotTo(ContainSubstring("not installed"))

		update(key("h"))
		Expect(hooks.installed).To(BeFalse())
		Expect(d.View()).To(ContainSubstring("not installed"))

		hooks.failWith = errors.New("read-only")
		update(key("h"))
		Expect(d.Logs()).To(ContainElement(HaveField("Message", ContainSubstring("read-only"))))

		update(key("3"))
		Expect(d.CurrentView()).To(Equal(tui.ViewLogs))
		Expect(d.View()).To(ContainSubstring("read-only"))
	})

	It("refreshes sessions on r", func() {
		cmd := update(key("r"))
		Expect(cmd).NotTo(BeNil())

		cmd()
		Expect(commander.sent).To(Equal([]ipc.Command{ipc.GetSessions}))
	})

	It("quits on q", func() {
		cmd := update(key("q"))
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.Quit()))
	})

	It("renders sessions with status and duration", func() {
		s := newSession("repo", now.Add(-90*time.Second), session.WaitingForInput(session.WaitReasonPermissionPrompt))
		update(tui.EventMsg{Event: ipc.SessionUpdatedEvent(s)})

		view := d.View()
		Expect(view).To(ContainSubstring("/src/repo"))
		Expect(view).To(ContainSubstring("Needs Permission"))
		Expect(view).To(ContainSubstring("1 minute 30 seconds"))
		Expect(view).To(ContainSubstring("slack-code v1.0.0"))
	})

	It("shows the empty state", func() {
		Expect(d.View()).To(ContainSubstring("No active sessions."))
	})

	It("shows and dismisses help", func() {
		update(key("?"))
		Expect(d.View()).To(ContainSubstring("KEYBOARD SHORTCUTS"))

		update(key("x"))
		Expect(d.View()).NotTo(ContainSubstring("KEYBOARD SHORTCUTS"))
	})
})

var _ = DescribeTable("FormatDuration",
	func(d time.Duration, expected string) {
		Expect(tui.FormatDuration(d)).To(Equal(expected))
	},
	Entry("sub second", 300*time.Millisecond, "just started"),
	Entry("seconds", 42*time.Second, "42 seconds"),
	Entry("two units", 2*time.Hour+5*time.Minute+3*time.Second, "2 hours 5 minutes"),
)
