package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/slack-code/internal/daemon"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

var _ = Describe("Daemon", func() {
	var (
		dir         string
		socket      string
		signals     chan os.Signal
		clock       atomic.Int64
		cfg         *config.Config
		d           *daemon.Daemon
		client      *transport.Client
		ran         chan error
		done        chan struct{}
	)

	BeforeEach(func() {
		var err error

		dir, err = os.MkdirTemp("", "scd")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		socket = filepath.Join(dir, "d.sock")
		signals = make(chan os.Signal, 1)
		clock.Store(time.Date(2025, 12, 4, 10, 30, 0, 0, time.UTC).UnixNano())

		noSchedule := ""
		cfg = &config.Config{
			Daemon: &config.DaemonConfig{SocketPath: socket},
			Retention: &config.RetentionConfig{
				MaxAge:        config.Duration(time.Hour),
				SweepSchedule: &noSchedule,
			},
		}

		client = transport.NewClient(socket, transport.WithTimeout(time.Second))
	})

	run := func() {
		d = daemon.New(cfg,
			daemon.WithSignals(signals),
			daemon.WithTimeFunc(func() time.Time { return time.Unix(0, clock.Load()).UTC() }),
		)
		ran = make(chan error, 1)
		done = make(chan struct{})

		go func() {
			defer close(done)

			ran <- d.Run(context.Background())
		}()

		Eventually(func() bool {
			return client.IsReachable(context.Background())
		}).Should(BeTrue())

		DeferCleanup(func() {
			select {
			case signals <- syscall.SIGTERM:
			default:
			}

			Eventually(done, 5*time.Second).Should(BeClosed())
			_ = d.Close()
		})
	}

	It("tracks sessions reported over the socket", func() {
		run()

		stream, err := client.Subscribe(context.Background())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(stream.Close)
		Eventually(d.Broker().Len).Should(Equal(1))

		Expect(client.SendHook(context.Background(), ipc.SessionStart("abc", "", "/tmp/x"))).To(Succeed())

		ev, err := stream.RecvTimeout(2 * time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Kind).To(Equal(ipc.EventKindSessionUpdated))
		Expect(ev.Session.ClaudeSessionID).To(Equal("abc"))
		Expect(ev.Session.Status).To(Equal(session.Running))

		Expect(client.SendHook(context.Background(), ipc.Notification("abc", "Waiting for plan approval", ""))).To(Succeed())

		ev, err = stream.RecvTimeout(2 * time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Session.Status).To(Equal(session.WaitingForInput(session.WaitReasonPlanApproval)))

		Expect(client.SendCommand(context.Background(), ipc.GetSessions)).To(Succeed())

		ev, err = stream.RecvTimeout(2 * time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Kind).To(Equal(ipc.EventKindSessionList))
		Expect(ev.Sessions).To(HaveLen(1))

		Expect(client.SendCommand(context.Background(), ipc.Ping)).To(Succeed())

		ev, err = stream.RecvTimeout(2 * time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Status).To(Equal(ipc.Connected))
	})

	It("stops on a termination signal", func() {
		run()

		signals <- syscall.SIGINT

		Eventually(ran, 5*time.Second).Should(Receive(BeNil()))
		Expect(client.IsReachable(context.Background())).To(BeFalse())
	})

	It("fails when the socket cannot be bound", func() {
		blocker := filepath.Join(dir, "file")
		Expect(os.WriteFile(blocker, nil, 0o600)).To(Succeed())

		cfg.Daemon.SocketPath = filepath.Join(blocker, "d.sock")

		d = daemon.New(cfg, daemon.WithSignals(signals))

		Expect(d.Run(context.Background())).To(HaveOccurred())
	})

	It("keeps running with an invalid sweep schedule", func() {
		bad := "every day at noon"
		cfg.Retention.SweepSchedule = &bad

		run()

		Consistently(ran, 200*time.Millisecond).ShouldNot(Receive())

		removed, err := d.Sweep(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(BeEmpty())

		signals <- syscall.SIGTERM

		Eventually(ran, 5*time.Second).Should(Receive(BeNil()))
	})

	Describe("Sweep", func() {
		It("removes expired sessions and broadcasts removals", func() {
			run()

			stream, err := client.Subscribe(context.Background())
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(stream.Close)
			Eventually(d.Broker().Len).Should(Equal(1))

			// Each hook travels on its own connection; wait for each one to
			// be applied before sending the next.
			for _, ev := range []ipc.HookEvent{
				ipc.SessionStart("old", "", "/tmp/o"),
				ipc.SessionEnd("old"),
				ipc.SessionStart("live", "", "/tmp/l"),
			} {
				Expect(client.SendHook(context.Background(), ev)).To(Succeed())

				_, err := stream.RecvTimeout(2 * time.Second)
				Expect(err).NotTo(HaveOccurred())
			}

			old, ok := findByClaudeID(d, "old")
			Expect(ok).To(BeTrue())

			clock.Add(int64(2 * time.Hour))

			removed, err := d.Sweep(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(ConsistOf(old.ID))

			ev, err := stream.RecvTimeout(2 * time.Second)
			Expect(err).NotTo(HaveOccurred())
			Expect(ev.Kind).To(Equal(ipc.EventKindSessionRemoved))
			Expect(ev.SessionID).To(Equal(old.ID))

			Expect(d.Store().Len()).To(Equal(1))
		})

		It("gives up when ctx ends before the loop answers", func() {
			d = daemon.New(cfg)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := d.Sweep(ctx)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})
})

func findByClaudeID(d *daemon.Daemon, claudeID string) (session.Session, bool) {
	for _, s := range d.Store().ListSessions() {
		if s.ClaudeSessionID == claudeID {
			return s, true
		}
	}

	return session.Session{}, false
}
