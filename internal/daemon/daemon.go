// Package daemon runs the session-tracking event loop and manages the
// daemon process lifecycle.
package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/internal/notifier"
	"github.com/smykla-skalski/slack-code/internal/session"
	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

const (
	// DefaultNotifyTimeout bounds one notifier call made by the loop.
	DefaultNotifyTimeout = 15 * time.Second

	maintenanceQueueSize = 1
)

// sweepRequest asks the loop to run a retention sweep. done, when set,
// receives the removed ids.
type sweepRequest struct {
	done chan []uuid.UUID
}

// Daemon owns the session store and composes it with the socket transport
// and the notifier into a single event loop.
type Daemon struct {
	cfg      *config.Config
	store    *session.Store
	broker   *transport.Broker
	server   *transport.Server
	notifier notifier.Notifier

	hooks       chan ipc.HookEvent
	commands    chan ipc.Command
	maintenance chan sweepRequest
	signals     <-chan os.Signal

	logger        logger.Logger
	metrics       *metrics.Metrics
	notifyTimeout time.Duration
	now           func() time.Time
}

// Option configures the Daemon.
type Option func(*Daemon)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Daemon) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithNotifier sets the outward notifier. Without one the daemon tracks
// sessions locally only.
func WithNotifier(n notifier.Notifier) Option {
	return func(d *Daemon) {
		d.notifier = n
	}
}

// WithMetrics records daemon metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Daemon) {
		d.metrics = m
	}
}

// WithSignals replaces the process signal channel (for testing).
func WithSignals(ch <-chan os.Signal) Option {
	return func(d *Daemon) {
		d.signals = ch
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(d *Daemon) {
		if fn != nil {
			d.now = fn
		}
	}
}

// WithNotifyTimeout bounds each notifier call.
func WithNotifyTimeout(t time.Duration) Option {
	return func(d *Daemon) {
		if t > 0 {
			d.notifyTimeout = t
		}
	}
}

// New creates a daemon from cfg. Nothing is bound until Run.
func New(cfg *config.Config, opts ...Option) *Daemon {
	if cfg == nil {
		cfg = &config.Config{}
	}

	d := &Daemon{
		cfg:           cfg,
		logger:        logger.NewNoOpLogger(),
		notifyTimeout: DefaultNotifyTimeout,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	daemonCfg := cfg.GetDaemon()

	d.hooks = make(chan ipc.HookEvent, daemonCfg.GetHookQueueSize())
	d.commands = make(chan ipc.Command, daemonCfg.GetCommandQueueSize())
	d.maintenance = make(chan sweepRequest, maintenanceQueueSize)

	d.store = session.NewStore(
		session.WithLogger(d.logger.With("component", "store")),
		session.WithTimeFunc(d.now),
	)
	d.broker = transport.NewBroker(
		daemonCfg.GetBroadcastBuffer(),
		transport.WithBrokerMetrics(d.metrics),
	)
	d.server = transport.NewServer(
		daemonCfg.SocketPath,
		d.hooks,
		d.commands,
		d.broker,
		transport.WithLogger(d.logger.With("component", "transport")),
		transport.WithMetrics(d.metrics),
		transport.WithReadTimeout(daemonCfg.GetReadTimeout()),
		transport.WithWriteTimeout(daemonCfg.GetWriteTimeout()),
	)

	return d
}

// Store returns the session store.
func (d *Daemon) Store() *session.Store {
	return d.store
}

// Broker returns the event broadcast.
func (d *Daemon) Broker() *transport.Broker {
	return d.broker
}

// Run binds the socket and runs the listener, the retention sweeper, the
// optional metrics endpoint and the event loop until a termination signal
// arrives or ctx is done. Failing to bind the socket is the only startup
// error.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.server.Listen(); err != nil {
		return errors.Wrap(err, "starting listener")
	}

	signals := d.signals
	if signals == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

		defer signal.Stop(ch)

		signals = ch
	}

	if d.notifier == nil {
		d.logger.Info("slack is not configured, tracking sessions locally")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.server.Serve(gctx)
	})

	g.Go(func() error {
		return d.runSweeper(gctx)
	})

	if m := d.cfg.GetMetrics(); m.IsEnabled() && d.metrics != nil {
		g.Go(func() error {
			// Metrics are optional; a bind failure must not stop the daemon.
			if err := d.metrics.Serve(gctx, m.ListenAddr, d.logger); err != nil {
				d.logger.Error("metrics endpoint failed", "error", err.Error())
			}

			return nil
		})
	}

	g.Go(func() error {
		defer cancel()

		return d.loop(gctx, signals)
	})

	err := g.Wait()

	d.broker.Close()

	d.logger.Info("daemon stopped")

	return err
}

// Close removes the socket file.
func (d *Daemon) Close() error {
	return d.server.Close()
}
