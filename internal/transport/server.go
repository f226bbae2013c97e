package transport

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/internal/fsutil"
	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

const (
	// DefaultReadTimeout bounds reading the first frame of a connection.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout bounds each frame written to a subscriber.
	DefaultWriteTimeout = 5 * time.Second

	socketPermissions = 0o600

	maxAcceptBackoff = time.Second
)

// ErrNotListening is returned by Serve before Listen succeeded.
var ErrNotListening = errors.New("server is not listening")

// Server accepts connections on a Unix socket. Each connection carries one
// message: hook events and commands are forwarded to the daemon loop,
// Subscribe turns the connection into a broadcast subscriber.
type Server struct {
	socketPath string
	hooks      chan<- ipc.HookEvent
	commands   chan<- ipc.Command
	broker     *Broker

	logger       logger.Logger
	metrics      *metrics.Metrics
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics records connection counters.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithReadTimeout sets the first-frame read timeout.
func WithReadTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithWriteTimeout sets the subscriber write timeout.
func WithWriteTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// NewServer creates a server. Call Listen, then Serve.
func NewServer(
	socketPath string,
	hooks chan<- ipc.HookEvent,
	commands chan<- ipc.Command,
	broker *Broker,
	opts ...ServerOption,
) *Server {
	s := &Server{
		socketPath:   socketPath,
		hooks:        hooks,
		commands:     commands,
		broker:       broker,
		logger:       logger.NewNoOpLogger(),
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SocketPath returns the socket the server binds.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Listen binds the socket, replacing a stale socket file left by an unclean
// exit.
func (s *Server) Listen() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), fsutil.DirPermissions); err != nil {
		return errors.Wrap(err, "creating socket directory")
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing stale socket %s", s.socketPath)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return errors.Wrapf(err, "binding %s", s.socketPath)
	}

	if err := os.Chmod(s.socketPath, socketPermissions); err != nil {
		_ = listener.Close()

		return errors.Wrap(err, "restricting socket permissions")
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("listening", "socket", s.socketPath)

	return nil
}

// Serve accepts connections until ctx is done or the listener is closed,
// then waits for connection handlers to return. Accept errors are logged
// and never end the loop.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()

	if listener == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	var backoff time.Duration

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}

			backoff = nextBackoff(backoff)
			s.logger.Error("accept failed", "error", err.Error(), "retry_in", backoff.String())

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}

			continue
		}

		backoff = 0

		s.wg.Add(1)

		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}

	s.wg.Wait()

	return nil
}

// Close stops accepting and removes the socket file.
func (s *Server) Close() error {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()

	var err error

	if listener != nil {
		if cerr := listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = errors.Wrap(cerr, "closing listener")
		}
	}

	if rerr := os.Remove(s.socketPath); rerr != nil && !os.IsNotExist(rerr) {
		err = errors.CombineErrors(err, errors.Wrap(rerr, "removing socket"))
	}

	return err
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}

	return min(d*2, maxAcceptBackoff)
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))

	msg, err := ipc.ReadInbound(conn)
	if err != nil {
		if errors.Is(err, ipc.ErrPeerClosed) {
			s.logger.Debug("connection closed before a message")

			return
		}

		s.metrics.ConnectionError()
		s.logger.Error("reading message failed", "error", err.Error())

		return
	}

	_ = conn.SetReadDeadline(time.Time{})

	switch {
	case msg.Hook != nil:
		s.metrics.HookReceived(msg.Hook.Kind.String())
		s.logger.Debug("hook event received",
			"kind", msg.Hook.Kind.String(),
			"claude_session_id", msg.Hook.SessionID,
		)

		select {
		case s.hooks <- *msg.Hook:
		case <-ctx.Done():
		}

	case msg.Command != nil:
		s.handleCommand(ctx, conn, *msg.Command)
	}
}

func (s *Server) handleCommand(ctx context.Context, conn net.Conn, cmd ipc.Command) {
	s.metrics.CommandReceived(cmd.String())

	switch cmd {
	case ipc.Subscribe:
		s.subscribe(ctx, conn)

	case ipc.Unsubscribe:
		s.logger.Debug("unsubscribe on a fresh connection ignored")

	default:
		s.logger.Debug("command received", "command", cmd.String())

		select {
		case s.commands <- cmd:
		case <-ctx.Done():
		}
	}
}

// subscribe streams broadcast events to conn until the peer sends
// Unsubscribe, a read or write fails, or the broker closes. A clean EOF only
// stops reading: a half-closed peer keeps receiving, and a peer that is gone
// is detected by the next failed write.
func (s *Server) subscribe(ctx context.Context, conn net.Conn) {
	sub, err := s.broker.Subscribe()
	if err != nil {
		s.logger.Debug("subscribe refused", "error", err.Error())

		return
	}
	defer sub.Close()

	s.logger.Debug("subscriber attached", "subscribers", s.broker.Len())

	done := make(chan struct{})

	go func() {
		for {
			in, err := ipc.ReadInbound(conn)
			if errors.Is(err, ipc.ErrPeerClosed) {
				s.logger.Debug("subscriber closed its write side")

				return
			}

			if err != nil {
				close(done)

				return
			}

			if in.Command != nil && *in.Command == ipc.Unsubscribe {
				close(done)

				return
			}

			s.logger.Debug("ignoring message on subscribed connection")
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}

			if n := sub.TakeLagged(); n > 0 {
				s.logger.Debug("subscriber lagged", "skipped", n)
			}

			_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))

			if err := ipc.WriteMessage(conn, ev); err != nil {
				s.logger.Debug("subscriber write failed", "error", err.Error())

				return
			}

		case <-done:
			s.logger.Debug("subscriber detached")

			return

		case <-ctx.Done():
			return
		}
	}
}
