package transport

import (
	"context"
	"net"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

// DefaultDialTimeout bounds connecting and writing one message.
const DefaultDialTimeout = 5 * time.Second

// ErrDaemonUnreachable is returned when the daemon socket cannot be dialed.
var ErrDaemonUnreachable = errors.New("daemon is not reachable")

// Client talks to the daemon socket. Every call uses its own connection.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithTimeout sets the dial and write timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the daemon at socketPath.
func NewClient(socketPath string, opts ...ClientOption) *Client {
	c := &Client{
		socketPath: socketPath,
		timeout:    DefaultDialTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SocketPath returns the daemon socket path.
func (c *Client) SocketPath() string {
	return c.socketPath
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: c.timeout}

	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, errors.Wrapf(errors.CombineErrors(ErrDaemonUnreachable, err), "dialing %s", c.socketPath)
	}

	return conn, nil
}

func (c *Client) send(ctx context.Context, v any) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))

	return ipc.WriteMessage(conn, v)
}

// SendHook delivers one hook event.
func (c *Client) SendHook(ctx context.Context, event ipc.HookEvent) error {
	return errors.Wrap(c.send(ctx, event), "sending hook event")
}

// SendCommand delivers one command. Its response, if any, is broadcast to
// subscribers; nothing is read back on this connection.
func (c *Client) SendCommand(ctx context.Context, cmd ipc.Command) error {
	if cmd == ipc.Subscribe {
		return errors.New("use Subscribe to open a subscription")
	}

	return errors.Wrapf(c.send(ctx, cmd), "sending %s", cmd)
}

// IsReachable reports whether the daemon socket accepts connections.
func (c *Client) IsReachable(ctx context.Context) bool {
	conn, err := c.dial(ctx)
	if err != nil {
		return false
	}

	_ = conn.Close()

	return true
}

// Subscribe opens a subscription. The caller must Close the stream.
func (c *Client) Subscribe(ctx context.Context) (*EventStream, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))

	if err := ipc.WriteMessage(conn, ipc.Subscribe); err != nil {
		_ = conn.Close()

		return nil, errors.Wrap(err, "sending Subscribe")
	}

	_ = conn.SetWriteDeadline(time.Time{})

	return &EventStream{conn: conn, timeout: c.timeout}, nil
}

// EventStream receives broadcast events from one subscription.
type EventStream struct {
	conn    net.Conn
	timeout time.Duration
}

// Recv blocks until the next event. It returns ipc.ErrPeerClosed when the
// daemon closes the subscription.
func (s *EventStream) Recv() (ipc.DaemonEvent, error) {
	var ev ipc.DaemonEvent

	if err := ipc.ReadMessage(s.conn, &ev); err != nil {
		return ipc.DaemonEvent{}, err
	}

	return ev, nil
}

// RecvTimeout is Recv with a deadline. A timeout returns an error matched
// by os.ErrDeadlineExceeded.
func (s *EventStream) RecvTimeout(d time.Duration) (ipc.DaemonEvent, error) {
	_ = s.conn.SetReadDeadline(time.Now().Add(d))
	defer func() { _ = s.conn.SetReadDeadline(time.Time{}) }()

	return s.Recv()
}

// Unsubscribe asks the daemon to end the subscription and closes the stream.
func (s *EventStream) Unsubscribe() error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.timeout))

	err := ipc.WriteMessage(s.conn, ipc.Unsubscribe)

	return errors.CombineErrors(err, s.Close())
}

// Close closes the stream.
func (s *EventStream) Close() error {
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return errors.Wrap(err, "closing subscription")
	}

	return nil
}
