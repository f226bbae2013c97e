package main

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/internal/transport"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

const (
	handshakeAttempts = 5
	handshakeWait     = 300 * time.Millisecond
	replyTimeout      = 5 * time.Second
)

var errDaemonUnreachable = errors.New("daemon is not reachable (start it with 'slack-code daemon start')")

// subscribe opens a subscription and waits until the daemon has registered
// it, so replies to commands sent afterwards are not missed. Registration is
// confirmed by the Status reply to a Ping.
func subscribe(ctx context.Context, cfg *config.Config) (*transport.Client, *transport.EventStream, error) {
	client := transport.NewClient(cfg.GetDaemon().SocketPath)

	stream, err := client.Subscribe(ctx)
	if err != nil {
		return nil, nil, errors.WithSecondaryError(errDaemonUnreachable, err)
	}

	for range handshakeAttempts {
		if err := client.SendCommand(ctx, ipc.Ping); err != nil {
			_ = stream.Close()

			return nil, nil, errors.Wrap(err, "sending Ping")
		}

		ev, err := stream.RecvTimeout(handshakeWait)
		if err == nil && ev.Kind == ipc.EventKindStatus {
			return client, stream, nil
		}

		if err != nil && !isTimeout(err) {
			_ = stream.Close()

			return nil, nil, errors.Wrap(err, "waiting for daemon status")
		}
	}

	_ = stream.Close()

	return nil, nil, errors.Newf("daemon did not confirm the subscription after %d attempts", handshakeAttempts)
}

// await sends cmd and returns the first broadcast of the given kind.
func await(
	ctx context.Context,
	client *transport.Client,
	stream *transport.EventStream,
	cmd ipc.Command,
	kind ipc.EventKind,
) (ipc.DaemonEvent, error) {
	if err := client.SendCommand(ctx, cmd); err != nil {
		return ipc.DaemonEvent{}, errors.Wrapf(err, "sending %s", cmd)
	}

	deadline := time.Now().Add(replyTimeout)

	for {
		ev, err := stream.RecvTimeout(time.Until(deadline))
		if err != nil {
			return ipc.DaemonEvent{}, errors.Wrapf(err, "waiting for %s", kind)
		}

		if ev.Kind == kind {
			return ev, nil
		}
	}
}

func isTimeout(err error) bool {
	return errors.Is(err, os.ErrDeadlineExceeded)
}
