// Package hookclient forwards one Claude Code hook payload to the daemon.
package hookclient

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/internal/parser"
	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

// Sender delivers a hook event to the daemon.
type Sender interface {
	SendHook(ctx context.Context, event ipc.HookEvent) error
}

// Outcome describes what Run did with the payload.
type Outcome int

const (
	// OutcomeSent means the event reached the daemon socket.
	OutcomeSent Outcome = iota

	// OutcomeIgnored means the hook event name is not tracked.
	OutcomeIgnored

	// OutcomeUndelivered means the daemon could not be reached.
	OutcomeUndelivered
)

// Runner reads stdin, maps it to a HookEvent and sends it.
type Runner struct {
	sender Sender
	stderr io.Writer
	logger logger.Logger
}

// Option configures the Runner.
type Option func(*Runner)

// WithStderr sets where delivery failures are reported.
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.stderr = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.logger = log
		}
	}
}

// New creates a Runner that sends through sender.
func New(sender Sender, opts ...Option) *Runner {
	r := &Runner{
		sender: sender,
		stderr: io.Discard,
		logger: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run processes one payload. Only malformed input is returned as an error;
// an unreachable daemon is reported on stderr and never fails the hook.
func (r *Runner) Run(ctx context.Context, stdin io.Reader) (Outcome, error) {
	input, err := parser.NewJSONParser(stdin).Parse()
	if err != nil {
		return OutcomeIgnored, errors.Wrap(err, "reading hook input")
	}

	event, ok := input.ToHookEvent()
	if !ok {
		r.logger.Debug("untracked hook event", "hook_event_name", input.HookEventName)

		return OutcomeIgnored, nil
	}

	if err := r.sender.SendHook(ctx, event); err != nil {
		_, _ = fmt.Fprintf(r.stderr, "Could not notify daemon: %v\n", err)

		return OutcomeUndelivered, nil
	}

	r.logger.Debug("hook event sent", "kind", event.Kind.String(), "session_id", event.SessionID)

	return OutcomeSent, nil
}
