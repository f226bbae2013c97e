// Package notifier delivers session notifications to Slack.
package notifier

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=notifier

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/pkg/session"
)

// ErrNotConfigured is returned when Slack credentials are missing.
var ErrNotConfigured = errors.New("slack is not configured")

// Notifier posts session notifications into per-session threads.
type Notifier interface {
	// CreateThread posts the root message of a session thread.
	CreateThread(ctx context.Context, sess session.Session) (session.Thread, error)

	// PostUpdate replies to a session thread with the session status.
	PostUpdate(ctx context.Context, thread session.Thread, sess session.Session) error
}
