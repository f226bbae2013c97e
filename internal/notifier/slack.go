package notifier

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"

	"github.com/smykla-skalski/slack-code/internal/metrics"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/logger"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

// Operation names used in logs and metrics.
const (
	OpOpenDM       = "open_dm"
	OpCreateThread = "create_thread"
	OpPostUpdate   = "post_update"
)

// Slack posts session threads into a direct message with the configured
// user. Calls are throttled by a token bucket.
type Slack struct {
	userID  string
	limiter *rate.Limiter
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	apiURL     string
	httpClient *http.Client
	client     *slack.Client

	mu        sync.Mutex
	dmChannel string
}

// SlackOption configures the Slack notifier.
type SlackOption func(*Slack)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) SlackOption {
	return func(s *Slack) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics records call counts and durations.
func WithMetrics(m *metrics.Metrics) SlackOption {
	return func(s *Slack) {
		s.metrics = m
	}
}

// WithAPIURL points the client at a different Slack API base URL.
func WithAPIURL(url string) SlackOption {
	return func(s *Slack) {
		s.apiURL = url
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) SlackOption {
	return func(s *Slack) {
		s.httpClient = c
	}
}

// WithLimiter replaces the limiter built from the configuration.
func WithLimiter(l *rate.Limiter) SlackOption {
	return func(s *Slack) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) SlackOption {
	return func(s *Slack) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewSlack creates a Slack notifier. It returns ErrNotConfigured when the
// bot token or the member ID is missing.
func NewSlack(cfg *config.SlackConfig, opts ...SlackOption) (*Slack, error) {
	if !cfg.IsConfigured() {
		return nil, errors.Wrap(ErrNotConfigured, "bot token is not set")
	}

	if cfg.UserID == "" {
		return nil, errors.Wrap(ErrNotConfigured, "user id is not set")
	}

	s := &Slack{
		userID:  cfg.UserID,
		limiter: rate.NewLimiter(rate.Limit(cfg.GetRateLimit()), cfg.GetBurst()),
		logger:  logger.NewNoOpLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	var clientOpts []slack.Option

	if s.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(s.apiURL))
	}

	if s.httpClient != nil {
		clientOpts = append(clientOpts, slack.OptionHTTPClient(s.httpClient))
	}

	s.client = slack.New(cfg.BotToken, clientOpts...)

	return s, nil
}

// CreateThread posts the session start message and returns its thread.
func (s *Slack) CreateThread(ctx context.Context, sess session.Session) (session.Thread, error) {
	channel, err := s.ensureDM(ctx)
	if err != nil {
		return session.Thread{}, err
	}

	var ts string

	err = s.call(ctx, OpCreateThread, func(ctx context.Context) error {
		var perr error

		channel, ts, perr = s.client.PostMessageContext(ctx, channel,
			slack.MsgOptionText(StartMessage(sess), false),
		)

		return perr
	})
	if err != nil {
		return session.Thread{}, err
	}

	s.logger.Info("slack thread created",
		"session", sess.ID.String(),
		"channel", channel,
		"ts", ts,
	)

	return session.Thread{ChannelID: channel, ParentTS: ts}, nil
}

// PostUpdate replies to thread with the status of sess.
func (s *Slack) PostUpdate(ctx context.Context, thread session.Thread, sess session.Session) error {
	text := UpdateMessage(s.userID, sess, s.now())

	return s.call(ctx, OpPostUpdate, func(ctx context.Context) error {
		_, _, err := s.client.PostMessageContext(ctx, thread.ChannelID,
			slack.MsgOptionText(text, false),
			slack.MsgOptionTS(thread.ParentTS),
		)

		return err
	})
}

// ensureDM opens the direct message channel once and caches it.
func (s *Slack) ensureDM(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dmChannel != "" {
		return s.dmChannel, nil
	}

	var channelID string

	err := s.call(ctx, OpOpenDM, func(ctx context.Context) error {
		ch, _, _, err := s.client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
			Users: []string{s.userID},
		})
		if err != nil {
			return err
		}

		channelID = ch.ID

		return nil
	})
	if err != nil {
		return "", errors.Wrapf(err, "opening DM with %s", s.userID)
	}

	s.dmChannel = channelID
	s.logger.Info("opened slack DM", "channel", channelID, "user", s.userID)

	return channelID, nil
}

// call waits for the limiter, runs fn and records the outcome.
func (s *Slack) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "%s: waiting for rate limiter", op)
	}

	start := s.now()
	err := fn(ctx)
	s.metrics.NotifierCall(op, err, s.now().Sub(start))

	if err != nil {
		s.logger.Debug("slack call failed", "op", op, "error", err.Error())

		return errors.Wrapf(err, "slack %s", op)
	}

	return nil
}

var _ Notifier = (*Slack)(nil)
