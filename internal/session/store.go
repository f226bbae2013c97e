// Package session holds the daemon's in-memory session registry and applies
// hook events to it as state transitions.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smykla-skalski/slack-code/pkg/ipc"
	"github.com/smykla-skalski/slack-code/pkg/logger"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

// Update is the result of applying a hook event to a known or new session.
type Update struct {
	// Session is a snapshot of the record after the transition.
	Session session.Session

	// StatusChanged is true when the status differs from before the event.
	// Always true for newly created sessions.
	StatusChanged bool

	// Created is true when the event registered a new session.
	Created bool
}

// Store is the authoritative session registry. It maps daemon ids to
// sessions and Claude session ids to daemon ids.
type Store struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*session.Session
	byExternal map[string]uuid.UUID

	logger logger.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithIDFunc sets the generator of daemon session ids.
func WithIDFunc(fn func() uuid.UUID) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions:   make(map[uuid.UUID]*session.Session),
		byExternal: make(map[string]uuid.UUID),
		logger:     logger.NewNoOpLogger(),
		now:        time.Now,
		newID:      uuid.New,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ApplyHookEvent applies one hook event. It returns false when the event
// references an unknown Claude session (other than a start), which is not an
// error.
func (s *Store) ApplyHookEvent(event ipc.HookEvent) (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.Kind == ipc.HookKindSessionStart {
		return s.startLocked(event), true
	}

	sess := s.lookupLocked(event.SessionID)
	if sess == nil {
		s.logger.Debug("hook event for unknown session",
			"kind", event.Kind.String(),
			"claude_session_id", event.SessionID,
		)

		return Update{}, false
	}

	before := sess.Status

	switch event.Kind {
	case ipc.HookKindSessionEnd:
		sess.Status = session.Completed
		if sess.EndedAt == nil || before.Kind != session.StatusKindCompleted {
			ended := s.now()
			sess.EndedAt = &ended
		}

	case ipc.HookKindNotification:
		sess.Status = session.WaitingForInput(
			session.ClassifyNotification(event.Message, event.NotificationType),
		)
		sess.EndedAt = nil

	case ipc.HookKindStop:
		sess.Status = session.WaitingForInput(session.WaitReasonIdlePrompt)
		sess.EndedAt = nil

	default:
		return Update{}, false
	}

	s.logger.Debug("session updated",
		"id", sess.ID.String(),
		"kind", event.Kind.String(),
		"status", sess.Status.String(),
	)

	return Update{
		Session:       sess.Clone(),
		StatusChanged: before != sess.Status,
	}, true
}

func (s *Store) startLocked(event ipc.HookEvent) Update {
	if sess := s.lookupLocked(event.SessionID); sess != nil {
		before := sess.Status
		sess.Status = session.Running
		sess.EndedAt = nil

		if sess.TranscriptPath == "" {
			sess.TranscriptPath = event.TranscriptPath
		}

		return Update{
			Session:       sess.Clone(),
			StatusChanged: before != sess.Status,
		}
	}

	sess := &session.Session{
		ID:              s.newID(),
		ClaudeSessionID: event.SessionID,
		RepoPath:        event.Cwd,
		Prompt:          session.ExternalPrompt,
		Status:          session.Starting,
		StartedAt:       s.now(),
		TranscriptPath:  event.TranscriptPath,
	}

	// Hook-started sessions are already running by the time we hear of them.
	sess.Status = session.Running

	s.sessions[sess.ID] = sess
	if event.SessionID != "" {
		s.byExternal[event.SessionID] = sess.ID
	}

	s.logger.Info("session registered",
		"id", sess.ID.String(),
		"claude_session_id", event.SessionID,
		"cwd", event.Cwd,
	)

	return Update{Session: sess.Clone(), StatusChanged: true, Created: true}
}

func (s *Store) lookupLocked(externalID string) *session.Session {
	if externalID == "" {
		return nil
	}

	id, ok := s.byExternal[externalID]
	if !ok {
		return nil
	}

	return s.sessions[id]
}

// SetNotificationThread attaches a thread to a session. A session keeps the
// first thread it was given. Returns false when nothing was attached.
func (s *Store) SetNotificationThread(id uuid.UUID, thread session.Thread) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.SlackThread != nil {
		return false
	}

	sess.SlackThread = &thread

	return true
}

// Get returns a snapshot of one session.
func (s *Store) Get(id uuid.UUID) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return session.Session{}, false
	}

	return sess.Clone(), true
}

// ListSessions returns a snapshot of all sessions in no particular order.
func (s *Store) ListSessions() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]session.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess.Clone())
	}

	return list
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// SweepExpired removes finished sessions that ended more than maxAge ago and
// returns their ids. Active sessions are never removed.
func (s *Store) SweepExpired(maxAge time.Duration) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	var removed []uuid.UUID

	for id, sess := range s.sessions {
		if sess.IsActive() || sess.EndedAt == nil {
			continue
		}

		if now.Sub(*sess.EndedAt) <= maxAge {
			continue
		}

		delete(s.sessions, id)

		if s.byExternal[sess.ClaudeSessionID] == id {
			delete(s.byExternal, sess.ClaudeSessionID)
		}

		removed = append(removed, id)

		s.logger.Debug("expired session removed", "id", id.String())
	}

	return removed
}
