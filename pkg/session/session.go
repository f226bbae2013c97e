// Package session defines the tracked coding session data model shared by the
// daemon and its clients.
package session

import (
	"time"

	"github.com/google/uuid"
)

// ExternalPrompt is the prompt recorded for sessions started outside slack-code,
// where the start hook carries no task text.
const ExternalPrompt = "External session"

// Thread references the outward notification thread of a session.
type Thread struct {
	// ChannelID is the Slack conversation (DM with the user).
	ChannelID string `json:"channel_id"`

	// ParentTS is the timestamp of the thread root message.
	ParentTS string `json:"parent_ts"`
}

// Session is the canonical record for one tracked coding session.
type Session struct {
	// ID is the daemon-assigned identifier.
	ID uuid.UUID `json:"id"`

	// ClaudeSessionID is the identifier assigned by Claude Code.
	ClaudeSessionID string `json:"claude_session_id,omitempty"`

	// RepoPath is the session working directory.
	RepoPath string `json:"repo_path"`

	// RepoAlias is an optional human-assigned name for the repository.
	RepoAlias string `json:"repo_alias,omitempty"`

	// Prompt is the task given to the session.
	Prompt string `json:"prompt"`

	Status    Status     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	// SlackThread is set once the notification thread exists.
	SlackThread *Thread `json:"slack_thread,omitempty"`

	// TranscriptPath points at Claude Code's transcript file.
	TranscriptPath string `json:"transcript_path,omitempty"`
}

// DisplayName returns the alias when set, the repository path otherwise.
func (s *Session) DisplayName() string {
	if s.RepoAlias != "" {
		return s.RepoAlias
	}

	return s.RepoPath
}

// Duration returns how long the session ran, measured up to now while active.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	return end.Sub(s.StartedAt)
}

// IsActive reports whether the session has not reached a terminal status.
func (s *Session) IsActive() bool {
	return !s.Status.IsTerminal()
}

// HasThread reports whether a notification thread is attached.
func (s *Session) HasThread() bool {
	return s.SlackThread != nil
}

// Clone returns a deep copy safe to hand out of a store.
func (s *Session) Clone() Session {
	c := *s

	if s.EndedAt != nil {
		ended := *s.EndedAt
		c.EndedAt = &ended
	}

	if s.SlackThread != nil {
		thread := *s.SlackThread
		c.SlackThread = &thread
	}

	return c
}
