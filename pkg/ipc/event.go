package ipc

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/session"
)

//go:generate enumer -type=EventKind -trimprefix=EventKind -output=eventkind_enumer.go
//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix eventkind_enumer.go

// EventKind is the variant of a DaemonEvent.
type EventKind int

const (
	// EventKindSessionUpdated carries a created or changed session.
	EventKindSessionUpdated EventKind = iota

	// EventKindSessionRemoved carries the id of a swept session.
	EventKindSessionRemoved

	// EventKindSlackMessageSent reports a thread message for a session.
	EventKindSlackMessageSent

	// EventKindError carries a human-readable failure description.
	EventKindError

	// EventKindStatus carries the daemon status.
	EventKindStatus

	// EventKindSessionList answers GetSessions.
	EventKindSessionList

	// EventKindConfigResponse answers GetConfig.
	EventKindConfigResponse
)

// ErrInvalidEvent is returned when a payload is not a daemon event.
var ErrInvalidEvent = errors.New("invalid daemon event")

// DaemonEvent is broadcast by the daemon to subscribers.
type DaemonEvent struct {
	Kind EventKind

	// Session is set for EventKindSessionUpdated.
	Session *session.Session

	// SessionID is set for EventKindSessionRemoved and EventKindSlackMessageSent.
	SessionID uuid.UUID

	// ThreadTS is set for EventKindSlackMessageSent.
	ThreadTS string

	// Error is set for EventKindError.
	Error string

	// Status is set for EventKindStatus.
	Status DaemonStatus

	// Sessions is set for EventKindSessionList.
	Sessions []session.Session

	// Config is set for EventKindConfigResponse.
	Config *config.Config
}

// SessionUpdatedEvent builds a SessionUpdated event.
func SessionUpdatedEvent(s session.Session) DaemonEvent {
	return DaemonEvent{Kind: EventKindSessionUpdated, Session: &s}
}

// SessionRemovedEvent builds a SessionRemoved event.
func SessionRemovedEvent(id uuid.UUID) DaemonEvent {
	return DaemonEvent{Kind: EventKindSessionRemoved, SessionID: id}
}

// SlackMessageSentEvent builds a SlackMessageSent event.
func SlackMessageSentEvent(id uuid.UUID, threadTS string) DaemonEvent {
	return DaemonEvent{Kind: EventKindSlackMessageSent, SessionID: id, ThreadTS: threadTS}
}

// ErrorEvent builds an Error event.
func ErrorEvent(msg string) DaemonEvent {
	return DaemonEvent{Kind: EventKindError, Error: msg}
}

// StatusEvent builds a Status event.
func StatusEvent(status DaemonStatus) DaemonEvent {
	return DaemonEvent{Kind: EventKindStatus, Status: status}
}

// SessionListEvent builds a SessionList event.
func SessionListEvent(sessions []session.Session) DaemonEvent {
	if sessions == nil {
		sessions = []session.Session{}
	}

	return DaemonEvent{Kind: EventKindSessionList, Sessions: sessions}
}

// ConfigResponseEvent builds a ConfigResponse event.
func ConfigResponseEvent(cfg *config.Config) DaemonEvent {
	return DaemonEvent{Kind: EventKindConfigResponse, Config: cfg}
}

type slackMessageSentBody struct {
	SessionID uuid.UUID `json:"session_id"`
	ThreadTS  string    `json:"thread_ts"`
}

// MarshalJSON encodes the event as {"<Kind>": payload}.
func (e DaemonEvent) MarshalJSON() ([]byte, error) {
	var body any

	switch e.Kind {
	case EventKindSessionUpdated:
		if e.Session == nil {
			return nil, errors.Wrap(ErrInvalidEvent, "SessionUpdated without session")
		}

		body = e.Session
	case EventKindSessionRemoved:
		body = e.SessionID
	case EventKindSlackMessageSent:
		body = slackMessageSentBody{SessionID: e.SessionID, ThreadTS: e.ThreadTS}
	case EventKindError:
		body = e.Error
	case EventKindStatus:
		body = e.Status
	case EventKindSessionList:
		sessions := e.Sessions
		if sessions == nil {
			sessions = []session.Session{}
		}

		body = sessions
	case EventKindConfigResponse:
		cfg := e.Config
		if cfg == nil {
			cfg = &config.Config{}
		}

		body = cfg
	default:
		return nil, errors.Wrapf(ErrInvalidEvent, "unknown kind %d", e.Kind)
	}

	return json.Marshal(map[string]any{e.Kind.String(): body})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *DaemonEvent) UnmarshalJSON(data []byte) error {
	name, payload, err := splitVariant(data)
	if err != nil {
		return errors.Wrap(ErrInvalidEvent, err.Error())
	}

	kind, err := EventKindString(name)
	if err != nil || kind.String() != name {
		return errors.Wrapf(ErrInvalidEvent, "unknown variant %q", name)
	}

	out := DaemonEvent{Kind: kind}

	switch kind {
	case EventKindSessionUpdated:
		var s session.Session
		err = json.Unmarshal(payload, &s)
		out.Session = &s
	case EventKindSessionRemoved:
		err = json.Unmarshal(payload, &out.SessionID)
	case EventKindSlackMessageSent:
		var body slackMessageSentBody
		err = json.Unmarshal(payload, &body)
		out.SessionID, out.ThreadTS = body.SessionID, body.ThreadTS
	case EventKindError:
		err = json.Unmarshal(payload, &out.Error)
	case EventKindStatus:
		err = json.Unmarshal(payload, &out.Status)
	case EventKindSessionList:
		err = json.Unmarshal(payload, &out.Sessions)
	case EventKindConfigResponse:
		var cfg config.Config
		err = json.Unmarshal(payload, &cfg)
		out.Config = &cfg
	}

	if err != nil {
		return errors.Wrapf(ErrInvalidEvent, "%s: %v", name, err)
	}

	*e = out

	return nil
}
