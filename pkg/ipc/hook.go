// Package ipc defines the messages exchanged over the daemon socket and the
// length-prefixed frame codec that carries them.
package ipc

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=HookKind -trimprefix=HookKind -output=hookkind_enumer.go
//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix hookkind_enumer.go

// HookKind is the variant of a HookEvent.
type HookKind int

const (
	// HookKindSessionStart is sent when a Claude Code session starts.
	HookKindSessionStart HookKind = iota

	// HookKindSessionEnd is sent when a session ends.
	HookKindSessionEnd

	// HookKindNotification is sent when Claude needs the user's attention.
	HookKindNotification

	// HookKindStop is sent when Claude finished responding.
	HookKindStop
)

// ErrInvalidHookEvent is returned when a payload is not a hook event.
var ErrInvalidHookEvent = errors.New("invalid hook event")

// HookEvent describes one lifecycle occurrence of a Claude Code session.
//
// On the wire it is a single-key object naming the variant, e.g.
// {"Stop":{"session_id":"abc"}}.
type HookEvent struct {
	Kind HookKind

	// SessionID is Claude's own session identifier; set for every kind.
	SessionID string

	// TranscriptPath and Cwd are set for HookKindSessionStart.
	TranscriptPath string
	Cwd            string

	// Message and NotificationType are set for HookKindNotification.
	Message          string
	NotificationType string
}

// SessionStart builds a session start event.
func SessionStart(sessionID, transcriptPath, cwd string) HookEvent {
	return HookEvent{
		Kind:           HookKindSessionStart,
		SessionID:      sessionID,
		TranscriptPath: transcriptPath,
		Cwd:            cwd,
	}
}

// SessionEnd builds a session end event.
func SessionEnd(sessionID string) HookEvent {
	return HookEvent{Kind: HookKindSessionEnd, SessionID: sessionID}
}

// Notification builds a notification event.
func Notification(sessionID, message, notificationType string) HookEvent {
	return HookEvent{
		Kind:             HookKindNotification,
		SessionID:        sessionID,
		Message:          message,
		NotificationType: notificationType,
	}
}

// Stop builds a stop event.
func Stop(sessionID string) HookEvent {
	return HookEvent{Kind: HookKindStop, SessionID: sessionID}
}

type sessionStartBody struct {
	SessionID      *string `json:"session_id"`
	TranscriptPath *string `json:"transcript_path"`
	Cwd            *string `json:"cwd"`
}

type sessionRefBody struct {
	SessionID *string `json:"session_id"`
}

type notificationBody struct {
	SessionID        *string `json:"session_id"`
	Message          *string `json:"message"`
	NotificationType *string `json:"notification_type"`
}

// MarshalJSON implements json.Marshaler.
func (e HookEvent) MarshalJSON() ([]byte, error) {
	var body any

	switch e.Kind {
	case HookKindSessionStart:
		body = sessionStartBody{
			SessionID:      &e.SessionID,
			TranscriptPath: optional(e.TranscriptPath),
			Cwd:            &e.Cwd,
		}
	case HookKindSessionEnd, HookKindStop:
		body = sessionRefBody{SessionID: &e.SessionID}
	case HookKindNotification:
		body = notificationBody{
			SessionID:        &e.SessionID,
			Message:          &e.Message,
			NotificationType: optional(e.NotificationType),
		}
	default:
		return nil, errors.Wrapf(ErrInvalidHookEvent, "unknown kind %d", e.Kind)
	}

	return json.Marshal(map[string]any{e.Kind.String(): body})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown fields inside the
// variant body are ignored; missing required fields are an error.
func (e *HookEvent) UnmarshalJSON(data []byte) error {
	name, payload, err := splitVariant(data)
	if err != nil {
		return errors.Wrap(ErrInvalidHookEvent, err.Error())
	}

	kind, err := HookKindString(name)
	if err != nil || kind.String() != name {
		return errors.Wrapf(ErrInvalidHookEvent, "unknown variant %q", name)
	}

	switch kind {
	case HookKindSessionStart:
		var body sessionStartBody
		if err := json.Unmarshal(payload, &body); err != nil {
			return errors.Wrap(ErrInvalidHookEvent, err.Error())
		}

		if body.SessionID == nil || body.Cwd == nil {
			return errors.Wrap(ErrInvalidHookEvent, "SessionStart requires session_id and cwd")
		}

		*e = SessionStart(*body.SessionID, deref(body.TranscriptPath), *body.Cwd)
	case HookKindSessionEnd, HookKindStop:
		var body sessionRefBody
		if err := json.Unmarshal(payload, &body); err != nil {
			return errors.Wrap(ErrInvalidHookEvent, err.Error())
		}

		if body.SessionID == nil {
			return errors.Wrapf(ErrInvalidHookEvent, "%s requires session_id", name)
		}

		*e = HookEvent{Kind: kind, SessionID: *body.SessionID}
	case HookKindNotification:
		var body notificationBody
		if err := json.Unmarshal(payload, &body); err != nil {
			return errors.Wrap(ErrInvalidHookEvent, err.Error())
		}

		if body.SessionID == nil || body.Message == nil {
			return errors.Wrap(ErrInvalidHookEvent, "Notification requires session_id and message")
		}

		*e = Notification(*body.SessionID, *body.Message, deref(body.NotificationType))
	}

	return nil
}

// splitVariant returns the single key and value of an externally tagged object.
func splitVariant(data []byte) (string, json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return "", nil, errors.New("expected an object")
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return "", nil, err
	}

	if len(tagged) != 1 {
		return "", nil, errors.Newf("expected exactly one variant, got %d", len(tagged))
	}

	for name, payload := range tagged {
		return name, payload, nil
	}

	return "", nil, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
