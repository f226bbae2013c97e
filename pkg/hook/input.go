// Package hook provides the Claude Code hook payload read by slack-code-hook.
package hook

import (
	"github.com/smykla-skalski/slack-code/pkg/ipc"
)

//go:generate enumer -type=EventType -trimprefix=EventType -json -text -output=eventtype_enumer.go
//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix eventtype_enumer.go

// EventType represents the hook_event_name of a payload.
type EventType int

const (
	// EventTypeUnknown represents any event slack-code does not track.
	EventTypeUnknown EventType = iota

	// EventTypeSessionStart is sent when a session starts or resumes.
	EventTypeSessionStart

	// EventTypeSessionEnd is sent when a session ends.
	EventTypeSessionEnd

	// EventTypeNotification is sent when Claude needs attention.
	EventTypeNotification

	// EventTypeStop is sent when Claude finished responding.
	EventTypeStop
)

// Input is the JSON object Claude Code writes to a hook's stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Cwd            string `json:"cwd,omitempty"`
	HookEventName  string `json:"hook_event_name"`

	// Message and NotificationType are sent with Notification.
	Message          string `json:"message,omitempty"`
	NotificationType string `json:"notification_type,omitempty"`

	// Source is sent with SessionStart (startup, resume, clear, compact).
	Source string `json:"source,omitempty"`

	// Reason is sent with SessionEnd.
	Reason string `json:"reason,omitempty"`
}

// EventType returns the tracked event type of the payload.
func (in *Input) EventType() EventType {
	t, err := EventTypeString(in.HookEventName)
	if err != nil {
		return EventTypeUnknown
	}

	return t
}

// ToHookEvent maps the payload to the daemon's HookEvent. Untracked event
// names return false.
func (in *Input) ToHookEvent() (ipc.HookEvent, bool) {
	switch in.EventType() {
	case EventTypeSessionStart:
		return ipc.SessionStart(in.SessionID, in.TranscriptPath, in.Cwd), true
	case EventTypeSessionEnd:
		return ipc.SessionEnd(in.SessionID), true
	case EventTypeNotification:
		return ipc.Notification(in.SessionID, in.Message, in.NotificationType), true
	case EventTypeStop:
		return ipc.Stop(in.SessionID), true
	default:
		return ipc.HookEvent{}, false
	}
}

// TrackedEvents lists the hook event names slack-code registers for.
func TrackedEvents() []EventType {
	return []EventType{
		EventTypeSessionStart,
		EventTypeSessionEnd,
		EventTypeNotification,
		EventTypeStop,
	}
}
