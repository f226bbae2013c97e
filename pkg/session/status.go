package session

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate enumer -type=StatusKind -trimprefix=StatusKind -output=statuskind_enumer.go
//go:generate enumer -type=WaitReason -trimprefix=WaitReason -json -text -output=waitreason_enumer.go
//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix statuskind_enumer.go waitreason_enumer.go

// StatusKind is the variant of a session Status.
type StatusKind int

const (
	// StatusKindStarting means the session was just registered.
	StatusKindStarting StatusKind = iota

	// StatusKindRunning means Claude is working.
	StatusKindRunning

	// StatusKindWaitingForInput means Claude is blocked on the user.
	StatusKindWaitingForInput

	// StatusKindCompleted is terminal.
	StatusKindCompleted

	// StatusKindFailed is terminal and carries a reason.
	StatusKindFailed
)

// WaitReason classifies why a session waits for input.
type WaitReason int

const (
	// WaitReasonPermissionPrompt means a permission dialog is shown.
	WaitReasonPermissionPrompt WaitReason = iota

	// WaitReasonIdlePrompt means Claude is idle waiting for the next prompt.
	WaitReasonIdlePrompt

	// WaitReasonPlanApproval means a plan awaits approval.
	WaitReasonPlanApproval
)

// notification_type values sent by Claude Code.
const (
	NotificationPermissionPrompt = "permission_prompt"
	NotificationIdlePrompt       = "idle_prompt"
)

// ErrInvalidStatus is returned when decoding a malformed status.
var ErrInvalidStatus = errors.New("invalid session status")

// WaitReasonFromNotificationType maps a notification_type to a WaitReason.
// Unknown and empty types are treated as idle prompts.
func WaitReasonFromNotificationType(notificationType string) WaitReason {
	if notificationType == NotificationPermissionPrompt {
		return WaitReasonPermissionPrompt
	}

	return WaitReasonIdlePrompt
}

// ClassifyNotification derives the WaitReason of a notification. A message
// mentioning "plan" (any case) wins over the notification type.
func ClassifyNotification(message, notificationType string) WaitReason {
	if strings.Contains(strings.ToLower(message), "plan") {
		return WaitReasonPlanApproval
	}

	return WaitReasonFromNotificationType(notificationType)
}

// Status is the current state of a session.
type Status struct {
	Kind StatusKind

	// Reason is set for StatusKindWaitingForInput.
	Reason WaitReason

	// Error is set for StatusKindFailed.
	Error string
}

// Unit statuses.
var (
	Starting  = Status{Kind: StatusKindStarting}
	Running   = Status{Kind: StatusKindRunning}
	Completed = Status{Kind: StatusKindCompleted}
)

// WaitingForInput returns a waiting status with the given reason.
func WaitingForInput(reason WaitReason) Status {
	return Status{Kind: StatusKindWaitingForInput, Reason: reason}
}

// Failed returns a failed status with the given reason.
func Failed(reason string) Status {
	return Status{Kind: StatusKindFailed, Error: reason}
}

// IsTerminal reports whether the status is Completed or Failed.
func (s Status) IsTerminal() bool {
	return s.Kind == StatusKindCompleted || s.Kind == StatusKindFailed
}

// Short returns the label shown in listings and the dashboard.
func (s Status) Short() string {
	switch s.Kind {
	case StatusKindWaitingForInput:
		switch s.Reason {
		case WaitReasonPermissionPrompt:
			return "Needs Permission"
		case WaitReasonPlanApproval:
			return "Plan Review"
		default:
			return "Waiting"
		}
	default:
		return s.Kind.String()
	}
}

// Icon returns a three-character marker for plain-text rendering.
func (s Status) Icon() string {
	switch s.Kind {
	case StatusKindStarting:
		return "..."
	case StatusKindRunning:
		return ">>>"
	case StatusKindWaitingForInput:
		return "???"
	case StatusKindCompleted:
		return "[x]"
	case StatusKindFailed:
		return "[!]"
	default:
		return "   "
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s.Kind {
	case StatusKindWaitingForInput:
		return s.Kind.String() + "(" + s.Reason.String() + ")"
	case StatusKindFailed:
		return s.Kind.String() + "(" + s.Error + ")"
	default:
		return s.Kind.String()
	}
}

// MarshalJSON encodes unit statuses as bare strings and the others as
// single-key objects, e.g. {"WaitingForInput":"IdlePrompt"}.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusKindWaitingForInput:
		return json.Marshal(map[string]WaitReason{s.Kind.String(): s.Reason})
	case StatusKindFailed:
		return json.Marshal(map[string]string{s.Kind.String(): s.Error})
	default:
		return json.Marshal(s.Kind.String())
	}
}

// UnmarshalJSON decodes the format produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return errors.Wrap(ErrInvalidStatus, err.Error())
		}

		kind, err := StatusKindString(name)
		if err != nil || kind == StatusKindWaitingForInput || kind == StatusKindFailed {
			return errors.Wrapf(ErrInvalidStatus, "unexpected unit status %q", name)
		}

		*s = Status{Kind: kind}

		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return errors.Wrap(ErrInvalidStatus, err.Error())
	}

	if len(tagged) != 1 {
		return errors.Wrapf(ErrInvalidStatus, "expected one variant, got %d", len(tagged))
	}

	for name, payload := range tagged {
		switch name {
		case StatusKindWaitingForInput.String():
			var reason WaitReason
			if err := json.Unmarshal(payload, &reason); err != nil {
				return errors.Wrap(ErrInvalidStatus, err.Error())
			}

			*s = WaitingForInput(reason)
		case StatusKindFailed.String():
			var msg string
			if err := json.Unmarshal(payload, &msg); err != nil {
				return errors.Wrap(ErrInvalidStatus, err.Error())
			}

			*s = Failed(msg)
		default:
			return errors.Wrapf(ErrInvalidStatus, "unknown variant %q", name)
		}
	}

	return nil
}
