package ipc

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// DaemonStatusKind is the variant of a DaemonStatus.
type DaemonStatusKind int

const (
	// StatusConnected means the daemon is up and its notifier usable.
	StatusConnected DaemonStatusKind = iota

	// StatusConnecting means the notifier is being set up.
	StatusConnecting

	// StatusDisconnected carries a reason.
	StatusDisconnected
)

var daemonStatusNames = map[DaemonStatusKind]string{
	StatusConnected:    "Connected",
	StatusConnecting:   "Connecting",
	StatusDisconnected: "Disconnected",
}

// String implements fmt.Stringer.
func (k DaemonStatusKind) String() string {
	if name, ok := daemonStatusNames[k]; ok {
		return name
	}

	return "Unknown"
}

// DaemonStatus reports the daemon connection status.
type DaemonStatus struct {
	Kind   DaemonStatusKind
	Reason string
}

// Connected is the status reported in reply to Ping.
var Connected = DaemonStatus{Kind: StatusConnected}

// Disconnected returns a disconnected status with the given reason.
func Disconnected(reason string) DaemonStatus {
	return DaemonStatus{Kind: StatusDisconnected, Reason: reason}
}

// String implements fmt.Stringer.
func (s DaemonStatus) String() string {
	if s.Kind == StatusDisconnected && s.Reason != "" {
		return s.Kind.String() + ": " + s.Reason
	}

	return s.Kind.String()
}

// MarshalJSON encodes "Connected", "Connecting" or {"Disconnected":"reason"}.
func (s DaemonStatus) MarshalJSON() ([]byte, error) {
	if s.Kind == StatusDisconnected {
		return json.Marshal(map[string]string{s.Kind.String(): s.Reason})
	}

	return json.Marshal(s.Kind.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *DaemonStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return errors.Wrap(err, "invalid daemon status")
		}

		switch name {
		case StatusConnected.String():
			*s = Connected
		case StatusConnecting.String():
			*s = DaemonStatus{Kind: StatusConnecting}
		default:
			return errors.Newf("unknown daemon status %q", name)
		}

		return nil
	}

	name, payload, err := splitVariant(data)
	if err != nil {
		return errors.Wrap(err, "invalid daemon status")
	}

	if name != StatusDisconnected.String() {
		return errors.Newf("unknown daemon status %q", name)
	}

	var reason string
	if err := json.Unmarshal(payload, &reason); err != nil {
		return errors.Wrap(err, "invalid disconnect reason")
	}

	*s = Disconnected(reason)

	return nil
}
