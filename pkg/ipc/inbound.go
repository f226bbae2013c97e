package ipc

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrUnknownMessage is returned when an inbound payload is neither a
// HookEvent nor a Command.
var ErrUnknownMessage = errors.New("unknown message")

// Inbound is a message received by the daemon on a fresh connection.
// Exactly one of Hook and Command is set.
type Inbound struct {
	Hook    *HookEvent
	Command *Command
}

// DecodeInbound classifies a payload by trying HookEvent first and Command
// second. There is no envelope discriminator; the two shapes are disjoint
// (object versus string) so the order only matters for future variants.
func DecodeInbound(data []byte) (Inbound, error) {
	var hook HookEvent
	if err := json.Unmarshal(data, &hook); err == nil {
		return Inbound{Hook: &hook}, nil
	}

	var cmd Command
	if err := json.Unmarshal(data, &cmd); err == nil {
		return Inbound{Command: &cmd}, nil
	}

	return Inbound{}, errors.Wrapf(ErrUnknownMessage, "%.64q", data)
}
