package ipc

//go:generate enumer -type=Command -json -text -output=command_enumer.go
//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix command_enumer.go

// Command is a request sent by an observer client. Commands are encoded as
// bare JSON strings, e.g. "Subscribe".
type Command int

const (
	// Subscribe turns the connection into a broadcast subscriber.
	Subscribe Command = iota

	// Unsubscribe ends a subscription on the same connection.
	Unsubscribe

	// GetSessions asks the daemon to broadcast a SessionList.
	GetSessions

	// GetConfig asks the daemon to broadcast a ConfigResponse.
	GetConfig

	// Ping asks the daemon to broadcast its Status.
	Ping
)

// IsTransportLocal reports whether the command is handled by the transport
// and never reaches the daemon loop.
func (c Command) IsTransportLocal() bool {
	return c == Subscribe || c == Unsubscribe
}
