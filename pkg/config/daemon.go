package config

import "time"

// Default values for daemon configuration.
const (
	DefaultLogLevel         = "info"
	DefaultHookQueueSize    = 100
	DefaultCommandQueueSize = 100
	DefaultBroadcastBuffer  = 100
	DefaultReadTimeout      = 5 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
)

// DaemonConfig contains settings of the background daemon.
type DaemonConfig struct {
	// SocketPath is the Unix domain socket the daemon listens on.
	// Default: "$XDG_RUNTIME_DIR/slack-code/daemon.sock"
	SocketPath string `json:"socket_path,omitempty" koanf:"socket_path" toml:"socket_path,omitempty"`

	// PIDFile records the daemon process identifier.
	// Default: "$XDG_RUNTIME_DIR/slack-code/daemon.pid"
	PIDFile string `json:"pid_file,omitempty" koanf:"pid_file" toml:"pid_file,omitempty"`

	// LogFile receives daemon output when detached.
	// Default: "$XDG_DATA_HOME/slack-code/daemon.log"
	LogFile string `json:"log_file,omitempty" koanf:"log_file" toml:"log_file,omitempty"`

	// LogLevel is one of trace, debug, info, warn, error.
	// Default: "info"
	LogLevel string `json:"log_level,omitempty" koanf:"log_level" toml:"log_level,omitempty"`

	// HookQueueSize bounds the inbound hook event channel.
	// Default: 100
	HookQueueSize int `json:"hook_queue_size,omitempty" koanf:"hook_queue_size" toml:"hook_queue_size,omitempty"`

	// CommandQueueSize bounds the inbound command channel.
	// Default: 100
	CommandQueueSize int `json:"command_queue_size,omitempty" koanf:"command_queue_size" toml:"command_queue_size,omitempty"`

	// BroadcastBuffer is the per-subscriber buffer of the event broadcast.
	// Default: 100
	BroadcastBuffer int `json:"broadcast_buffer,omitempty" koanf:"broadcast_buffer" toml:"broadcast_buffer,omitempty"`

	// ReadTimeout bounds reading the first message of a connection.
	// Default: "5s"
	ReadTimeout Duration `json:"read_timeout,omitempty" koanf:"read_timeout" toml:"read_timeout,omitempty"`

	// WriteTimeout bounds each write to a subscriber.
	// Default: "5s"
	WriteTimeout Duration `json:"write_timeout,omitempty" koanf:"write_timeout" toml:"write_timeout,omitempty"`
}

// GetLogLevel returns the log level or DefaultLogLevel.
func (d *DaemonConfig) GetLogLevel() string {
	if d == nil || d.LogLevel == "" {
		return DefaultLogLevel
	}

	return d.LogLevel
}

// GetHookQueueSize returns the hook queue size or DefaultHookQueueSize.
func (d *DaemonConfig) GetHookQueueSize() int {
	if d == nil || d.HookQueueSize == 0 {
		return DefaultHookQueueSize
	}

	return d.HookQueueSize
}

// GetCommandQueueSize returns the command queue size or DefaultCommandQueueSize.
func (d *DaemonConfig) GetCommandQueueSize() int {
	if d == nil || d.CommandQueueSize == 0 {
		return DefaultCommandQueueSize
	}

	return d.CommandQueueSize
}

// GetBroadcastBuffer returns the broadcast buffer or DefaultBroadcastBuffer.
func (d *DaemonConfig) GetBroadcastBuffer() int {
	if d == nil || d.BroadcastBuffer == 0 {
		return DefaultBroadcastBuffer
	}

	return d.BroadcastBuffer
}

// GetReadTimeout returns the read timeout or DefaultReadTimeout.
func (d *DaemonConfig) GetReadTimeout() time.Duration {
	if d == nil || d.ReadTimeout == 0 {
		return DefaultReadTimeout
	}

	return d.ReadTimeout.ToDuration()
}

// GetWriteTimeout returns the write timeout or DefaultWriteTimeout.
func (d *DaemonConfig) GetWriteTimeout() time.Duration {
	if d == nil || d.WriteTimeout == 0 {
		return DefaultWriteTimeout
	}

	return d.WriteTimeout.ToDuration()
}
