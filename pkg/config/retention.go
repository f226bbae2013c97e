package config

import "time"

const (
	// DefaultMaxAge is how long finished sessions are kept.
	DefaultMaxAge = 24 * time.Hour

	// DefaultSweepSchedule is the cron spec of the retention sweep.
	DefaultSweepSchedule = "@every 10m"

	// DefaultHookTimeout is the timeout in seconds written into hook registrations.
	DefaultHookTimeout = 5
)

// RetentionConfig controls removal of finished sessions.
type RetentionConfig struct {
	// MaxAge is how long a completed or failed session is kept.
	// Default: "24h"
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`

	// SweepSchedule is a cron spec; an empty string disables sweeping.
	// Default: "@every 10m"
	SweepSchedule *string `json:"sweep_schedule,omitempty" koanf:"sweep_schedule" toml:"sweep_schedule,omitempty"`
}

// GetMaxAge returns the maximum age or DefaultMaxAge.
func (r *RetentionConfig) GetMaxAge() time.Duration {
	if r == nil || r.MaxAge == 0 {
		return DefaultMaxAge
	}

	return r.MaxAge.ToDuration()
}

// GetSweepSchedule returns the sweep schedule or DefaultSweepSchedule.
func (r *RetentionConfig) GetSweepSchedule() string {
	if r == nil || r.SweepSchedule == nil {
		return DefaultSweepSchedule
	}

	return *r.SweepSchedule
}

// DefaultsConfig contains values applied when installing hooks.
type DefaultsConfig struct {
	// HookTimeout is the hook timeout in seconds.
	// Default: 5
	HookTimeout int `json:"hook_timeout,omitempty" koanf:"hook_timeout" toml:"hook_timeout,omitempty"`
}

// GetHookTimeout returns the hook timeout or DefaultHookTimeout.
func (d *DefaultsConfig) GetHookTimeout() int {
	if d == nil || d.HookTimeout == 0 {
		return DefaultHookTimeout
	}

	return d.HookTimeout
}

// GetHookTimeoutDuration returns the hook timeout as a time.Duration.
func (d *DefaultsConfig) GetHookTimeoutDuration() time.Duration {
	return time.Duration(d.GetHookTimeout()) * time.Second
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddr is the HTTP address serving /metrics; empty disables it.
	ListenAddr string `json:"listen_addr,omitempty" koanf:"listen_addr" toml:"listen_addr,omitempty"`
}

// IsEnabled returns true when a listen address is configured.
func (m *MetricsConfig) IsEnabled() bool {
	return m != nil && m.ListenAddr != ""
}
