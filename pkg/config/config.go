// Package config provides configuration schema types for slack-code.
package config

// Config represents the root configuration for slack-code.
type Config struct {
	// Slack holds credentials and delivery settings for the notifier.
	Slack *SlackConfig `json:"slack,omitempty" koanf:"slack" toml:"slack,omitempty"`

	// Daemon holds socket, PID file, logging and queue settings.
	Daemon *DaemonConfig `json:"daemon,omitempty" koanf:"daemon" toml:"daemon,omitempty"`

	// Defaults holds values applied to installed hooks.
	Defaults *DefaultsConfig `json:"defaults,omitempty" koanf:"defaults" toml:"defaults,omitempty"`

	// Retention controls removal of finished sessions.
	Retention *RetentionConfig `json:"retention,omitempty" koanf:"retention" toml:"retention,omitempty"`

	// Metrics controls the Prometheus endpoint.
	Metrics *MetricsConfig `json:"metrics,omitempty" koanf:"metrics" toml:"metrics,omitempty"`
}

// GetSlack returns the slack config, creating it if it doesn't exist.
func (c *Config) GetSlack() *SlackConfig {
	if c.Slack == nil {
		c.Slack = &SlackConfig{}
	}

	return c.Slack
}

// GetDaemon returns the daemon config, creating it if it doesn't exist.
func (c *Config) GetDaemon() *DaemonConfig {
	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}

	return c.Daemon
}

// GetDefaults returns the defaults config, creating it if it doesn't exist.
func (c *Config) GetDefaults() *DefaultsConfig {
	if c.Defaults == nil {
		c.Defaults = &DefaultsConfig{}
	}

	return c.Defaults
}

// GetRetention returns the retention config, creating it if it doesn't exist.
func (c *Config) GetRetention() *RetentionConfig {
	if c.Retention == nil {
		c.Retention = &RetentionConfig{}
	}

	return c.Retention
}

// GetMetrics returns the metrics config, creating it if it doesn't exist.
func (c *Config) GetMetrics() *MetricsConfig {
	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}

	return c.Metrics
}

// Masked returns a copy of the configuration with credentials masked,
// suitable for sending to observers.
func (c *Config) Masked() *Config {
	if c == nil {
		return nil
	}

	masked := *c

	if c.Slack != nil {
		slack := *c.Slack
		slack.BotToken = MaskToken(slack.BotToken)
		slack.AppToken = MaskToken(slack.AppToken)
		masked.Slack = &slack
	}

	return &masked
}
