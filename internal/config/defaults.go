package config

import (
	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig(paths xdg.PathResolver) *config.Config {
	rateLimit := config.DefaultRateLimit
	burst := config.DefaultBurst
	schedule := config.DefaultSweepSchedule

	return &config.Config{
		Slack: &config.SlackConfig{
			RateLimit: &rateLimit,
			Burst:     &burst,
		},
		Daemon: &config.DaemonConfig{
			SocketPath:       paths.SocketFile(),
			PIDFile:          paths.PIDFile(),
			LogFile:          paths.LogFile(),
			LogLevel:         config.DefaultLogLevel,
			HookQueueSize:    config.DefaultHookQueueSize,
			CommandQueueSize: config.DefaultCommandQueueSize,
			BroadcastBuffer:  config.DefaultBroadcastBuffer,
			ReadTimeout:      config.Duration(config.DefaultReadTimeout),
			WriteTimeout:     config.Duration(config.DefaultWriteTimeout),
		},
		Defaults: &config.DefaultsConfig{
			HookTimeout: config.DefaultHookTimeout,
		},
		Retention: &config.RetentionConfig{
			MaxAge:        config.Duration(config.DefaultMaxAge),
			SweepSchedule: &schedule,
		},
		Metrics: &config.MetricsConfig{},
	}
}

// defaultsToMap converts DefaultConfig to a map for koanf loading.
func defaultsToMap(paths xdg.PathResolver) map[string]any {
	cfg := DefaultConfig(paths)

	return map[string]any{
		"slack": map[string]any{
			"rate_limit": *cfg.Slack.RateLimit,
			"burst":      *cfg.Slack.Burst,
		},
		"daemon": map[string]any{
			"socket_path":        cfg.Daemon.SocketPath,
			"pid_file":           cfg.Daemon.PIDFile,
			"log_file":           cfg.Daemon.LogFile,
			"log_level":          cfg.Daemon.LogLevel,
			"hook_queue_size":    cfg.Daemon.HookQueueSize,
			"command_queue_size": cfg.Daemon.CommandQueueSize,
			"broadcast_buffer":   cfg.Daemon.BroadcastBuffer,
			"read_timeout":       cfg.Daemon.ReadTimeout.String(),
			"write_timeout":      cfg.Daemon.WriteTimeout.String(),
		},
		"defaults": map[string]any{
			"hook_timeout": cfg.Defaults.HookTimeout,
		},
		"retention": map[string]any{
			"max_age":        cfg.Retention.MaxAge.String(),
			"sweep_schedule": *cfg.Retention.SweepSchedule,
		},
		"metrics": map[string]any{
			"listen_addr": "",
		},
	}
}
