package config

import (
	"net"
	"path/filepath"
	"regexp"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"

	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidUserID is returned for malformed Slack member IDs.
	ErrInvalidUserID = errors.New("invalid Slack member ID")

	// ErrInvalidSchedule is returned when the sweep schedule does not parse.
	ErrInvalidSchedule = errors.New("invalid sweep schedule")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid option value")
)

// userIDPattern matches Slack member IDs such as U01ABCDEF23.
var userIDPattern = regexp.MustCompile(`^U[A-Za-z0-9]{8,}$`)

// ValidateUserID checks a Slack member ID.
func ValidateUserID(id string) error {
	if !userIDPattern.MatchString(id) {
		return errors.Wrapf(ErrInvalidUserID, "%q must start with U followed by at least 8 letters or digits", id)
	}

	return nil
}

// ParseSchedule parses a cron spec (standard five fields or @descriptors).
//
//nolint:ireturn // cron.Schedule is the library's interface
func ParseSchedule(spec string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSchedule, "%q: %v", spec, err)
	}

	return schedule, nil
}

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	validationErrors = append(validationErrors, v.validateSlack(cfg.Slack)...)
	validationErrors = append(validationErrors, v.validateDaemon(cfg.Daemon)...)
	validationErrors = append(validationErrors, v.validateRetention(cfg.Retention)...)
	validationErrors = append(validationErrors, v.validateMetrics(cfg.Metrics)...)

	if cfg.Defaults != nil && cfg.Defaults.HookTimeout < 0 {
		validationErrors = append(validationErrors,
			errors.Wrap(ErrInvalidOption, "defaults.hook_timeout must be positive"))
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateSlack(s *config.SlackConfig) []error {
	if s == nil {
		return nil
	}

	var errs []error

	if s.UserID != "" {
		if err := ValidateUserID(s.UserID); err != nil {
			errs = append(errs, errors.Wrap(err, "slack.user_id"))
		}
	}

	if s.GetRateLimit() <= 0 {
		errs = append(errs, errors.Wrap(ErrInvalidOption, "slack.rate_limit must be positive"))
	}

	if s.GetBurst() <= 0 {
		errs = append(errs, errors.Wrap(ErrInvalidOption, "slack.burst must be positive"))
	}

	return errs
}

func (*Validator) validateDaemon(d *config.DaemonConfig) []error {
	if d == nil {
		return nil
	}

	var errs []error

	if _, err := logger.ParseLevel(d.GetLogLevel()); err != nil {
		errs = append(errs, errors.Wrap(err, "daemon.log_level"))
	}

	sizes := map[string]int{
		"daemon.hook_queue_size":    d.HookQueueSize,
		"daemon.command_queue_size": d.CommandQueueSize,
		"daemon.broadcast_buffer":   d.BroadcastBuffer,
	}

	for name, size := range sizes {
		if size < 0 {
			errs = append(errs, errors.Wrapf(ErrInvalidOption, "%s must be positive, got %d", name, size))
		}
	}

	paths := map[string]string{
		"daemon.socket_path": d.SocketPath,
		"daemon.pid_file":    d.PIDFile,
	}

	for name, path := range paths {
		if path != "" && !filepath.IsAbs(path) {
			errs = append(errs, errors.Wrapf(ErrInvalidOption, "%s must be absolute, got %q", name, path))
		}
	}

	return errs
}

func (*Validator) validateRetention(r *config.RetentionConfig) []error {
	if r == nil {
		return nil
	}

	if spec := r.GetSweepSchedule(); spec != "" {
		if _, err := ParseSchedule(spec); err != nil {
			return []error{errors.Wrap(err, "retention.sweep_schedule")}
		}
	}

	return nil
}

func (*Validator) validateMetrics(m *config.MetricsConfig) []error {
	if !m.IsEnabled() {
		return nil
	}

	if _, _, err := net.SplitHostPort(m.ListenAddr); err != nil {
		return []error{errors.Wrapf(ErrInvalidOption, "metrics.listen_addr %q: %v", m.ListenAddr, err)}
	}

	return nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
