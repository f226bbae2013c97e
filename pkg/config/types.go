package config

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNegativeDuration is returned when a negative duration is provided.
var ErrNegativeDuration = errors.New("duration must be non-negative")

// Duration is a time.Duration written as a Go duration string ("5s", "24h")
// in TOML and JSON.
type Duration time.Duration

// ParseDuration parses a non-negative Go duration string.
func ParseDuration(s string) (Duration, error) {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return 0, errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	return Duration(dur), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalJSON encodes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "duration must be a string")
	}

	return d.UnmarshalText([]byte(s))
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}
