package logger

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownLevel is returned by ParseLevel for names it does not recognise.
var ErrUnknownLevel = errors.New("unknown log level")

// Level represents the log level.
type Level int

const (
	// LevelDebug logs everything, including per-message transport chatter.
	LevelDebug Level = iota

	// LevelInfo logs lifecycle and state transitions.
	LevelInfo

	// LevelError logs only failures.
	LevelError
)

// String returns the lower-case level name used in configuration.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// ToSlogLevel converts Level to slog.Level.
func (l Level) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a configured level name to a Level.
// "trace" is accepted as debug and "warn"/"warning" as info.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return LevelDebug, nil
	case "", "info", "warn", "warning":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.Wrapf(ErrUnknownLevel, "%q", name)
	}
}
