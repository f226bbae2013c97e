// Package xdg provides centralized path management following XDG Base Directory conventions.
// All user-level paths slack-code touches on disk are defined here.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "slack-code"

// File names inside the application directories.
const (
	ConfigFileName   = "config.toml"
	SocketFileName   = "daemon.sock"
	PIDFileName      = "daemon.pid"
	LogFileName      = "daemon.log"
	claudeDirName    = ".claude"
	claudeSettingsFn = "settings.json"
)

func userHome() (string, error) {
	return os.UserHomeDir()
}

func homeOr(fallback ...string) string {
	home, err := userHome()
	if err != nil {
		home = "~"
	}

	return filepath.Join(append([]string{home}, fallback...)...)
}

// --- XDG base directory functions ---

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}

	return homeOr(".config")
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}

	return homeOr(".local", "share")
}

// RuntimeHome returns $XDG_RUNTIME_DIR or ~/.local/run.
func RuntimeHome() string {
	if v := os.Getenv("XDG_RUNTIME_DIR"); v != "" {
		return v
	}

	return homeOr(".local", "run")
}

// --- slack-code specific directories ---

// ConfigDir returns ConfigHome()/slack-code.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// DataDir returns DataHome()/slack-code.
func DataDir() string {
	return filepath.Join(DataHome(), appName)
}

// RuntimeDir returns RuntimeHome()/slack-code.
func RuntimeDir() string {
	return filepath.Join(RuntimeHome(), appName)
}

// --- Specific file paths ---

// ConfigFile returns ConfigDir()/config.toml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// SocketFile returns RuntimeDir()/daemon.sock.
func SocketFile() string {
	return filepath.Join(RuntimeDir(), SocketFileName)
}

// PIDFile returns RuntimeDir()/daemon.pid.
func PIDFile() string {
	return filepath.Join(RuntimeDir(), PIDFileName)
}

// LogFile returns DataDir()/daemon.log.
func LogFile() string {
	return filepath.Join(DataDir(), LogFileName)
}

// ClaudeSettingsFile returns ~/.claude/settings.json.
func ClaudeSettingsFile() string {
	return homeOr(claudeDirName, claudeSettingsFn)
}

// --- Utility functions ---

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// EnsureDir creates a directory with 0700 permissions if it doesn't exist,
// and tightens permissions on an existing one.
func EnsureDir(path string) error {
	const dirMode = 0o700

	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to stat directory %s", path)
	}

	if info.Mode().Perm() != dirMode {
		if err := os.Chmod(path, dirMode); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", path)
		}
	}

	return nil
}
