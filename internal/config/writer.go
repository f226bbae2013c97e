package config

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-skalski/slack-code/internal/fsutil"
	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	fileHeader = "# slack-code configuration\n# Written by `slack-code setup`.\n\n"
)

// Writer handles writing configuration to TOML files.
type Writer struct {
	paths xdg.PathResolver
}

// NewWriter creates a new Writer using XDG paths.
func NewWriter() *Writer {
	return NewWriterWithResolver(xdg.DefaultResolver())
}

// NewWriterWithResolver creates a new Writer with custom paths (for testing).
func NewWriterWithResolver(paths xdg.PathResolver) *Writer {
	return &Writer{paths: paths}
}

// ConfigPath returns the path Write writes to.
func (w *Writer) ConfigPath() string {
	return w.paths.ConfigFile()
}

// Write writes the configuration to the default config file.
func (w *Writer) Write(cfg *config.Config) error {
	return w.WriteFile(w.ConfigPath(), cfg)
}

// WriteFile writes the configuration to the given path with 0600 permissions.
func (*Writer) WriteFile(path string, cfg *config.Config) error {
	if cfg == nil {
		return errors.Wrap(ErrInvalidConfig, "config is nil")
	}

	var buf bytes.Buffer

	buf.WriteString(fileHeader)

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if _, err := fsutil.AtomicWriteFile(path, buf.Bytes(), fsutil.WithPerm(ConfigFileMode)); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	// Atomic replace keeps the mode of an existing file.
	if err := os.Chmod(path, ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", path)
	}

	return nil
}
