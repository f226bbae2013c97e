package hooks

import (
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/internal/fsutil"
	"github.com/smykla-skalski/slack-code/pkg/config"
	"github.com/smykla-skalski/slack-code/pkg/logger"
)

const (
	// DefaultCommand is the hook client registered in settings.
	DefaultCommand = "slack-code-hook"

	// NotificationMatcher selects the notifications the daemon tracks.
	NotificationMatcher = "permission_prompt|idle_prompt"

	settingsPermissions = 0o644
)

// Events lists the hook events slack-code registers for.
var Events = []string{"SessionStart", "SessionEnd", "Notification", "Stop"}

// Installer edits one Claude Code settings file.
type Installer struct {
	path    string
	command string
	timeout int
	logger  logger.Logger
	now     func() time.Time
}

// Option configures the Installer.
type Option func(*Installer)

// WithCommand sets the command written into new entries.
func WithCommand(command string) Option {
	return func(i *Installer) {
		if command != "" {
			i.command = command
		}
	}
}

// WithTimeout sets the hook timeout in seconds.
func WithTimeout(seconds int) Option {
	return func(i *Installer) {
		if seconds > 0 {
			i.timeout = seconds
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(i *Installer) {
		if log != nil {
			i.logger = log
		}
	}
}

// WithTimeFunc sets the clock used for backup names.
func WithTimeFunc(fn func() time.Time) Option {
	return func(i *Installer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewInstaller creates an installer for the settings file at path.
func NewInstaller(path string, opts ...Option) *Installer {
	i := &Installer{
		path:    path,
		command: DefaultCommand,
		timeout: config.DefaultHookTimeout,
		logger:  logger.NewNoOpLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Path returns the settings file path.
func (i *Installer) Path() string {
	return i.path
}

// Result reports what Install or Uninstall changed.
type Result struct {
	// Changed lists the hook events whose entries were added or removed.
	Changed []string

	// Backup is the copy of the previous file, when one was written.
	Backup string
}

// Status reports which hook events carry a slack-code entry.
type Status struct {
	Path      string
	Installed map[string]bool
}

// All reports whether every event is registered.
func (s Status) All() bool {
	for _, event := range Events {
		if !s.Installed[event] {
			return false
		}
	}

	return true
}

// Missing lists the events without a slack-code entry.
func (s Status) Missing() []string {
	var missing []string

	for _, event := range Events {
		if !s.Installed[event] {
			missing = append(missing, event)
		}
	}

	return missing
}

// Status reads the settings file and reports registered events.
func (i *Installer) Status() (Status, error) {
	status := Status{Path: i.path, Installed: make(map[string]bool, len(Events))}

	raw, _, err := readRaw(i.path)
	if err != nil {
		return status, err
	}

	settings, err := parse(raw, Events)
	if err != nil {
		return status, err
	}

	for _, event := range Events {
		status.Installed[event] = slices.ContainsFunc(settings.Hooks[event], i.ownsBlock)
	}

	return status, nil
}

// Install adds a slack-code entry to every event that lacks one. Unrelated
// keys and hook entries are preserved.
func (i *Installer) Install() (Result, error) {
	status, err := i.Status()
	if err != nil {
		return Result{}, err
	}

	missing := status.Missing()
	if len(missing) == 0 {
		i.logger.Debug("hooks already installed", "path", i.path)

		return Result{}, nil
	}

	raw, _, err := readRaw(i.path)
	if err != nil {
		return Result{}, err
	}

	hooks, err := hooksSection(raw)
	if err != nil {
		return Result{}, err
	}

	for _, event := range missing {
		var existing []any

		if current, ok := hooks[event]; ok && current != nil {
			list, ok := current.([]any)
			if !ok {
				return Result{}, errors.Wrapf(ErrInvalidSettings, "hooks.%s is not a list", event)
			}

			existing = list
		}

		hooks[event] = append(existing, i.entry(event))
	}

	backup, err := i.write(raw)
	if err != nil {
		return Result{}, err
	}

	i.logger.Info("hooks installed", "path", i.path, "events", strings.Join(missing, ","))

	return Result{Changed: missing, Backup: backup}, nil
}

// Uninstall removes slack-code commands from every event, dropping blocks
// and events left empty. A missing settings file is not an error.
func (i *Installer) Uninstall() (Result, error) {
	raw, exists, err := readRaw(i.path)
	if err != nil || !exists {
		return Result{}, err
	}

	section, ok := raw["hooks"]
	if !ok || section == nil {
		return Result{}, nil
	}

	hooks, err := hooksSection(raw)
	if err != nil {
		return Result{}, err
	}

	var changed []string

	for _, event := range Events {
		list, ok := hooks[event].([]any)
		if !ok {
			continue
		}

		kept, removed := i.stripEntries(list)
		if !removed {
			continue
		}

		changed = append(changed, event)

		if len(kept) == 0 {
			delete(hooks, event)
		} else {
			hooks[event] = kept
		}
	}

	if len(changed) == 0 {
		return Result{}, nil
	}

	backup, err := i.write(raw)
	if err != nil {
		return Result{}, err
	}

	i.logger.Info("hooks uninstalled", "path", i.path, "events", strings.Join(changed, ","))

	return Result{Changed: changed, Backup: backup}, nil
}

func (i *Installer) entry(event string) map[string]any {
	entry := map[string]any{
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": i.command,
				"timeout": i.timeout,
			},
		},
	}

	if event == "Notification" {
		entry["matcher"] = NotificationMatcher
	}

	return entry
}

// stripEntries removes our commands from the blocks of one event.
func (i *Installer) stripEntries(blocks []any) ([]any, bool) {
	kept := make([]any, 0, len(blocks))
	removed := false

	for _, b := range blocks {
		block, ok := b.(map[string]any)
		if !ok {
			kept = append(kept, b)

			continue
		}

		commands, ok := block["hooks"].([]any)
		if !ok {
			kept = append(kept, b)

			continue
		}

		remaining := make([]any, 0, len(commands))

		for _, c := range commands {
			cmd, ok := c.(map[string]any)
			if ok && cmd["type"] == "command" && i.ownsCommand(stringValue(cmd["command"])) {
				removed = true

				continue
			}

			remaining = append(remaining, c)
		}

		if len(remaining) == 0 {
			continue
		}

		block["hooks"] = remaining
		kept = append(kept, block)
	}

	return kept, removed
}

func (i *Installer) ownsBlock(block MatcherBlock) bool {
	return slices.ContainsFunc(block.Hooks, func(h CommandHook) bool {
		return h.Type == "command" && i.ownsCommand(h.Command)
	})
}

// ownsCommand matches both the configured command and any install path of
// the hook client binary.
func (i *Installer) ownsCommand(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return false
	}

	name := filepath.Base(fields[0])

	return fields[0] == i.command || name == filepath.Base(i.command) || name == DefaultCommand
}

func (i *Installer) write(raw map[string]any) (string, error) {
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding settings")
	}

	data = append(data, '\n')

	backup, err := fsutil.AtomicWriteFile(i.path, data,
		fsutil.WithPerm(settingsPermissions),
		fsutil.WithBackup(),
		fsutil.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", errors.Wrapf(err, "writing %s", i.path)
	}

	return backup, nil
}

func stringValue(v any) string {
	s, _ := v.(string)

	return s
}
