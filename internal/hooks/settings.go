// Package hooks registers the slack-code hook client in Claude Code settings.
package hooks

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrInvalidSettings is returned when the settings file is not a JSON object
// or its hooks section has an unexpected shape.
var ErrInvalidSettings = errors.New("invalid Claude settings")

// Settings is the typed view of the hooks section of a settings file.
type Settings struct {
	Hooks map[string][]MatcherBlock `json:"hooks"`
}

// MatcherBlock groups hook commands under an optional matcher.
type MatcherBlock struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []CommandHook `json:"hooks"`
}

// CommandHook is a single hook command.
type CommandHook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// readRaw loads the settings file as a generic object so unrelated keys
// survive a rewrite. A missing or empty file yields an empty object.
func readRaw(path string) (map[string]any, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the resolver or a flag
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, false, nil
		}

		return nil, false, errors.Wrapf(err, "reading %s", path)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, true, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, true, errors.WithSecondaryError(
			errors.Wrapf(ErrInvalidSettings, "parsing %s", path),
			err,
		)
	}

	if raw == nil {
		raw = map[string]any{}
	}

	return raw, true, nil
}

// parse decodes the given events of the hooks section of raw into the typed
// view. Other events are left alone so foreign shapes do not fail parsing.
func parse(raw map[string]any, events []string) (*Settings, error) {
	settings := &Settings{Hooks: map[string][]MatcherBlock{}}

	section, ok := raw["hooks"]
	if !ok || section == nil {
		return settings, nil
	}

	hooks, ok := section.(map[string]any)
	if !ok {
		return nil, errors.Wrap(ErrInvalidSettings, `"hooks" is not an object`)
	}

	selected := make(map[string]any, len(events))

	for _, event := range events {
		if v, ok := hooks[event]; ok && v != nil {
			selected[event] = v
		}
	}

	data, err := json.Marshal(map[string]any{"hooks": selected})
	if err != nil {
		return nil, errors.Wrap(err, "encoding hooks section")
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.WithSecondaryError(
			errors.Wrap(ErrInvalidSettings, "hooks section"),
			err,
		)
	}

	if settings.Hooks == nil {
		settings.Hooks = map[string][]MatcherBlock{}
	}

	return settings, nil
}

// hooksSection returns the hooks object of raw, creating it when absent.
func hooksSection(raw map[string]any) (map[string]any, error) {
	section, ok := raw["hooks"]
	if !ok || section == nil {
		hooks := map[string]any{}
		raw["hooks"] = hooks

		return hooks, nil
	}

	hooks, ok := section.(map[string]any)
	if !ok {
		return nil, errors.Wrap(ErrInvalidSettings, `"hooks" is not an object`)
	}

	return hooks, nil
}
