// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/slack-code/internal/xdg"
	"github.com/smykla-skalski/slack-code/pkg/config"
)

var (
	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")

	// ErrInvalidTOML is returned when the TOML file cannot be parsed.
	ErrInvalidTOML = errors.New("invalid TOML")
)

const (
	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "SLACK_CODE_"

	// envSectionSeparator separates section and key in env names,
	// e.g. SLACK_CODE_DAEMON__LOG_LEVEL.
	envSectionSeparator = "__"
)

// credentialEnvKeys are env names (after the prefix) that map into [slack].
var credentialEnvKeys = map[string]string{
	"bot_token": "slack.bot_token",
	"app_token": "slack.app_token",
	"user_id":   "slack.user_id",
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (SLACK_CODE_*)
// 3. Config file ($XDG_CONFIG_HOME/slack-code/config.toml)
// 4. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	paths      xdg.PathResolver
	configPath string
}

// NewKoanfLoader creates a new KoanfLoader using XDG paths.
func NewKoanfLoader() *KoanfLoader {
	return NewKoanfLoaderWithResolver(xdg.DefaultResolver())
}

// NewKoanfLoaderWithResolver creates a new KoanfLoader with custom paths (for testing).
func NewKoanfLoaderWithResolver(paths xdg.PathResolver) *KoanfLoader {
	return &KoanfLoader{
		k:     koanf.New("."),
		paths: paths,
	}
}

// WithConfigPath overrides the config file location (--config).
func (l *KoanfLoader) WithConfigPath(path string) *KoanfLoader {
	l.configPath = path

	return l
}

// ConfigPath returns the config file that Load reads.
func (l *KoanfLoader) ConfigPath() string {
	if l.configPath != "" {
		return xdgExpand(l.configPath)
	}

	return l.paths.ConfigFile()
}

// HasConfigFile reports whether the config file exists.
func (l *KoanfLoader) HasConfigFile() bool {
	info, err := os.Stat(l.ConfigPath())

	return err == nil && !info.IsDir()
}

// Load loads configuration from all sources with precedence and validates it.
// A missing config file is not an error.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	// 1. Defaults
	if err := l.k.Load(confmap.Provider(defaultsToMap(l.paths), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// 2. Config file
	if err := l.loadTOMLFile(l.ConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load config file")
	}

	// 3. Environment variables: SLACK_CODE_*
	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 4. CLI flags
	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	cfg, err := unmarshal(l.k)
	if err != nil {
		return nil, err
	}

	expandPaths(cfg)

	return cfg, nil
}

// LoadFileOnly loads only the config file, without defaults, env or flags.
// Returns an empty config when the file does not exist.
func (l *KoanfLoader) LoadFileOnly() (*config.Config, error) {
	k := koanf.New(".")

	path := l.ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &config.Config{}, nil
	}

	if err := k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return nil, errors.CombineErrors(ErrInvalidTOML, err)
	}

	return unmarshal(k)
}

func unmarshal(k *koanf.Koanf) (*config.Config, error) {
	var cfg config.Config

	dc := CustomDecoderConfig()
	dc.Result = &cfg
	dc.TagName = "koanf"

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: dc,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	if err := l.k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return errors.CombineErrors(ErrInvalidTOML, err)
	}

	return nil
}

// envTransform maps environment variable names to config paths.
// SLACK_CODE_DAEMON__LOG_LEVEL → daemon.log_level
// SLACK_CODE_BOT_TOKEN → slack.bot_token
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if mapped, ok := credentialEnvKeys[key]; ok {
		return mapped, value
	}

	return strings.ReplaceAll(key, envSectionSeparator, "."), value
}

// flagsToConfig converts CLI flags to a configuration map.
func flagsToConfig(flags map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range flags {
		strVal, ok := value.(string)
		if !ok || strVal == "" {
			continue
		}

		switch key {
		case "socket":
			ensureMapKey(result, "daemon")["socket_path"] = strVal
		case "pid-file":
			ensureMapKey(result, "daemon")["pid_file"] = strVal
		case "log-file":
			ensureMapKey(result, "daemon")["log_file"] = strVal
		case "log-level":
			ensureMapKey(result, "daemon")["log_level"] = strVal
		case "metrics-addr":
			ensureMapKey(result, "metrics")["listen_addr"] = strVal
		}
	}

	return result
}

// ensureMapKey ensures a key exists as a map and returns it.
func ensureMapKey(cfg map[string]any, key string) map[string]any {
	if _, ok := cfg[key]; !ok {
		cfg[key] = make(map[string]any)
	}

	result, _ := cfg[key].(map[string]any)

	return result
}

func expandPaths(cfg *config.Config) {
	d := cfg.GetDaemon()
	d.SocketPath = xdgExpand(d.SocketPath)
	d.PIDFile = xdgExpand(d.PIDFile)
	d.LogFile = xdgExpand(d.LogFile)
}

func xdgExpand(path string) string {
	expanded, err := xdg.ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}
