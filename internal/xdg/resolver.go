package xdg

import "path/filepath"

// PathResolver resolves the files slack-code reads and writes.
// Use ResolverFor() when paths should be relative to a specific home directory.
type PathResolver interface {
	ConfigFile() string
	SocketFile() string
	PIDFile() string
	LogFile() string
	ClaudeSettingsFile() string
}

// DefaultResolver returns a PathResolver using real XDG paths.
func DefaultResolver() PathResolver {
	return defaultResolver{}
}

type defaultResolver struct{}

func (defaultResolver) ConfigFile() string         { return ConfigFile() }
func (defaultResolver) SocketFile() string         { return SocketFile() }
func (defaultResolver) PIDFile() string            { return PIDFile() }
func (defaultResolver) LogFile() string            { return LogFile() }
func (defaultResolver) ClaudeSettingsFile() string { return ClaudeSettingsFile() }

// ResolverFor returns a PathResolver rooted at homeDir that ignores XDG
// environment variables.
func ResolverFor(homeDir string) PathResolver {
	return homeResolver{homeDir: homeDir}
}

type homeResolver struct {
	homeDir string
}

func (r homeResolver) ConfigFile() string {
	return filepath.Join(r.homeDir, ".config", appName, ConfigFileName)
}

func (r homeResolver) runtimeDir() string {
	return filepath.Join(r.homeDir, ".local", "run", appName)
}

func (r homeResolver) SocketFile() string {
	return filepath.Join(r.runtimeDir(), SocketFileName)
}

func (r homeResolver) PIDFile() string {
	return filepath.Join(r.runtimeDir(), PIDFileName)
}

func (r homeResolver) LogFile() string {
	return filepath.Join(r.homeDir, ".local", "share", appName, LogFileName)
}

func (r homeResolver) ClaudeSettingsFile() string {
	return filepath.Join(r.homeDir, claudeDirName, claudeSettingsFn)
}
