package domain

import (
	"strings"
	"time"
)

// Config is the merged configuration shared by daemons and clients.
type Config struct {
	// SearchPath is the ordered list of directories holding genie sockets.
	SearchPath []string
	// Cookie identifies this client to every genie it polls.
	Cookie Cookie
	// Dir is where daemons create their sockets. Defaults to the first search path entry.
	Dir string
	// Watch holds defaults for periodic daemons.
	Watch WatchConfig
	// Compilers maps profile names to incremental compiler definitions.
	Compilers map[string]CompilerConfig
}

// WatchConfig configures periodic daemons.
type WatchConfig struct {
	Interval time.Duration
	Shell    string
	Bell     bool
	TTY      bool
}

// CompilerConfig describes an incremental compiler supervised by a merge runner.
type CompilerConfig struct {
	Command []string
	Start   string
	End     string
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Watch: WatchConfig{
			Interval: DefaultInterval,
			Shell:    DefaultShell,
		},
		Compilers: map[string]CompilerConfig{
			DefaultCompiler: {
				Command: DefaultCompilerCommand(),
				Start:   DefaultCycleStartPattern,
				End:     DefaultCycleEndPattern,
			},
		},
	}
}

// SocketDir returns the directory new daemons bind in.
func (c *Config) SocketDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	for _, dir := range c.SearchPath {
		if dir != "" {
			return dir
		}
	}
	return "."
}

// ParseSearchPath splits a colon-separated search path value.
// Empty entries are kept so that indices match the literal value.
func ParseSearchPath(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, PathListSeparator)
}
