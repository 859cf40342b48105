package domain

import (
	"path/filepath"
	"time"
)

const (
	// SocketSuffix is the file extension of every genie socket.
	SocketSuffix = ".sock"

	// LogSuffix is the file extension of a detached genie's log file.
	LogSuffix = ".log"

	// PathListSeparator separates directories in a search path value.
	PathListSeparator = ":"

	// RequestBufferSize bounds the bytes a connection may send before its request must parse.
	RequestBufferSize = 8192

	// DefaultPollTimeout bounds one genie's answer during a broadcast poll.
	DefaultPollTimeout = 5 * time.Second

	// DefaultInterval is the pause between runs of a periodic command.
	DefaultInterval = 2 * time.Second

	// DefaultShell runs periodic commands.
	DefaultShell = "bash"

	// DefaultWatchDebounce coalesces file events before re-running a periodic command early.
	DefaultWatchDebounce = 200 * time.Millisecond

	// DefaultCompiler is the compiler profile used by "genie tsc".
	DefaultCompiler = "tsc"

	// DefaultCycleStartPattern matches the first line of a tsc --watch compilation cycle.
	DefaultCycleStartPattern = `Starting compilation in watch mode\.\.\.|File change detected\. Starting incremental compilation\.\.\.`

	// DefaultCycleEndPattern matches the last line of a tsc --watch compilation cycle
	// and captures its error count.
	DefaultCycleEndPattern = `Found ([0-9]+) errors?\. Watching for file changes\.`

	// SecondaryLinePrefix tags lines a merged child wrote to its error stream.
	SecondaryLinePrefix = "err: "

	// ConfigDirName is the directory under the user config dir holding genie's config.
	ConfigDirName = "genie"

	// ConfigFileName is the name of the optional YAML config file.
	ConfigFileName = "config.yaml"

	// EnvPath names the search path environment variable.
	EnvPath = "GENIE_PATH"

	// EnvCookie names the cookie environment variable.
	EnvCookie = "GENIE_COOKIE"

	// EnvConfig names the environment variable overriding the config file location.
	EnvConfig = "GENIE_CONFIG"

	// EnvDetached marks a daemon process re-executed by --detach.
	EnvDetached = "GENIE_DETACHED"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// SocketPerm restricts genie sockets to their owner (rw-------).
	SocketPerm = 0o600

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCompilerCommand returns the argv used for the default compiler profile.
func DefaultCompilerCommand() []string {
	return []string{"tsc", "--watch"}
}

// LogPath returns the log file used by a detached genie of the given name.
func LogPath(dir, name string) string {
	return filepath.Join(dir, name+LogSuffix)
}
