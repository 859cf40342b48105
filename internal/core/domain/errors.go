package domain

import "go.trai.ch/zerr"

var (
	// ErrIncompleteRequest is returned when the bytes received so far are a strict prefix of a valid request.
	ErrIncompleteRequest = zerr.New("incomplete request")

	// ErrMalformedRequest is returned when the bytes received cannot be the start of any valid request.
	ErrMalformedRequest = zerr.New("malformed request")

	// ErrRequestTooLarge is returned when a connection fills the request buffer without a complete request.
	ErrRequestTooLarge = zerr.New("request exceeds buffer capacity")

	// ErrInvalidCookie is returned when a cookie is empty or contains non-alphanumeric characters.
	ErrInvalidCookie = zerr.New("cookie must be one or more alphanumeric characters")

	// ErrInvalidGenieName is returned when a genie name or disambiguator is not lowercase alphanumeric.
	ErrInvalidGenieName = zerr.New("genie name and id must be lowercase alphanumeric")

	// ErrGenieNotFound is returned when no socket on the search path matches the requested genie.
	ErrGenieNotFound = zerr.New("genie not found in path")

	// ErrPathExhausted is returned when a relocation targets a directory beyond the end of the search path.
	ErrPathExhausted = zerr.New("path exhausted")

	// ErrEmptySearchPath is returned when a client operation runs without any search path directory.
	ErrEmptySearchPath = zerr.New("search path is empty, set GENIE_PATH or --path")

	// ErrMissingCookie is returned when a client operation needs a cookie and none is configured.
	ErrMissingCookie = zerr.New("cookie is not set, set GENIE_COOKIE or --cookie")

	// ErrSocketBindFailed is returned when the daemon cannot bind its socket.
	ErrSocketBindFailed = zerr.New("failed to bind genie socket")

	// ErrSocketRelocateFailed is returned when a socket file cannot be moved to another directory.
	ErrSocketRelocateFailed = zerr.New("failed to move socket")

	// ErrConnectFailed is returned when a client cannot connect to a genie socket.
	ErrConnectFailed = zerr.New("failed to connect to genie")

	// ErrEmptyCommand is returned when a daemon is started without a command to supervise.
	ErrEmptyCommand = zerr.New("no command specified")

	// ErrCommandStartFailed is returned when the supervised command cannot be spawned.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrStreamUnavailable is returned when an output stream of the supervised child cannot be read.
	ErrStreamUnavailable = zerr.New("child output stream unavailable")

	// ErrChildExited is returned when the long-lived child of an incremental merge runner terminates.
	ErrChildExited = zerr.New("supervised process exited")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is well-formed YAML but semantically invalid.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownCompiler is returned when a compiler profile is requested that is not configured.
	ErrUnknownCompiler = zerr.New("unknown compiler profile")

	// ErrDaemonSpawnFailed is returned when a detached daemon fails to start.
	ErrDaemonSpawnFailed = zerr.New("failed to spawn detached genie")
)
