package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonSpawner starts a genie daemon detached from the calling terminal.
type DaemonSpawner interface {
	// Spawn re-executes the current binary with args in a new session, appends its
	// log output to logPath and copies the daemon's startup announcement to out.
	// It returns once the daemon has announced its socket.
	Spawn(ctx context.Context, args []string, logPath string, out io.Writer) error
}
