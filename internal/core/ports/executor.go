// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/genie/internal/core/domain"
)

//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

// CommandRunner runs a command to completion.
type CommandRunner interface {
	// Run executes cmd and captures its exit status and both output streams in full.
	// A non-zero exit is reported in the result, not as an error; an error means
	// the command could not be started or waited on.
	Run(ctx context.Context, cmd domain.Command) (*domain.CommandResult, error)
}

// ProcessStarter spawns long-lived children whose output streams are read separately.
type ProcessStarter interface {
	// Start spawns argv with stdin closed and stdout and stderr piped.
	// The child is killed when ctx is cancelled.
	Start(ctx context.Context, argv []string) (Process, error)
}

// Process is a running child started by a ProcessStarter.
type Process interface {
	// Stdout returns the child's primary output stream.
	Stdout() io.Reader
	// Stderr returns the child's secondary output stream.
	Stderr() io.Reader
	// Wait blocks until the child exits. Both streams must be drained first.
	Wait() error
}
