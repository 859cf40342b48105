package ports

import "context"

// Publisher receives snapshots produced by a supervisor.
type Publisher[P any] interface {
	// Update replaces the latest snapshot. Iterations must increase monotonically.
	Update(iteration uint64, payload P)
}

// Supervisor produces snapshots by supervising one underlying task.
type Supervisor[P any] interface {
	// Supervise runs until ctx is cancelled or the task fails fatally.
	// Cancellation is a clean stop and returns nil.
	Supervise(ctx context.Context, pub Publisher[P]) error
}
