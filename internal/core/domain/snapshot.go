package domain

// Snapshot is one immutable, versioned unit of supervisor output.
// Snapshots are shared by pointer and superseded, never mutated.
type Snapshot[P any] struct {
	Iteration uint64
	Payload   P
}

// CommandResult is the payload produced by one run of a periodic command.
type CommandResult struct {
	// ExitCode is the exit status when Exited is true, -1 otherwise.
	ExitCode int
	// Exited is false when the exit status is unknown, e.g. the command was killed by a signal.
	Exited bool
	Stdout []byte
	Stderr []byte
}

// Failed reports whether the run should be flagged to clients: a non-zero or unknown exit status.
func (r *CommandResult) Failed() bool {
	return !r.Exited || r.ExitCode != 0
}

// CycleResult is the payload of one completed incremental compilation cycle.
// A nil *CycleResult means a cycle is in progress.
type CycleResult struct {
	ErrorCount int
	Text       string
}
