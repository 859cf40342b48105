package daemon

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genie/internal/core/ports"
)

// NodeID is the unique identifier for the daemon spawner Graft node.
const NodeID graft.ID = "adapter.daemon"

func init() {
	graft.Register(graft.Node[ports.DaemonSpawner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DaemonSpawner, error) {
			return NewSpawner()
		},
	})
}
