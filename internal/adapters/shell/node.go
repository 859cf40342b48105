package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/genie/internal/adapters/logger" //nolint:depguard // Logger is injected
	"go.trai.ch/genie/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the command runner Graft node.
	NodeID graft.ID = "adapter.executor"
	// StarterNodeID is the unique identifier for the process starter Graft node.
	StarterNodeID graft.ID = "adapter.executor.starter"
)

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CommandRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})

	graft.Register(graft.Node[ports.ProcessStarter]{
		ID:        StarterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProcessStarter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})
}
