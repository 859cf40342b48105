// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/genie/internal/adapters/config"
	_ "go.trai.ch/genie/internal/adapters/daemon"
	_ "go.trai.ch/genie/internal/adapters/logger"
	_ "go.trai.ch/genie/internal/adapters/shell"
	_ "go.trai.ch/genie/internal/adapters/telemetry"
	_ "go.trai.ch/genie/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/genie/internal/app"
)
