package ports

import "go.trai.ch/genie/internal/core/domain"

// ConfigLoader defines the interface for loading genie's configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load merges built-in defaults, the config file and the environment.
	// An empty path selects the default config file location.
	Load(path string) (*domain.Config, error)
	// ExpandHome replaces a leading "~" in path with the user's home directory.
	ExpandHome(path string) string
}
