package ports

import "go.trai.ch/drift/internal/core/domain"

// ConfigLoader defines the interface for loading the session configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the given working directory.
	// A missing config file is not an error; defaults apply.
	Load(cwd string) (*domain.Config, error)

	// DiscoverRoot walks up from cwd to find the directory containing
	// drift.yaml, falling back to cwd when none is found.
	DiscoverRoot(cwd string) (string, error)
}
