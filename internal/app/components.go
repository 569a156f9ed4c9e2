package app

import (
	driftfs "go.trai.ch/drift/internal/adapters/fs"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
)

// Components bundles the wired collaborators the CLI needs to build sessions.
type Components struct {
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Store        ports.SnapshotStore
	Hasher       ports.Hasher
	Watcher      ports.Watcher
	Walker       *driftfs.Walker
	Tracer       ports.Tracer
}

// NewSession builds a watch session for the given configuration.
func (c *Components) NewSession(cfg *domain.Config, extractors ...ports.Extractor) *Session {
	return NewSession(cfg, c.Logger, c.Store, c.Tracer, c.Hasher, c.Watcher, c.Walker, extractors...)
}
