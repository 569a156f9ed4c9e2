package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/drift/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/drift/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/drift/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/drift/internal/adapters/store"
	"go.trai.ch/drift/internal/adapters/telemetry"
	"go.trai.ch/drift/internal/adapters/watcher"
	"go.trai.ch/drift/internal/core/ports"
)

// ComponentsNodeID is the unique identifier for the app components Graft node.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.NodeID,
			store.NodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	snapStore, err := graft.Dep[ports.SnapshotStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		Logger:       log,
		ConfigLoader: loader,
		Store:        snapStore,
		Hasher:       hasher,
		Walker:       walker,
		Watcher:      fsWatcher,
		Tracer:       tracer,
	}, nil
}
