// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/drift/internal/adapters/config"
	_ "go.trai.ch/drift/internal/adapters/fs"
	_ "go.trai.ch/drift/internal/adapters/logger"
	_ "go.trai.ch/drift/internal/adapters/store"
	_ "go.trai.ch/drift/internal/adapters/telemetry"
	_ "go.trai.ch/drift/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/drift/internal/app"
)
