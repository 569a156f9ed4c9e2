package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/drift/internal/core/ports"
)

// TracerNodeID is the unique identifier for the tracer Graft node.
const TracerNodeID graft.ID = "adapter.tracer"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			Setup()
			return NewOTelTracer("drift"), nil
		},
	})
}
