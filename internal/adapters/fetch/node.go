package fetch

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/cnbuild/yarnpack/internal/core/ports"
)

const NodeID graft.ID = "adapter.fetcher"

func init() {
	graft.Register(graft.Node[ports.ArtifactFetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ArtifactFetcher, error) {
			return New(), nil
		},
	})
}
