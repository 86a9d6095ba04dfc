package inventory

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

const NodeID graft.ID = "adapter.inventory"

func init() {
	graft.Register(graft.Node[*domain.Inventory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*domain.Inventory, error) {
			return Load()
		},
	})
}
