package buildpack

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/cnbuild/yarnpack/internal/adapters/inventory"
	"github.com/cnbuild/yarnpack/internal/adapters/layers"
	"github.com/cnbuild/yarnpack/internal/adapters/logger"
	"github.com/cnbuild/yarnpack/internal/adapters/shell"
	"github.com/cnbuild/yarnpack/internal/adapters/telemetry"
	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// NodeID is the unique identifier for the Buildpack graft node.
const NodeID graft.ID = "buildpack.main"

func init() {
	graft.Register(graft.Node[*Buildpack]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			inventory.NodeID,
			shell.NodeID,
			layers.InstallerNodeID,
			layers.CacheNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Buildpack, error) {
			inv, err := graft.Dep[*domain.Inventory](ctx)
			if err != nil {
				return nil, err
			}
			exec, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			installer, err := graft.Dep[ports.ToolInstaller](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[ports.CacheManager](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return New(inv, exec, installer, cache, log, tel), nil
		},
	})
}
