package layers

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/cnbuild/yarnpack/internal/adapters/fetch"
	"github.com/cnbuild/yarnpack/internal/adapters/logger"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

const (
	// InstallerNodeID identifies the yarn distribution installer node.
	InstallerNodeID graft.ID = "adapter.installer"
	// CacheNodeID identifies the dependency cache manager node.
	CacheNodeID graft.ID = "adapter.cache"
)

func init() {
	graft.Register(graft.Node[ports.ToolInstaller]{
		ID:        InstallerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fetch.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.ToolInstaller, error) {
			fetcher, err := graft.Dep[ports.ArtifactFetcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewInstaller(fetcher, log), nil
		},
	})

	graft.Register(graft.Node[ports.CacheManager]{
		ID:        CacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CacheManager, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCacheManager(log), nil
		},
	})
}
