package ports

import (
	"context"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// ToolInstaller materializes a resolved yarn release into a reusable layer
// directory and exposes the environment mutations the installation needs.
type ToolInstaller interface {
	// InstallYarn installs the release into layerDir, or reuses the layer
	// in place when its metadata already records the same version; reused
	// reports which of the two happened. The returned environment prepends
	// the tool's bin directory to the search path for both build and
	// launch visibility.
	InstallYarn(ctx context.Context, release *domain.Release, layerDir string) (env domain.Environment, reused bool, err error)
}

// CacheManager owns the lifecycle of the dependency cache layer.
type CacheManager interface {
	// Reconcile compares the layer's persisted key against the fingerprint
	// of lockfile and clears the layer on mismatch. When zeroInstall is
	// true the layer is left untouched and the decision is CacheBypassed.
	Reconcile(ctx context.Context, layerDir string, lockfile []byte, zeroInstall bool) (domain.CacheDecision, error)
}
