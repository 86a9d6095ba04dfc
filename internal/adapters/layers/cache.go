package layers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// CacheManager reconciles the dependency cache layer against the project
// lockfile.
type CacheManager struct {
	logger ports.Logger
}

// NewCacheManager creates a CacheManager.
func NewCacheManager(logger ports.Logger) *CacheManager {
	return &CacheManager{logger: logger}
}

var _ ports.CacheManager = (*CacheManager)(nil)

// Fingerprint computes the content digest used as the layer's identity key.
// Byte-identical lockfiles always produce identical fingerprints; any byte
// difference produces a different fingerprint.
func Fingerprint(lockfile []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(lockfile))
}

// Reconcile decides the cache layer's fate for this build. A dependency
// cache is only valid for the exact dependency graph that produced it, so
// any lockfile drift clears the layer. The check is content-based: reverting
// a lockfile to a previously seen state is a hit again.
func (m *CacheManager) Reconcile(ctx context.Context, layerDir string, lockfile []byte, zeroInstall bool) (domain.CacheDecision, error) {
	if zeroInstall {
		// The project vendors its own cache; managing ours would conflict.
		return domain.CacheBypassed, nil
	}

	key := Fingerprint(lockfile)

	meta, err := readMetadata(layerDir)
	if err != nil {
		return "", err
	}
	if meta.CacheKey == key {
		return domain.CacheReused, nil
	}

	if meta.CacheKey != "" {
		m.logger.Info("Lockfile changed, clearing dependency cache")
	}
	if err := clearDir(ctx, layerDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(layerDir, 0o755); err != nil {
		return "", zerr.Wrap(err, "create cache layer")
	}
	if err := writeMetadata(layerDir, metadata{CacheKey: key}); err != nil {
		return "", err
	}
	return domain.CacheInvalidated, nil
}

// clearDir removes the directory's entries in parallel. Dependency caches
// hold thousands of entries, so removal is bounded by CPU count rather than
// done serially.
func clearDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "read cache layer")
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := os.RemoveAll(path); err != nil {
				return zerr.With(zerr.Wrap(err, "clear cache entry"), "path", path)
			}
			return nil
		})
	}
	return g.Wait()
}
