// Package layers manages the yarn distribution layer and the dependency
// cache layer: reusable directories with persisted identity metadata.
package layers

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"
)

// metadata is the identity record persisted alongside a layer directory.
// A layer is reused across builds exactly when its record still matches the
// current inputs.
type metadata struct {
	// Version is the installed yarn version (distribution layer).
	Version string `toml:"version,omitempty"`
	// CacheKey is the lockfile fingerprint (dependency cache layer).
	CacheKey string `toml:"cache_key,omitempty"`
}

// metadataPath returns the sidecar file recording a layer's identity.
func metadataPath(layerDir string) string {
	return filepath.Clean(layerDir) + ".toml"
}

// readMetadata loads a layer's identity record. A missing file yields an
// empty record, which never matches and so forces a miss.
func readMetadata(layerDir string) (metadata, error) {
	var meta metadata
	data, err := os.ReadFile(metadataPath(layerDir)) //nolint:gosec // layer paths come from the pipeline
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return metadata{}, nil
		}
		return metadata{}, zerr.Wrap(err, "read layer metadata")
	}
	if err := toml.Unmarshal(data, &meta); err != nil {
		// Corrupt metadata is treated as absent: the layer will be rebuilt.
		return metadata{}, nil
	}
	return meta, nil
}

// writeMetadata persists a layer's identity record.
func writeMetadata(layerDir string, meta metadata) error {
	path := metadataPath(layerDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerr.Wrap(err, "create layer parent directory")
	}

	f, err := os.Create(path) //nolint:gosec // layer paths come from the pipeline
	if err != nil {
		return zerr.Wrap(err, "create layer metadata")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	if err := toml.NewEncoder(f).Encode(meta); err != nil {
		return zerr.Wrap(err, "write layer metadata")
	}
	return nil
}
