// Package inventory loads the embedded yarn release catalog.
package inventory

import (
	_ "embed"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

//go:embed inventory.toml
var embedded []byte

// releaseDTO mirrors one [[releases]] table in inventory.toml.
type releaseDTO struct {
	Version   string        `toml:"version"`
	Artifacts []artifactDTO `toml:"artifacts"`
}

type artifactDTO struct {
	OS     string `toml:"os"`
	Arch   string `toml:"arch"`
	URL    string `toml:"url"`
	SHA256 string `toml:"sha256"`
}

type inventoryDTO struct {
	SchemaVersion int          `toml:"schema_version"`
	Releases      []releaseDTO `toml:"releases"`
}

// Load parses the embedded inventory. Parse failure is fatal and aborts the
// build before any phase runs.
func Load() (*domain.Inventory, error) {
	return parse(embedded)
}

func parse(data []byte) (*domain.Inventory, error) {
	var dto inventoryDTO
	if err := toml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(domain.ErrInventoryParse, err.Error())
	}

	releases := make([]*domain.Release, 0, len(dto.Releases))
	for _, rel := range dto.Releases {
		version, err := semver.NewVersion(rel.Version)
		if err != nil {
			parseErr := zerr.Wrap(domain.ErrInventoryParse, err.Error())
			return nil, zerr.With(parseErr, "version", rel.Version)
		}

		artifacts := make(map[string]domain.Artifact, len(rel.Artifacts))
		for _, a := range rel.Artifacts {
			key := platformKey(a.OS, a.Arch)
			artifacts[key] = domain.Artifact{URL: a.URL, SHA256: a.SHA256}
		}

		releases = append(releases, &domain.Release{
			Version:   version,
			Artifacts: artifacts,
		})
	}

	return domain.NewInventory(releases), nil
}

func platformKey(os, arch string) string {
	if os == "" || os == "*" {
		return domain.PlatformAny
	}
	return os + "/" + arch
}
