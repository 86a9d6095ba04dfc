// Package npm reads the project-side collaborator files: package.json,
// .yarnrc.yml, Procfile and the pipeline's buildpack plan.
package npm

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// manifestDTO mirrors the package.json fields the build consumes.
type manifestDTO struct {
	Name    string            `json:"name"`
	Engines enginesDTO        `json:"engines"`
	Scripts map[string]string `json:"scripts"`
}

type enginesDTO struct {
	Yarn string `json:"yarn"`
	Node string `json:"node"`
}

// LoadPackageJson reads and parses the project manifest in appDir.
func LoadPackageJson(appDir string) (*domain.PackageJson, error) {
	path := filepath.Join(appDir, "package.json")
	data, err := os.ReadFile(path) //nolint:gosec // app dir comes from the pipeline
	if err != nil {
		return nil, zerr.Wrap(domain.ErrManifestMalformed, err.Error())
	}

	var dto manifestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(domain.ErrManifestMalformed, err.Error())
	}

	return &domain.PackageJson{
		Name: dto.Name,
		Engines: domain.Engines{
			Yarn: dto.Engines.Yarn,
			Node: dto.Engines.Node,
		},
		Scripts: dto.Scripts,
	}, nil
}

// HasYarnLock reports whether appDir is a yarn-managed project.
func HasYarnLock(appDir string) bool {
	_, err := os.Stat(filepath.Join(appDir, "yarn.lock"))
	return err == nil
}

// ReadYarnLock returns the lockfile bytes for cache fingerprinting.
func ReadYarnLock(appDir string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(appDir, "yarn.lock")) //nolint:gosec // app dir comes from the pipeline
	if err != nil {
		return nil, zerr.Wrap(err, "read yarn.lock")
	}
	return data, nil
}

// HasProcfile reports whether the project declares its own process list, in
// which case no default launch process is emitted.
func HasProcfile(appDir string) bool {
	_, err := os.Stat(filepath.Join(appDir, "Procfile"))
	return err == nil
}
