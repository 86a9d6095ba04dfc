package buildpack

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// planFileDTO mirrors the build plan document exchanged with the pipeline.
type planFileDTO struct {
	Provides []planNameDTO `toml:"provides"`
	Requires []planNameDTO `toml:"requires"`
}

type planNameDTO struct {
	Name string `toml:"name"`
}

// writeBuildPlan writes the detect-phase plan declarations.
func writeBuildPlan(path string, plan domain.BuildPlan) error {
	dto := planFileDTO{}
	for _, name := range plan.Provides {
		dto.Provides = append(dto.Provides, planNameDTO{Name: name})
	}
	for _, name := range plan.Requires {
		dto.Requires = append(dto.Requires, planNameDTO{Name: name})
	}
	return writeTOML(path, dto)
}

// launchFileDTO mirrors the launch metadata document.
type launchFileDTO struct {
	Processes []launchProcessDTO `toml:"processes"`
}

type launchProcessDTO struct {
	Type    string   `toml:"type"`
	Command []string `toml:"command"`
	Default bool     `toml:"default"`
}

// writeLaunch writes launch.toml under the layers directory.
func writeLaunch(layersDir string, processes []domain.LaunchProcess) error {
	dto := launchFileDTO{}
	for _, p := range processes {
		dto.Processes = append(dto.Processes, launchProcessDTO{
			Type:    p.Type,
			Command: p.Command,
			Default: p.Default,
		})
	}
	return writeTOML(filepath.Join(layersDir, "launch.toml"), dto)
}

func writeTOML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerr.Wrap(err, "create output directory")
	}
	f, err := os.Create(path) //nolint:gosec // output paths come from the pipeline
	if err != nil {
		return zerr.Wrap(err, "create output file")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	if err := toml.NewEncoder(f).Encode(v); err != nil {
		return zerr.Wrap(err, "encode output file")
	}
	return nil
}
