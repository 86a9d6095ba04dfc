package npm

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// planDTO mirrors the buildpack plan file handed to the build by the
// surrounding pipeline.
type planDTO struct {
	Entries []planEntryDTO `toml:"entries"`
}

type planEntryDTO struct {
	Name     string           `toml:"name"`
	Metadata planEntryMetaDTO `toml:"metadata"`
}

type planEntryMetaDTO struct {
	Enabled *bool `toml:"enabled"`
}

// ScriptsEnabled reads the node_build_scripts opt-out signal from the plan
// file. A participating collaborator may disable build scripts globally;
// an absent file, absent entry or absent flag all mean enabled.
func ScriptsEnabled(planPath string) (bool, error) {
	if planPath == "" {
		return true, nil
	}
	data, err := os.ReadFile(planPath) //nolint:gosec // plan path comes from the pipeline
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return true, zerr.Wrap(err, "read buildpack plan")
	}

	var dto planDTO
	if err := toml.Unmarshal(data, &dto); err != nil {
		return true, zerr.Wrap(err, "parse buildpack plan")
	}

	for _, entry := range dto.Entries {
		if entry.Name != domain.BuildPlanName {
			continue
		}
		if entry.Metadata.Enabled != nil && !*entry.Metadata.Enabled {
			return false, nil
		}
	}
	return true, nil
}
