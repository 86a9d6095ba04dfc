package npm

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// yarnrcDTO mirrors the .yarnrc.yml keys the build consults.
type yarnrcDTO struct {
	CacheFolder string `yaml:"cacheFolder"`
}

// CacheFolderOverride returns the cache folder a project pins in its
// .yarnrc.yml, if any. A missing or unreadable file is simply no override;
// yarn itself is the authority on its config, this is only used to report
// what the project declared.
func CacheFolderOverride(appDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(appDir, ".yarnrc.yml")) //nolint:gosec // app dir comes from the pipeline
	if err != nil {
		return "", false
	}

	var dto yarnrcDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return "", false
	}
	if dto.CacheFolder == "" {
		return "", false
	}
	return dto.CacheFolder, true
}
