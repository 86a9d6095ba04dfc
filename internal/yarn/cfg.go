package yarn

import (
	"os"
	"path/filepath"
	"strings"
)

// CachePopulated reports whether the cache folder already holds dependency
// archives checked into the project (yarn zero-install). When it does, the
// project supplies its own vendored cache and no layer management applies.
func CachePopulated(cacheDir string) bool {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".zip", ".tgz":
			return true
		}
	}
	return false
}
