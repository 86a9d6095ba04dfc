package domain

import "go.trai.ch/zerr"

// YarnMode identifies the major-version family a yarn CLI belongs to.
// Command syntax differs between yarn 1 and the berry line (2+), so every
// supported major supplies its own command templates. It is a closed set:
// an unsupported major is an explicit error, never a fallback guess.
type YarnMode int

const (
	// Yarn1 is the classic yarn 1.x line.
	Yarn1 YarnMode = iota + 1
	// Yarn2 is the first berry release line.
	Yarn2
	// Yarn3 is the yarn 3.x berry line.
	Yarn3
	// Yarn4 is the yarn 4.x berry line.
	Yarn4
)

// ModeForMajor maps a major version to its mode.
func ModeForMajor(major uint64) (YarnMode, error) {
	switch major {
	case 1:
		return Yarn1, nil
	case 2:
		return Yarn2, nil
	case 3:
		return Yarn3, nil
	case 4:
		return Yarn4, nil
	default:
		return 0, zerr.With(zerr.Wrap(ErrYarnUnsupported, "select yarn mode"), "major", major)
	}
}

// String returns the mode name as shown in build output.
func (m YarnMode) String() string {
	switch m {
	case Yarn1:
		return "1.x"
	case Yarn2:
		return "2.x"
	case Yarn3:
		return "3.x"
	case Yarn4:
		return "4.x"
	default:
		return "unknown"
	}
}

// classic reports whether the mode uses yarn 1 command syntax.
func (m YarnMode) classic() bool {
	return m == Yarn1
}

// DisableGlobalCacheArgs returns the argv tail that turns off yarn's
// machine-global cache so dependencies land in the project cache folder.
// Yarn 1 has no global cache, so no command is needed.
func (m YarnMode) DisableGlobalCacheArgs() []string {
	if m.classic() {
		return nil
	}
	return []string{"config", "set", "--home", "enableGlobalCache", "false"}
}

// CacheFolderArgs returns the argv tail that prints the active cache folder.
func (m YarnMode) CacheFolderArgs() []string {
	if m.classic() {
		return []string{"cache", "dir"}
	}
	return []string{"config", "get", "cacheFolder"}
}

// SetCacheFolderArgs returns the argv tail that points the cache at dir.
func (m YarnMode) SetCacheFolderArgs(dir string) []string {
	if m.classic() {
		return []string{"config", "set", "cache-folder", dir}
	}
	return []string{"config", "set", "cacheFolder", dir}
}

// InstallArgs returns the argv tail for dependency installation. A
// zero-install project supplies its own vendored cache, so the berry line
// can skip cache population and only validate the lockfile.
func (m YarnMode) InstallArgs(zeroInstall bool) []string {
	if m.classic() {
		return []string{"install", "--frozen-lockfile"}
	}
	if zeroInstall {
		return []string{"install", "--immutable", "--immutable-cache"}
	}
	return []string{"install", "--immutable"}
}

// RunArgs returns the argv tail that runs a package.json script. The syntax
// is shared by every supported major.
func (m YarnMode) RunArgs(script string) []string {
	return []string{"run", script}
}
