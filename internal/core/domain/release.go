package domain

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Artifact describes a downloadable yarn distribution for one platform.
type Artifact struct {
	URL    string
	SHA256 string
}

// Release is a known-good, checksummed yarn version from the inventory.
type Release struct {
	Version *semver.Version
	// Artifacts maps platform keys ("linux/amd64") to artifact descriptors.
	Artifacts map[string]Artifact
}

// PlatformAny is the artifact key for platform-independent distributions.
// Yarn ships JavaScript tarballs, so most releases carry a single entry
// under this key.
const PlatformAny = "*/*"

// ArtifactFor returns the artifact descriptor for the given platform key,
// falling back to a platform-independent entry.
func (r *Release) ArtifactFor(platform string) (Artifact, error) {
	if a, ok := r.Artifacts[platform]; ok {
		return a, nil
	}
	if a, ok := r.Artifacts[PlatformAny]; ok {
		return a, nil
	}
	err := zerr.With(zerr.Wrap(ErrArtifactUnavailable, "no artifact for platform"), "version", r.Version.String())
	return Artifact{}, zerr.With(err, "platform", platform)
}

// Inventory is the full set of installable yarn releases. It is loaded once
// at startup and never mutated afterwards.
type Inventory struct {
	releases []*Release
}

// NewInventory constructs an inventory from a list of releases. The input
// slice is copied and sorted by descending version so resolution can scan
// from the front.
func NewInventory(releases []*Release) *Inventory {
	sorted := make([]*Release, len(releases))
	copy(sorted, releases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Version.GreaterThan(sorted[j].Version)
	})
	return &Inventory{releases: sorted}
}

// Resolve selects the highest release satisfying the requirement.
// Resolution is a pure function of its inputs: identical requirement and
// inventory always yield the identical release.
func (inv *Inventory) Resolve(req *Requirement) (*Release, error) {
	for _, rel := range inv.releases {
		if req.Satisfies(rel.Version) {
			return rel, nil
		}
	}
	return nil, zerr.With(zerr.Wrap(ErrNoMatchingRelease, "resolve yarn release"), "requirement", req.String())
}
