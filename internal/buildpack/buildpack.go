// Package buildpack implements the build orchestration core: the host-facing
// detect/build entry points and the linear phase sequence behind them.
package buildpack

import (
	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// DefaultYarnRequirement is substituted when package.json declares no yarn
// engine range.
const DefaultYarnRequirement = "1.22.x"

// defaultRequirement is compiled in; an unparsable value here is a
// programming error, so MustRequirement panics at init rather than failing
// a build.
var defaultRequirement = domain.MustRequirement(DefaultYarnRequirement)

// DetectContext is the host-supplied input to Detect.
type DetectContext struct {
	// AppDir is the application source directory.
	AppDir string
	// PlanPath is where the build plan is written on a pass. Empty skips
	// the write.
	PlanPath string
}

// DetectResult reports whether this plugin participates in the build.
type DetectResult struct {
	Pass bool
	Plan domain.BuildPlan
}

// BuildContext is the host-supplied input to Build.
type BuildContext struct {
	// AppDir is the application source directory.
	AppDir string
	// LayersDir is where this plugin's layer directories live.
	LayersDir string
	// PlanPath is the buildpack plan handed down by the pipeline, carrying
	// the build-script opt-out metadata. Empty means no plan metadata.
	PlanPath string
	// BaseEnv is the immutable base environment as "KEY=VALUE" entries.
	BaseEnv []string
}

// BuildResult is the successful outcome of a build.
type BuildResult struct {
	// YarnVersion is the version the build ran with.
	YarnVersion string
	// CacheDecision records how the dependency cache layer was handled.
	CacheDecision domain.CacheDecision
	// Processes is the emitted launch metadata; empty when the project
	// defines its own process list or declares no start script.
	Processes []domain.LaunchProcess
}

// Buildpack sequences the build phases. All orchestration logic lives here,
// behind the narrow Detect/Build pair, so the host coupling stays in the
// CLI adapter alone.
type Buildpack struct {
	inventory *domain.Inventory
	exec      ports.Executor
	installer ports.ToolInstaller
	cache     ports.CacheManager
	logger    ports.Logger
	telemetry ports.Telemetry
}

// New creates a Buildpack from its collaborators.
func New(
	inv *domain.Inventory,
	exec ports.Executor,
	installer ports.ToolInstaller,
	cache ports.CacheManager,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Buildpack {
	return &Buildpack{
		inventory: inv,
		exec:      exec,
		installer: installer,
		cache:     cache,
		logger:    logger,
		telemetry: telemetry,
	}
}
