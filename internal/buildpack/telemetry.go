package buildpack

import "github.com/cnbuild/yarnpack/internal/core/ports"

// WithTelemetry returns a copy of the buildpack recording to t. Used by the
// CLI to switch on progress rendering without rebuilding the wiring.
func (b *Buildpack) WithTelemetry(t ports.Telemetry) *Buildpack {
	clone := *b
	clone.telemetry = t
	return &clone
}
