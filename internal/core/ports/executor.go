// Package ports defines the core interfaces for the buildpack.
package ports

import (
	"context"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// Executor invokes external tool binaries and classifies how they ended.
//
// Implementations never return an error for a failed command; the Outcome
// carries the classification so callers can distinguish "binary missing"
// (an expected signal) from "command failed" (a propagated failure).
type Executor interface {
	// Run executes name with args under the given "KEY=VALUE" environment.
	Run(ctx context.Context, name string, args []string, env []string) domain.Outcome
}
