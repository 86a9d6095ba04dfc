// Package wiring registers all Graft nodes for the buildpack.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/cnbuild/yarnpack/internal/adapters/fetch"
	_ "github.com/cnbuild/yarnpack/internal/adapters/inventory"
	_ "github.com/cnbuild/yarnpack/internal/adapters/layers"
	_ "github.com/cnbuild/yarnpack/internal/adapters/logger"
	_ "github.com/cnbuild/yarnpack/internal/adapters/shell"
	_ "github.com/cnbuild/yarnpack/internal/adapters/telemetry"
	// Register the buildpack node.
	_ "github.com/cnbuild/yarnpack/internal/buildpack"
)
