package buildpack

import (
	"context"

	"github.com/cnbuild/yarnpack/internal/adapters/npm"
	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// Detect checks whether the application is a yarn-managed project. A
// yarn.lock in the app directory is the participation signal; on a pass the
// build plan declarations are written for the surrounding pipeline.
func (b *Buildpack) Detect(_ context.Context, dctx DetectContext) (DetectResult, error) {
	if !npm.HasYarnLock(dctx.AppDir) {
		return DetectResult{Pass: false}, nil
	}

	plan := domain.DefaultBuildPlan()
	if dctx.PlanPath != "" {
		if err := writeBuildPlan(dctx.PlanPath, plan); err != nil {
			return DetectResult{}, domain.NewBuildError(domain.CategoryBuildPlan, err)
		}
	}
	return DetectResult{Pass: true, Plan: plan}, nil
}
