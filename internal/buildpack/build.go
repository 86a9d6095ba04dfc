package buildpack

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/cnbuild/yarnpack/internal/adapters/npm"
	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/yarn"
)

const (
	distLayerName = "yarn-dist"
	depsLayerName = "yarn-deps"
)

// Build runs the full phase sequence. Phases are strictly sequential and
// every failure short-circuits the remainder; no launch metadata is emitted
// on failure.
func (b *Buildpack) Build(ctx context.Context, bctx BuildContext) (BuildResult, error) {
	pkg, err := npm.LoadPackageJson(bctx.AppDir)
	if err != nil {
		return BuildResult{}, domain.NewBuildError(domain.CategoryManifest, err)
	}

	scriptsEnabled, err := npm.ScriptsEnabled(bctx.PlanPath)
	if err != nil {
		return BuildResult{}, domain.NewBuildError(domain.CategoryBuildPlan, err)
	}

	env := bctx.BaseEnv
	version, err := yarn.Version(ctx, b.exec, env)
	switch {
	case errors.Is(err, yarn.ErrNotInstalled):
		// Expected signal, not a failure: install yarn ourselves.
		env, version, err = b.installYarn(ctx, bctx, pkg, env)
		if err != nil {
			return BuildResult{}, err
		}
	case err != nil:
		return BuildResult{}, domain.NewBuildError(domain.CategoryVersion, err)
	default:
		// Presence wins over resolution: a reachable yarn is used as-is
		// even if it falls outside the declared engine range.
	}

	mode, err := domain.ModeForMajor(version.Major())
	if err != nil {
		return BuildResult{}, domain.NewBuildError(domain.CategoryVersion, err)
	}
	b.logger.Info(fmt.Sprintf("Yarn CLI operating in yarn %s mode", version))

	decision, err := b.setupCache(ctx, bctx, mode, env)
	if err != nil {
		return BuildResult{}, err
	}

	if err := b.installDependencies(ctx, mode, decision, env); err != nil {
		return BuildResult{}, err
	}

	if err := b.runScripts(ctx, pkg, mode, scriptsEnabled, env); err != nil {
		return BuildResult{}, err
	}

	processes, err := b.emitLaunch(bctx, pkg)
	if err != nil {
		return BuildResult{}, err
	}

	return BuildResult{
		YarnVersion:   version.String(),
		CacheDecision: decision,
		Processes:     processes,
	}, nil
}

// installYarn resolves the declared (or default) requirement against the
// inventory, materializes the release into the distribution layer and
// merges its environment mutations into env.
func (b *Buildpack) installYarn(
	ctx context.Context,
	bctx BuildContext,
	pkg *domain.PackageJson,
	env []string,
) ([]string, *semver.Version, error) {
	b.logger.Header("Detecting yarn CLI version to install")

	req, err := pkg.YarnRequirement()
	if err != nil {
		return nil, nil, domain.NewBuildError(domain.CategoryVersion, err)
	}
	if req == nil {
		b.logger.Info(fmt.Sprintf("No yarn engine range detected in package.json, using default (%s)", DefaultYarnRequirement))
		req = defaultRequirement
	} else {
		b.logger.Info(fmt.Sprintf("Detected yarn engine version range %s in package.json", req))
	}

	release, err := b.inventory.Resolve(req)
	if err != nil {
		return nil, nil, domain.NewBuildError(domain.CategoryVersion, err)
	}
	b.logger.Info("Resolved yarn CLI version: " + release.Version.String())

	b.logger.Header("Installing yarn CLI")
	_, vtx := b.telemetry.Record(ctx, "install yarn "+release.Version.String())
	toolEnv, reused, err := b.installer.InstallYarn(ctx, release, filepath.Join(bctx.LayersDir, distLayerName))
	if reused {
		vtx.Cached()
	}
	vtx.Done(err)
	if err != nil {
		return nil, nil, domain.NewBuildError(domain.CategoryDistLayer, err)
	}

	env = toolEnv.Apply(domain.ScopeBuild, env)
	version, err := yarn.Version(ctx, b.exec, env)
	if err != nil {
		return nil, nil, domain.NewBuildError(domain.CategoryVersion, err)
	}
	return env, version, nil
}

// setupCache disables yarn's global cache, detects zero-install projects
// and reconciles the dependency cache layer.
func (b *Buildpack) setupCache(
	ctx context.Context,
	bctx BuildContext,
	mode domain.YarnMode,
	env []string,
) (domain.CacheDecision, error) {
	b.logger.Header("Setting up yarn dependency cache")

	if err := yarn.DisableGlobalCache(ctx, b.exec, mode, env); err != nil {
		return "", domain.NewBuildError(domain.CategoryCache, err)
	}

	cacheDir, err := yarn.CacheFolder(ctx, b.exec, mode, env)
	if err != nil {
		return "", domain.NewBuildError(domain.CategoryCache, err)
	}
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(bctx.AppDir, cacheDir)
	}
	zeroInstall := yarn.CachePopulated(cacheDir)

	lockfile, err := npm.ReadYarnLock(bctx.AppDir)
	if err != nil {
		return "", domain.NewBuildError(domain.CategoryDepsLayer, err)
	}

	depsLayer := filepath.Join(bctx.LayersDir, depsLayerName)
	decision, err := b.cache.Reconcile(ctx, depsLayer, lockfile, zeroInstall)
	if err != nil {
		return "", domain.NewBuildError(domain.CategoryDepsLayer, err)
	}

	switch decision {
	case domain.CacheBypassed:
		b.logger.Info("Yarn zero-install detected. Skipping dependency cache.")
	case domain.CacheReused:
		b.logger.Info("Reusing dependency cache")
	case domain.CacheInvalidated:
		b.logger.Info("Populating dependency cache")
	}

	if decision != domain.CacheBypassed {
		if override, ok := npm.CacheFolderOverride(bctx.AppDir); ok {
			b.logger.Warn("Overriding cacheFolder from .yarnrc.yml (" + override + ")")
		}
		if err := yarn.SetCacheFolder(ctx, b.exec, mode, depsLayer, env); err != nil {
			return "", domain.NewBuildError(domain.CategoryCache, err)
		}
	}
	return decision, nil
}

func (b *Buildpack) installDependencies(
	ctx context.Context,
	mode domain.YarnMode,
	decision domain.CacheDecision,
	env []string,
) error {
	b.logger.Header("Installing dependencies")
	_, vtx := b.telemetry.Record(ctx, "yarn install")
	err := yarn.Install(ctx, b.exec, mode, decision == domain.CacheBypassed, env, vtx)
	vtx.Done(err)
	if err != nil {
		return domain.NewBuildError(domain.CategoryInstall, err)
	}
	return nil
}

// runScripts runs the manifest's build scripts in declaration order. A
// participating collaborator may suppress them globally; that is logged,
// not treated as an error.
func (b *Buildpack) runScripts(
	ctx context.Context,
	pkg *domain.PackageJson,
	mode domain.YarnMode,
	enabled bool,
	env []string,
) error {
	b.logger.Header("Running scripts")

	scripts := pkg.BuildScripts()
	if len(scripts) == 0 {
		b.logger.Info("No build scripts found")
		return nil
	}

	for _, script := range scripts {
		if !enabled {
			b.logger.Info(fmt.Sprintf("! Not running `%s` as it was disabled by a participating plugin", script))
			continue
		}
		b.logger.Info(fmt.Sprintf("Running `%s` script", script))
		_, vtx := b.telemetry.Record(ctx, "yarn run "+script)
		err := yarn.RunScript(ctx, b.exec, mode, script, env, vtx)
		vtx.Done(err)
		if err != nil {
			return domain.NewBuildError(domain.CategoryBuildScript, err)
		}
	}
	return nil
}

// emitLaunch produces the default web process when the project declares a
// start script and no process list of its own.
func (b *Buildpack) emitLaunch(bctx BuildContext, pkg *domain.PackageJson) ([]domain.LaunchProcess, error) {
	if npm.HasProcfile(bctx.AppDir) {
		b.logger.Info("Skipping default web process (Procfile detected)")
		return nil, nil
	}
	if !pkg.HasStartScript() {
		return nil, nil
	}

	processes := []domain.LaunchProcess{domain.DefaultWebProcess()}
	if bctx.LayersDir != "" {
		if err := writeLaunch(bctx.LayersDir, processes); err != nil {
			return nil, domain.NewBuildError(domain.CategoryInternal, err)
		}
	}
	return processes, nil
}
