package buildpack_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnbuild/yarnpack/internal/adapters/layers"
	"github.com/cnbuild/yarnpack/internal/adapters/telemetry"
	"github.com/cnbuild/yarnpack/internal/buildpack"
	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// scriptedExecutor plays the role of the shell: yarn is invisible until an
// install flips installed, then every yarn command succeeds with canned
// output.
type scriptedExecutor struct {
	installed  bool
	versionOut string
	cacheDir   string
	calls      []string
	failOn     map[string]domain.Outcome
}

func (e *scriptedExecutor) Run(_ context.Context, name string, args []string, _ []string) domain.Outcome {
	key := strings.Join(append([]string{name}, args...), " ")
	e.calls = append(e.calls, key)

	if outcome, ok := e.failOn[key]; ok {
		return outcome
	}
	if !e.installed {
		return domain.Outcome{Status: domain.OutcomeSpawnFailed, SpawnErr: errors.New("exec: \"yarn\": executable file not found")}
	}
	switch key {
	case "yarn --version":
		return domain.Outcome{Status: domain.OutcomeSuccess, Stdout: e.versionOut + "\n"}
	case "yarn cache dir", "yarn config get cacheFolder":
		return domain.Outcome{Status: domain.OutcomeSuccess, Stdout: e.cacheDir + "\n"}
	}
	return domain.Outcome{Status: domain.OutcomeSuccess}
}

func (e *scriptedExecutor) ran(key string) bool {
	return slices.Contains(e.calls, key)
}

// fakeInstaller records installs and makes yarn visible to the executor.
type fakeInstaller struct {
	exec     *scriptedExecutor
	reused   bool
	installs []string
}

func (f *fakeInstaller) InstallYarn(_ context.Context, release *domain.Release, layerDir string) (domain.Environment, bool, error) {
	f.installs = append(f.installs, release.Version.String())
	f.exec.installed = true
	return domain.Environment{}.Prepend("PATH", filepath.Join(layerDir, "bin"), domain.ScopeAll), f.reused, nil
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Header(msg string) { l.lines = append(l.lines, msg) }
func (l *recordingLogger) Info(msg string)   { l.lines = append(l.lines, msg) }
func (l *recordingLogger) Warn(msg string)   { l.lines = append(l.lines, msg) }

// recordingTelemetry captures every vertex so tests can observe cache marks.
type recordingTelemetry struct {
	vertexes []*recordedVertex
}

type recordedVertex struct {
	name   string
	cached bool
	failed bool
}

func (t *recordingTelemetry) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := &recordedVertex{name: name}
	t.vertexes = append(t.vertexes, v)
	return ctx, v
}

func (t *recordingTelemetry) Close() error { return nil }

func (v *recordedVertex) Write(p []byte) (int, error) { return len(p), nil }
func (v *recordedVertex) Done(err error)              { v.failed = err != nil }
func (v *recordedVertex) Cached()                     { v.cached = true }

func testInventory(t *testing.T, versions ...string) *domain.Inventory {
	t.Helper()
	releases := make([]*domain.Release, 0, len(versions))
	for _, v := range versions {
		version, err := semver.NewVersion(v)
		require.NoError(t, err)
		releases = append(releases, &domain.Release{
			Version: version,
			Artifacts: map[string]domain.Artifact{
				domain.PlatformAny: {URL: "https://example.test/yarn-" + v + ".tgz", SHA256: "aa"},
			},
		})
	}
	return domain.NewInventory(releases)
}

// emptyCacheDir returns a path that does not exist, standing in for the
// cache folder a fresh yarn reports before anything populated it.
func emptyCacheDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "yarn-cache")
}

func writeApp(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

type fixture struct {
	bp     *buildpack.Buildpack
	exec   *scriptedExecutor
	inst   *fakeInstaller
	logger *recordingLogger
}

func newFixture(t *testing.T, inv *domain.Inventory, exec *scriptedExecutor) fixture {
	t.Helper()
	logger := &recordingLogger{}
	inst := &fakeInstaller{exec: exec}
	bp := buildpack.New(inv, exec, inst, layers.NewCacheManager(logger), logger, telemetry.NewNoOp())
	return fixture{bp: bp, exec: exec, inst: inst, logger: logger}
}

func TestDetect(t *testing.T) {
	bp := newFixture(t, testInventory(t, "1.22.19"), &scriptedExecutor{}).bp

	t.Run("pass with yarn.lock", func(t *testing.T) {
		appDir := writeApp(t, map[string]string{"yarn.lock": "# v1"})
		planPath := filepath.Join(t.TempDir(), "plan.toml")

		result, err := bp.Detect(context.Background(), buildpack.DetectContext{AppDir: appDir, PlanPath: planPath})
		require.NoError(t, err)
		assert.True(t, result.Pass)
		assert.Contains(t, result.Plan.Provides, "yarn")
		assert.Contains(t, result.Plan.Requires, "node")

		data, err := os.ReadFile(planPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "node_build_scripts")
	})

	t.Run("fail without yarn.lock", func(t *testing.T) {
		result, err := bp.Detect(context.Background(), buildpack.DetectContext{AppDir: t.TempDir()})
		require.NoError(t, err)
		assert.False(t, result.Pass)
	})
}

func TestBuild_InstallsYarnWhenMissing(t *testing.T) {
	exec := &scriptedExecutor{versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19", "4.9.1"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock": "# v1",
		"package.json": `{
			"name": "app",
			"scripts": {"build": "tsc", "start": "node server.js"}
		}`,
	})
	layersDir := t.TempDir()

	result, err := f.bp.Build(context.Background(), buildpack.BuildContext{
		AppDir:    appDir,
		LayersDir: layersDir,
	})
	require.NoError(t, err)

	// No engine range declared, so the default 1.22.x range applies,
	// excluding the newer 4.x release.
	assert.Equal(t, []string{"1.22.19"}, f.inst.installs)
	assert.Equal(t, "1.22.19", result.YarnVersion)
	assert.Equal(t, domain.CacheInvalidated, result.CacheDecision)

	assert.True(t, f.exec.ran("yarn install --frozen-lockfile"))
	assert.True(t, f.exec.ran("yarn run build"))

	require.Len(t, result.Processes, 1)
	assert.Equal(t, "web", result.Processes[0].Type)
	assert.Equal(t, []string{"yarn", "start"}, result.Processes[0].Command)

	data, err := os.ReadFile(filepath.Join(layersDir, "launch.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "web")
}

func TestBuild_ReusedToolLayerMarksVertexCached(t *testing.T) {
	exec := &scriptedExecutor{versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
	logger := &recordingLogger{}
	inst := &fakeInstaller{exec: exec, reused: true}
	tel := &recordingTelemetry{}
	bp := buildpack.New(testInventory(t, "1.22.19"), exec, inst, layers.NewCacheManager(logger), logger, tel)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# v1",
		"package.json": `{"scripts": {}}`,
	})

	_, err := bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: t.TempDir()})
	require.NoError(t, err)

	var installVertex *recordedVertex
	for _, v := range tel.vertexes {
		if strings.HasPrefix(v.name, "install yarn") {
			installVertex = v
		}
	}
	require.NotNil(t, installVertex)
	assert.True(t, installVertex.cached, "reused tool layer must mark its vertex cached")
	assert.False(t, installVertex.failed)
}

func TestBuild_EngineRangeSelectsRelease(t *testing.T) {
	exec := &scriptedExecutor{versionOut: "4.9.1", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19", "4.5.3", "4.9.1"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# berry",
		"package.json": `{"engines": {"yarn": "~4.5.0"}, "scripts": {}}`,
	})

	result, err := f.bp.Build(context.Background(), buildpack.BuildContext{
		AppDir:    appDir,
		LayersDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.5.3"}, f.inst.installs)
	// What the build reports is the version the installed binary answers
	// with, not the resolved one.
	assert.Equal(t, "4.9.1", result.YarnVersion)
}

func TestBuild_PresentYarnWinsOverEngines(t *testing.T) {
	exec := &scriptedExecutor{installed: true, versionOut: "4.9.1", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# berry",
		"package.json": `{"engines": {"yarn": "1.x"}, "scripts": {}}`,
	})

	result, err := f.bp.Build(context.Background(), buildpack.BuildContext{
		AppDir:    appDir,
		LayersDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Empty(t, f.inst.installs, "reachable yarn must not trigger an install")
	assert.Equal(t, "4.9.1", result.YarnVersion)
	assert.True(t, f.exec.ran("yarn install --immutable"))
}

func TestBuild_SecondBuildReusesCache(t *testing.T) {
	exec := &scriptedExecutor{installed: true, versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# v1 locked deps",
		"package.json": `{"scripts": {}}`,
	})
	layersDir := t.TempDir()
	bctx := buildpack.BuildContext{AppDir: appDir, LayersDir: layersDir}

	first, err := f.bp.Build(context.Background(), bctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheInvalidated, first.CacheDecision)

	second, err := f.bp.Build(context.Background(), bctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheReused, second.CacheDecision)

	// Lockfile drift invalidates again.
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "yarn.lock"), []byte("# v2"), 0o644))
	third, err := f.bp.Build(context.Background(), bctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CacheInvalidated, third.CacheDecision)
}

func TestBuild_ZeroInstallBypassesCache(t *testing.T) {
	cacheDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "left-pad-npm-1.3.0.zip"), []byte("x"), 0o644))

	exec := &scriptedExecutor{installed: true, versionOut: "4.9.1", cacheDir: cacheDir}
	f := newFixture(t, testInventory(t, "4.9.1"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# berry",
		"package.json": `{"scripts": {}}`,
	})

	result, err := f.bp.Build(context.Background(), buildpack.BuildContext{
		AppDir:    appDir,
		LayersDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CacheBypassed, result.CacheDecision)
	assert.True(t, f.exec.ran("yarn install --immutable --immutable-cache"))

	for _, call := range f.exec.calls {
		assert.NotContains(t, call, "config set cacheFolder", "bypassed cache must not be re-pointed")
	}
}

func TestBuild_ScriptOrderAndSuppression(t *testing.T) {
	manifest := `{
		"scripts": {
			"heroku-postbuild": "echo post",
			"heroku-prebuild": "echo pre",
			"build": "tsc"
		}
	}`

	t.Run("declaration order", func(t *testing.T) {
		exec := &scriptedExecutor{installed: true, versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
		f := newFixture(t, testInventory(t, "1.22.19"), exec)
		appDir := writeApp(t, map[string]string{"yarn.lock": "# v1", "package.json": manifest})

		_, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: t.TempDir()})
		require.NoError(t, err)

		var scriptRuns []string
		for _, call := range f.exec.calls {
			if strings.HasPrefix(call, "yarn run ") {
				scriptRuns = append(scriptRuns, strings.TrimPrefix(call, "yarn run "))
			}
		}
		assert.Equal(t, []string{"heroku-prebuild", "build", "heroku-postbuild"}, scriptRuns)
	})

	t.Run("suppressed by plan metadata", func(t *testing.T) {
		planPath := filepath.Join(t.TempDir(), "plan.toml")
		plan := "[[entries]]\nname = \"node_build_scripts\"\n  [entries.metadata]\n  enabled = false\n"
		require.NoError(t, os.WriteFile(planPath, []byte(plan), 0o644))

		exec := &scriptedExecutor{installed: true, versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
		f := newFixture(t, testInventory(t, "1.22.19"), exec)
		appDir := writeApp(t, map[string]string{"yarn.lock": "# v1", "package.json": manifest})

		_, err := f.bp.Build(context.Background(), buildpack.BuildContext{
			AppDir:    appDir,
			LayersDir: t.TempDir(),
			PlanPath:  planPath,
		})
		require.NoError(t, err)
		for _, call := range f.exec.calls {
			assert.NotContains(t, call, "yarn run")
		}
	})
}

func TestBuild_ScriptFailureAborts(t *testing.T) {
	exec := &scriptedExecutor{
		installed:  true,
		versionOut: "1.22.19",
		cacheDir:   "/tmp/.cache/yarn",
		failOn: map[string]domain.Outcome{
			"yarn run build": {Status: domain.OutcomeExit, ExitCode: 1, Stderr: "tsc: error TS2304"},
		},
	}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# v1",
		"package.json": `{"scripts": {"build": "tsc", "start": "node server.js"}}`,
	})
	layersDir := t.TempDir()

	_, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: layersDir})
	require.Error(t, err)

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.CategoryBuildScript, buildErr.Category)

	// No launch metadata on a failed build.
	_, statErr := os.Stat(filepath.Join(layersDir, "launch.toml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_ProcfileSkipsDefaultProcess(t *testing.T) {
	exec := &scriptedExecutor{installed: true, versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# v1",
		"package.json": `{"scripts": {"start": "node server.js"}}`,
		"Procfile":     "web: node server.js",
	})
	layersDir := t.TempDir()

	result, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: layersDir})
	require.NoError(t, err)
	assert.Empty(t, result.Processes)

	_, statErr := os.Stat(filepath.Join(layersDir, "launch.toml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_UnsupportedMajor(t *testing.T) {
	exec := &scriptedExecutor{installed: true, versionOut: "5.0.0", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{"yarn.lock": "# v1", "package.json": `{"scripts": {}}`})

	_, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: t.TempDir()})
	require.Error(t, err)

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.CategoryVersion, buildErr.Category)
	assert.ErrorIs(t, err, domain.ErrYarnUnsupported)
}

func TestBuild_NoMatchingRelease(t *testing.T) {
	exec := &scriptedExecutor{versionOut: "1.22.19", cacheDir: emptyCacheDir(t)}
	f := newFixture(t, testInventory(t, "1.22.19"), exec)
	appDir := writeApp(t, map[string]string{
		"yarn.lock":    "# v1",
		"package.json": `{"engines": {"yarn": "9.x"}, "scripts": {}}`,
	})

	_, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: t.TempDir()})
	require.Error(t, err)

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.CategoryVersion, buildErr.Category)
	assert.ErrorIs(t, err, domain.ErrNoMatchingRelease)
	assert.Empty(t, f.inst.installs)
}

func TestBuild_MissingManifest(t *testing.T) {
	f := newFixture(t, testInventory(t, "1.22.19"), &scriptedExecutor{})
	appDir := writeApp(t, map[string]string{"yarn.lock": "# v1"})

	_, err := f.bp.Build(context.Background(), buildpack.BuildContext{AppDir: appDir, LayersDir: t.TempDir()})
	require.Error(t, err)

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, domain.CategoryManifest, buildErr.Category)
}
