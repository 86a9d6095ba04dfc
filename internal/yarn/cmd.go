// Package yarn layers yarn-specific command construction and output parsing
// on top of the executor port.
package yarn

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"

	"github.com/cnbuild/yarnpack/internal/core/domain"
	"github.com/cnbuild/yarnpack/internal/core/ports"
)

// ErrNotInstalled signals that the yarn binary could not be spawned. It is
// an expected condition, not a failure: the orchestrator reacts by
// installing yarn.
var ErrNotInstalled = zerr.New("yarn binary not found")

// Version queries the reachable yarn installation for its version.
func Version(ctx context.Context, x ports.Executor, env []string) (*semver.Version, error) {
	outcome := x.Run(ctx, "yarn", []string{"--version"}, env)
	if err := classify(outcome, "yarn --version"); err != nil {
		return nil, err
	}

	raw := strings.TrimSpace(outcome.Stdout)
	version, err := semver.NewVersion(raw)
	if err != nil {
		parseErr := zerr.Wrap(domain.ErrUnparsableOutput, err.Error())
		return nil, zerr.With(parseErr, "output", raw)
	}
	return version, nil
}

// DisableGlobalCache turns off yarn's machine-global cache so dependencies
// are written to the project cache folder this build manages.
func DisableGlobalCache(ctx context.Context, x ports.Executor, mode domain.YarnMode, env []string) error {
	args := mode.DisableGlobalCacheArgs()
	if args == nil {
		return nil
	}
	return classify(x.Run(ctx, "yarn", args, env), "yarn "+strings.Join(args, " "))
}

// CacheFolder reports the cache folder the reachable yarn resolves to.
func CacheFolder(ctx context.Context, x ports.Executor, mode domain.YarnMode, env []string) (string, error) {
	args := mode.CacheFolderArgs()
	outcome := x.Run(ctx, "yarn", args, env)
	if err := classify(outcome, "yarn "+strings.Join(args, " ")); err != nil {
		return "", err
	}

	folder := strings.TrimSpace(outcome.Stdout)
	if folder == "" || folder == "undefined" {
		return "", zerr.With(zerr.Wrap(domain.ErrUnparsableOutput, "empty cache folder"), "command", "yarn "+strings.Join(args, " "))
	}
	return folder, nil
}

// SetCacheFolder points yarn's cache at the managed layer directory.
func SetCacheFolder(ctx context.Context, x ports.Executor, mode domain.YarnMode, dir string, env []string) error {
	args := mode.SetCacheFolderArgs(dir)
	return classify(x.Run(ctx, "yarn", args, env), "yarn "+strings.Join(args, " "))
}

// Install runs dependency installation, streaming output to out.
func Install(ctx context.Context, x ports.Executor, mode domain.YarnMode, zeroInstall bool, env []string, out ports.Vertex) error {
	args := mode.InstallArgs(zeroInstall)
	outcome := x.Run(ctx, "yarn", args, env)
	_, _ = out.Write([]byte(outcome.Stdout))
	return classify(outcome, "yarn "+strings.Join(args, " "))
}

// RunScript runs a package.json script, streaming output to out.
func RunScript(ctx context.Context, x ports.Executor, mode domain.YarnMode, script string, env []string, out ports.Vertex) error {
	args := mode.RunArgs(script)
	outcome := x.Run(ctx, "yarn", args, env)
	_, _ = out.Write([]byte(outcome.Stdout))
	return classify(outcome, "yarn "+strings.Join(args, " "))
}

// classify maps an outcome to the three-way error model: nil on success,
// ErrNotInstalled on spawn failure, and a propagated failure with the
// command's stderr attached on a non-zero exit.
func classify(outcome domain.Outcome, command string) error {
	switch outcome.Status {
	case domain.OutcomeSuccess:
		return nil
	case domain.OutcomeSpawnFailed:
		if outcome.SpawnErr != nil {
			// Wrap keeps the sentinel in the chain so callers can branch on
			// errors.Is; With alone would detach it.
			return zerr.With(zerr.Wrap(ErrNotInstalled, "spawn failed"), "cause", outcome.SpawnErr.Error())
		}
		return ErrNotInstalled
	default:
		err := zerr.With(zerr.New("command failed"), "command", command)
		err = zerr.With(err, "exit_code", outcome.ExitCode)
		return zerr.With(err, "stderr", strings.TrimSpace(outcome.Stderr))
	}
}
