// Package shell provides the shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cnbuild/yarnpack/internal/core/domain"
)

// Executor implements ports.Executor using os/exec.
type Executor struct{}

// NewExecutor creates a new shell Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Run executes the command and classifies the result. The binary is looked
// up against the PATH inside env, not the process PATH, so a freshly
// installed tool layer becomes visible through its environment mutations
// alone.
func (e *Executor) Run(ctx context.Context, name string, args []string, env []string) domain.Outcome {
	executable := name
	if !filepath.IsAbs(name) {
		lp, err := lookPath(name, env)
		if err != nil {
			return domain.Outcome{Status: domain.OutcomeSpawnFailed, SpawnErr: err}
		}
		executable = lp
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // tool invocation is the point
	// Preserve the original name as invoked in Args[0].
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return domain.Outcome{
				Status:   domain.OutcomeExit,
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}
		}
		// Started but failed for another reason (or never started).
		return domain.Outcome{Status: domain.OutcomeSpawnFailed, SpawnErr: err}
	}

	return domain.Outcome{
		Status: domain.OutcomeSuccess,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
