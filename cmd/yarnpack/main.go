// Package main is the entry point for the yarnpack buildpack.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/cnbuild/yarnpack/cmd/yarnpack/commands"
	"github.com/cnbuild/yarnpack/internal/buildpack"
	"github.com/cnbuild/yarnpack/internal/core/domain"
	_ "github.com/cnbuild/yarnpack/internal/wiring"
)

// detectFailCode is the pipeline convention for "does not apply here".
const detectFailCode = 100

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bp, _, err := graft.ExecuteFor[*buildpack.Buildpack](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(bp)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, buildpack.ErrDetectFailed) {
			return detectFailCode
		}
		var buildErr *domain.BuildError
		if errors.As(err, &buildErr) {
			// One categorized header, detail in the body.
			_, _ = fmt.Fprintf(os.Stderr, "[Error: %s]\n%+v\n", buildErr.Category, buildErr.Err)
			return 1
		}
		_, _ = fmt.Fprintf(os.Stderr, "[Error: %s]\n%+v\n", domain.CategoryInternal, err)
		return 1
	}
	return 0
}
