// Package commands implements the CLI commands for the yarnpack buildpack.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cnbuild/yarnpack/internal/build"
	"github.com/cnbuild/yarnpack/internal/buildpack"
)

// CLI represents the command line interface for yarnpack.
type CLI struct {
	bp      *buildpack.Buildpack
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given buildpack.
func New(bp *buildpack.Buildpack) *CLI {
	rootCmd := &cobra.Command{
		Use:           "yarnpack",
		Short:         "A yarn buildpack for staged build pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.PersistentFlags().String("app-dir", ".", "Application source directory")

	c := &CLI{
		bp:      bp,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newDetectCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
