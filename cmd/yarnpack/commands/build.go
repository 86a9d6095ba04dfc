package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cnbuild/yarnpack/internal/adapters/telemetry/progrock"
	"github.com/cnbuild/yarnpack/internal/buildpack"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Install yarn if needed, install dependencies and run build scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appDir, _ := cmd.Flags().GetString("app-dir")
			layersDir, _ := cmd.Flags().GetString("layers")
			planPath, _ := cmd.Flags().GetString("plan")
			progress, _ := cmd.Flags().GetBool("progress")

			bp := c.bp
			if progress {
				rec := progrock.New()
				defer rec.Close() //nolint:errcheck // Best effort close in defer
				bp = bp.WithTelemetry(rec)
			}

			_, err := bp.Build(cmd.Context(), buildpack.BuildContext{
				AppDir:    appDir,
				LayersDir: layersDir,
				PlanPath:  planPath,
				BaseEnv:   os.Environ(),
			})
			return err
		},
	}
	cmd.Flags().String("layers", "layers", "Directory for the buildpack's layers")
	cmd.Flags().String("plan", "", "Path to the buildpack plan handed down by the pipeline")
	cmd.Flags().Bool("progress", false, "Render build progress interactively")
	return cmd
}
