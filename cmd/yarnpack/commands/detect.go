package commands

import (
	"github.com/spf13/cobra"

	"github.com/cnbuild/yarnpack/internal/buildpack"
)

func (c *CLI) newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Check whether the application is a yarn project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appDir, _ := cmd.Flags().GetString("app-dir")
			planPath, _ := cmd.Flags().GetString("plan")

			result, err := c.bp.Detect(cmd.Context(), buildpack.DetectContext{
				AppDir:   appDir,
				PlanPath: planPath,
			})
			if err != nil {
				return err
			}
			if !result.Pass {
				return buildpack.ErrDetectFailed
			}
			return nil
		},
	}
	cmd.Flags().String("plan", "", "Path to write the build plan to")
	return cmd
}
