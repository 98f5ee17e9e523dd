package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskboard/internal/app"
	"github.com/runoshun/taskboard/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the task data file",
		Long: `Create an empty task data file.

The file is written to the configured [store] path (default ./data.json)
or to the path given with --data. An existing file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				StorePath: c.Config.StorePath,
			})
			if err != nil {
				return err
			}

			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task store already exists at %s\n", out.StorePath)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized task store at %s\n", out.StorePath)
			return nil
		},
	}
}
