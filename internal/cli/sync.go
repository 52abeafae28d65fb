package cli

import (
	"tackle-cli/internal/gitsync"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Git sync for the active workspace",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Commit local changes, then pull --rebase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := gitsync.Pull(cmd.Context(), app.workspaceDir())
			if err != nil {
				return err
			}
			return app.printJSON(cmd, res)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Commit local changes, then push (rebasing once on non-fast-forward)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := gitsync.PushAll(cmd.Context(), app.workspaceDir())
			if err != nil {
				return err
			}
			return app.printJSON(cmd, res)
		},
	})

	return cmd
}
