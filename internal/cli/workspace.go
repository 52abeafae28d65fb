package cli

import (
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Manage workspaces (sibling databases under the data dir)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.ListWorkspaces()
			if err != nil {
				return err
			}
			return app.printJSON(cmd, names)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "new <name>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.CreateWorkspace(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.printJSON(cmd, res)
		},
	})

	return cmd
}
