package cli

import (
	"fmt"
	"strconv"
	"strings"

	"tackle-cli/internal/taskapi"

	"github.com/spf13/cobra"
)

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func newAddCmd(app *App) *cobra.Command {
	var parentID int64
	var projectID int64

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			fields := taskapi.CreateFields{Title: strings.Join(args, " ")}
			if cmd.Flags().Changed("parent") {
				fields.ParentID = &parentID
			}
			if cmd.Flags().Changed("project") {
				fields.ProjectID = &projectID
			}
			t, err := store.CreateTask(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return app.printJSON(cmd, t)
		},
	}
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent task id (creates a subtask)")
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id to file the task under")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (subtasks grouped under their parent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			tasks, err := store.ListTasks(cmd.Context(), search)
			if err != nil {
				return err
			}
			return app.printJSON(cmd, tasks)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Filter by title or tag substring")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with comments and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			t, err := store.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.printJSON(cmd, t)
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task done (recurring tasks spawn their next occurrence)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.ToggleStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.printJSON(cmd, res)
		},
	}
}
