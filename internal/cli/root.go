// Package cli is the scriptable command surface. The bare `tackle` command
// starts the interactive TUI; subcommands cover the same backend for
// scripts and agents, printing JSON.
package cli

import (
	"os"
	"path/filepath"
	"strings"

	"tackle-cli/internal/gcal"
	"tackle-cli/internal/taskapi"
	"tackle-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Database   string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tackle",
		Short:        "Tackle task manager CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tackle

  # Scriptable commands
  tackle add "Buy milk"
  tackle list
  tackle done 3
  tackle sync push
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return tui.Run(app.workspaceDir())
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TACKLE_DIR", ""), "Path to the data dir holding workspaces (default: ~/.tackle)")
	cmd.PersistentFlags().StringVar(&app.Database, "database", envOr("TACKLE_DATABASE", "default"), "Workspace name inside the data dir")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI (same as running tackle with no arguments)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(app.workspaceDir())
		},
	})
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newSyncCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))

	return cmd
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// workspaceDir resolves the active workspace directory: <dir>/<database>.
func (app *App) workspaceDir() string {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".tackle")
		} else {
			dir = ".tackle"
		}
	}
	db := strings.TrimSpace(app.Database)
	if db == "" {
		db = "default"
	}
	return filepath.Join(dir, db)
}

func (app *App) openStore() (*taskapi.Store, error) {
	return taskapi.Open(app.workspaceDir(), taskapi.StoreOpts{
		Calendar: gcal.New(gcal.Opts{}),
	})
}
