package cli

import (
	"tackle-cli/internal/gitsync"

	"github.com/spf13/cobra"
)

type doctorReport struct {
	WorkspaceDir  string `json:"workspaceDir"`
	StoreOK       bool   `json:"storeOk"`
	StoreError    string `json:"storeError,omitempty"`
	GitRepo       bool   `json:"gitRepo"`
	GitBranch     string `json:"gitBranch,omitempty"`
	GitUpstream   string `json:"gitUpstream,omitempty"`
	GitDirty      bool   `json:"gitDirty,omitempty"`
	GitInProgress string `json:"gitInProgress,omitempty"`
	GcalAuth      bool   `json:"gcalAuthenticated"`
}

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check workspace health (store, git, calendar auth)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := doctorReport{WorkspaceDir: app.workspaceDir()}

			store, err := app.openStore()
			if err != nil {
				report.StoreError = err.Error()
			} else {
				defer store.Close()
				if err := store.Health(cmd.Context()); err != nil {
					report.StoreError = err.Error()
				} else {
					report.StoreOK = true
				}
				report.GcalAuth, _ = store.GcalStatus(cmd.Context())
			}

			if st, err := gitsync.GetStatus(cmd.Context(), report.WorkspaceDir); err == nil {
				report.GitRepo = st.IsRepo
				report.GitBranch = st.Branch
				report.GitUpstream = st.Upstream
				report.GitDirty = st.Dirty
				if st.InProgress {
					report.GitInProgress = st.InProgressKind
				}
			}

			return app.printJSON(cmd, report)
		},
	}
}
