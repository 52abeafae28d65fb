// Package tui is the interactive terminal frontend. All state transitions
// live in the session orchestrator; this package translates keystrokes into
// session events, runs the requested effects against the real backend, and
// renders snapshots.
package tui

import (
	"fmt"
	"path/filepath"

	"tackle-cli/internal/gcal"
	"tackle-cli/internal/selstate"
	"tackle-cli/internal/taskapi"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the workspace at dir and blocks until the user quits.
func Run(dir string) error {
	applyColorProfilePreference()
	applyThemePreference()

	cal := gcal.New(gcal.Opts{})
	store, err := taskapi.Open(dir, taskapi.StoreOpts{Calendar: cal})
	if err != nil {
		return fmt.Errorf("open workspace %s: %w", dir, err)
	}
	defer store.Close()

	databases, err := store.ListWorkspaces()
	if err != nil {
		databases = []string{filepath.Base(dir)}
	}

	persisted, err := selstate.Load(dir)
	if err != nil {
		persisted = &selstate.State{Version: 1}
	}

	m := newAppModel(store, cal, databases, persisted)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
