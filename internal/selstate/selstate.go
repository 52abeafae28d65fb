package selstate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const stateFileName = "ui_state.json"

// State stores small, user-facing UI state for restoring the session on
// relaunch.
//
// The file lives inside the workspace directory so state is naturally scoped
// per workspace. It is intentionally "best effort": callers should tolerate
// missing/invalid data.
type State struct {
	Version int `json:"version"`

	// LastSelectedTaskID is the task highlighted when the session last saved.
	LastSelectedTaskID *int64 `json:"lastSelectedTaskId,omitempty"`

	// Database is the workspace that was active, for multi-workspace setups.
	Database string `json:"database,omitempty"`
}

func statePath(dir string) string {
	return filepath.Join(dir, stateFileName)
}

// Load reads the persisted state. Missing or corrupted files yield an empty
// state, not an error.
func Load(dir string) (*State, error) {
	if strings.TrimSpace(dir) == "" {
		return &State{Version: 1}, nil
	}
	b, err := os.ReadFile(statePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{Version: 1}, nil
		}
		return nil, err
	}
	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &State{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// Save writes the state atomically (write tmp, rename over).
func Save(dir string, st *State) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := statePath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
