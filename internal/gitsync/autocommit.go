package gitsync

import (
	"context"
	"sync"
	"time"
)

// AutoCommitter debounces workspace mutations into background commits so the
// git history is not one commit per keystroke. Pushing stays manual.
type AutoCommitter struct {
	workspaceDir string
	debounce     time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool

	lastMessage string
}

func NewAutoCommitter(workspaceDir string, debounce time.Duration) *AutoCommitter {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &AutoCommitter{workspaceDir: workspaceDir, debounce: debounce}
}

// Notify marks the workspace dirty and (re)arms the timer. A nil committer
// is a no-op so callers can leave auto-commit unconfigured.
func (a *AutoCommitter) Notify(message string) {
	if a == nil {
		return
	}

	a.mu.Lock()
	a.pending = true
	a.lastMessage = message
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.onTimer)
		a.mu.Unlock()
		return
	}
	a.timer.Reset(a.debounce)
	a.mu.Unlock()
}

func (a *AutoCommitter) onTimer() {
	a.mu.Lock()
	if a.running {
		// Another run is in-flight; schedule again to pick up pending changes.
		if a.timer != nil {
			a.timer.Reset(a.debounce)
		}
		a.mu.Unlock()
		return
	}
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.running = true
	message := a.lastMessage
	a.mu.Unlock()

	// Best-effort: errors are intentionally dropped; the user can always run
	// `tackle sync push` / `git status` manually.
	_, _ = CommitWorkspace(context.Background(), a.workspaceDir, message)

	a.mu.Lock()
	a.running = false
	// If another Notify happened while running, schedule another run.
	if a.pending && a.timer != nil {
		a.timer.Reset(a.debounce)
	}
	a.mu.Unlock()
}
