package gitsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CommitWorkspace stages and commits the workspace's canonical files: the
// task database and the attachments directory. Local-only files (the UI state
// file, WAL/SHM journals) are left alone. Returns committed=false when there
// is nothing to commit.
func CommitWorkspace(ctx context.Context, workspaceDir string, message string) (committed bool, err error) {
	workspaceDir = filepath.Clean(workspaceDir)

	st, err := GetStatus(ctx, workspaceDir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if st.Unmerged || st.InProgress {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}

	added, err := stageWorkspace(ctx, workspaceDir, st.Root)
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}

	// Commit only if there's something staged.
	out, err := git(ctx, workspaceDir, "diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = fmt.Sprintf("tackle: update (%s)", time.Now().UTC().Format(time.RFC3339))
	}

	if _, err := git(ctx, workspaceDir, "commit", "-m", msg); err != nil {
		return false, err
	}
	return true, nil
}

func stageWorkspace(ctx context.Context, workspaceDir string, repoRoot string) (bool, error) {
	workspaceDir = filepath.Clean(workspaceDir)
	repoRoot = filepath.Clean(repoRoot)

	// On macOS, temp dirs may involve symlinks like /var -> /private/var. Git
	// often reports a canonicalized repo root, so normalize both sides before
	// Rel() to avoid "path is outside repository" errors.
	if v, err := filepath.EvalSymlinks(workspaceDir); err == nil {
		workspaceDir = v
	}
	if v, err := filepath.EvalSymlinks(repoRoot); err == nil {
		repoRoot = v
	}

	rel, err := filepath.Rel(repoRoot, workspaceDir)
	if err != nil {
		return false, err
	}
	rel = filepath.Clean(rel)

	var targets []string
	addIfExists := func(subRel string) {
		subRel = filepath.Clean(subRel)
		abs := filepath.Join(workspaceDir, subRel)
		if _, err := os.Stat(abs); err == nil {
			if rel == "." {
				targets = append(targets, subRel)
			} else {
				targets = append(targets, filepath.Join(rel, subRel))
			}
		}
	}

	addIfExists("tasks.db")
	addIfExists("attachments")

	if len(targets) == 0 {
		return false, nil
	}

	args := []string{"-C", repoRoot, "add", "--"}
	args = append(args, targets...)
	if _, err := git(ctx, repoRoot, args...); err != nil {
		return false, err
	}
	return true, nil
}
