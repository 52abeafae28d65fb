package gitsync

import (
	"context"
	"strings"
)

// Result reports a pull/push outcome as data. Expected conditions (no repo,
// no remote, conflicts) are failures in the result, not Go errors; an error
// return means git itself could not be run.
type Result struct {
	Op      string `json:"op"` // pull|push
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func failure(op, msg string) *Result { return &Result{Op: op, Success: false, Error: msg} }

// Pull commits local changes, then rebases onto the upstream.
func Pull(ctx context.Context, dir string) (*Result, error) {
	st, err := GetStatus(ctx, dir)
	if err != nil {
		return nil, err
	}
	switch {
	case !st.IsRepo:
		return failure("pull", "workspace is not a git repository"), nil
	case !st.HasRemote():
		return failure("pull", "no remote configured"), nil
	case st.Unmerged || st.InProgress:
		return failure("pull", "resolve the in-progress merge/rebase first"), nil
	}

	// Commit pending changes so the rebase starts from a clean tree.
	if _, err := CommitWorkspace(ctx, dir, ""); err != nil {
		return failure("pull", err.Error()), nil
	}
	if err := PullRebase(ctx, dir); err != nil {
		return failure("pull", err.Error()), nil
	}
	return &Result{Op: "pull", Success: true}, nil
}

// PushAll commits local changes and pushes. A non-fast-forward rejection gets
// one pull --rebase retry.
func PushAll(ctx context.Context, dir string) (*Result, error) {
	st, err := GetStatus(ctx, dir)
	if err != nil {
		return nil, err
	}
	switch {
	case !st.IsRepo:
		return failure("push", "workspace is not a git repository"), nil
	case !st.HasRemote():
		return failure("push", "no remote configured"), nil
	case st.Unmerged || st.InProgress:
		return failure("push", "resolve the in-progress merge/rebase first"), nil
	}

	if _, err := CommitWorkspace(ctx, dir, ""); err != nil {
		return failure("push", err.Error()), nil
	}
	if err := Push(ctx, dir); err != nil {
		if !IsNonFastForwardPushErr(err) {
			return failure("push", err.Error()), nil
		}
		if err := PullRebase(ctx, dir); err != nil {
			return failure("push", err.Error()), nil
		}
		if err := Push(ctx, dir); err != nil {
			return failure("push", err.Error()), nil
		}
	}
	return &Result{Op: "push", Success: true}, nil
}

func PullRebase(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "pull", "--rebase")
	return err
}

func Push(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "push")
	return err
}

func IsNonFastForwardPushErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"non-fast-forward",
		"fetch first",
		"rejected",
		"updates were rejected",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
