package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"tackle-cli/internal/gitsync"
	"tackle-cli/internal/session"
	"tackle-cli/internal/taskapi"

	tea "github.com/charmbracelet/bubbletea"
)

// effectMsg delivers a completed effect back into the Bubble Tea loop.
type effectMsg struct {
	ev session.EvEffectDone
}

// effectRunner executes the orchestrator's effect requests against the real
// backend. Requests may run concurrently (one per region), so the store
// handle is guarded; switching databases swaps it in place.
type effectRunner struct {
	mu  sync.Mutex
	api *taskapi.Store

	// parentDir is the directory holding the sibling workspace dirs.
	parentDir string
	cal       taskapi.Calendar
	now       func() time.Time
}

func newEffectRunner(store *taskapi.Store, cal taskapi.Calendar) *effectRunner {
	return &effectRunner{
		api:       store,
		parentDir: filepath.Dir(store.Dir()),
		cal:       cal,
		now:       time.Now,
	}
}

func (r *effectRunner) store() *taskapi.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.api
}

func (r *effectRunner) workspaceDir() string {
	return r.store().Dir()
}

// cmd wraps one effect request as a Bubble Tea command. Exactly one
// effectMsg is produced per request.
func (r *effectRunner) cmd(req session.EffectRequest) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ev := r.execute(context.Background(), req)
		if dur := time.Since(start); dur > 250*time.Millisecond {
			debugLogf("slow effect %T dur=%s err=%q", req, dur, ev.Err)
		}
		return effectMsg{ev: ev}
	}
}

func (r *effectRunner) execute(ctx context.Context, req session.EffectRequest) session.EvEffectDone {
	result, err := r.dispatch(ctx, req)
	done := session.EvEffectDone{Gen: req.Generation()}
	if err != nil {
		done.Err = err.Error()
		if done.Err == "" {
			done.Err = req.FallbackError()
		}
		return done
	}
	done.Result = result
	return done
}

func (r *effectRunner) dispatch(ctx context.Context, req session.EffectRequest) (session.EffectResult, error) {
	api := r.store()

	switch req := req.(type) {
	case session.LoadTasksRequest:
		tasks, err := api.ListTasks(ctx, req.Filter)
		if err != nil {
			return nil, err
		}
		return session.TasksLoaded{Tasks: tasks}, nil

	case session.LoadTaskDetailRequest:
		t, err := api.GetTask(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		return session.TaskDetailLoaded{Task: *t}, nil

	case session.CreateTaskRequest:
		t, err := api.CreateTask(ctx, taskapi.CreateFields{Title: req.Title, ParentID: req.ParentID})
		if err != nil {
			return nil, err
		}
		return session.TaskCreated{Task: *t}, nil

	case session.UpdateTaskRequest:
		t, err := api.UpdateTask(ctx, req.TaskID, req.Patch)
		if err != nil {
			return nil, err
		}
		return session.TaskUpdated{Task: *t}, nil

	case session.SetDueRequest:
		due, err := taskapi.ParseDueText(req.Text, r.now())
		if err != nil {
			return nil, err
		}
		patch := taskapi.Patch{Due: due, ClearDue: due == nil}
		t, err := api.UpdateTask(ctx, req.TaskID, patch)
		if err != nil {
			return nil, err
		}
		return session.TaskUpdated{Task: *t}, nil

	case session.DeleteTaskRequest:
		deleted, err := api.DeleteTask(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		return session.TaskDeleted{TaskID: req.TaskID, Deleted: deleted}, nil

	case session.ToggleStatusRequest:
		res, err := api.ToggleStatus(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		return session.StatusToggled{Task: res.Task, RecurringNextTaskID: res.RecurringNextTaskID}, nil

	case session.ToggleProgressRequest:
		t, err := api.ToggleProgress(ctx, req.TaskID)
		if err != nil {
			return nil, err
		}
		return session.ProgressToggled{Task: *t}, nil

	case session.ReorderTaskRequest:
		res, err := api.ReorderTask(ctx, req.TaskID, req.Dir)
		if err != nil {
			return nil, err
		}
		return session.TaskReordered{Swapped: res.Swapped, TaskID: res.TaskID, SwappedWith: res.SwappedWith}, nil

	case session.AddCommentRequest:
		t, err := api.AddComment(ctx, req.TaskID, req.Body)
		if err != nil {
			return nil, err
		}
		return session.CommentAdded{Task: *t}, nil

	case session.AddAttachmentRequest:
		t, err := api.AddAttachment(ctx, req.TaskID, req.Path)
		if err != nil {
			return nil, err
		}
		return session.AttachmentAdded{Task: *t}, nil

	case session.SetTagsRequest:
		t, err := api.SetTags(ctx, req.TaskID, req.Tags)
		if err != nil {
			return nil, err
		}
		return session.TagsSet{Task: *t}, nil

	case session.LoadProjectsRequest:
		projects, err := api.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		return session.ProjectsLoaded{Projects: projects}, nil

	case session.CreateProjectAndAssignRequest:
		p, err := api.CreateProject(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		t, err := api.UpdateTask(ctx, req.TaskID, taskapi.Patch{ProjectID: &p.ID})
		if err != nil {
			return nil, err
		}
		return session.ProjectCreatedAndAssigned{Project: *p, Task: *t}, nil

	case session.CreateWorkspaceRequest:
		res, err := api.CreateWorkspace(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		return session.WorkspaceCreated{Result: *res}, nil

	case session.SyncPullRequest:
		res, err := gitsync.Pull(ctx, api.Dir())
		if err != nil {
			return nil, err
		}
		return session.SyncDone{Op: res.Op, Success: res.Success, Error: res.Error}, nil

	case session.SyncPushRequest:
		res, err := gitsync.PushAll(ctx, api.Dir())
		if err != nil {
			return nil, err
		}
		return session.SyncDone{Op: res.Op, Success: res.Success, Error: res.Error}, nil

	case session.SyncToCalendarRequest:
		res, err := api.SyncToCalendar(ctx, req.TaskID, req.DurationHours)
		if err != nil {
			return nil, err
		}
		return session.CalendarSynced{Result: *res}, nil

	case session.SwitchDatabaseRequest:
		if err := r.switchTo(req.Name); err != nil {
			return nil, err
		}
		return session.DatabaseSwitched{Name: req.Name}, nil
	}

	return nil, fmt.Errorf("unhandled effect request %T", req)
}

// switchTo opens the named sibling workspace and swaps the store handle.
// The old handle is closed only after the swap so concurrent readers finish
// against a valid connection.
func (r *effectRunner) switchTo(name string) error {
	next, err := taskapi.Open(filepath.Join(r.parentDir, name), taskapi.StoreOpts{Calendar: r.cal})
	if err != nil {
		return err
	}
	r.mu.Lock()
	prev := r.api
	r.api = next
	r.mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}
	return nil
}
