package session

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

// fakeBackend resolves effect requests synchronously against in-memory
// state, standing in for the real effect runner.
type fakeBackend struct {
	tasks    map[int64]*model.TaskDetail
	order    []int64
	projects []model.Project
	nextID   int64

	hasRemote bool
	calAuthed bool

	// failNext maps a request type name (e.g. "AddCommentRequest") to an
	// error message returned once, then cleared.
	failNext map[string]string

	now time.Time
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		tasks:    map[int64]*model.TaskDetail{},
		failNext: map[string]string{},
		nextID:   1,
		now:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (b *fakeBackend) addTask(title string, mut ...func(*model.TaskDetail)) *model.TaskDetail {
	t := &model.TaskDetail{TaskSummary: model.TaskSummary{
		ID: b.nextID, Title: title, Status: model.StatusTodo, SortOrder: int(b.nextID),
	}}
	b.nextID++
	for _, m := range mut {
		m(t)
	}
	b.tasks[t.ID] = t
	b.order = append(b.order, t.ID)
	return t
}

func reqName(req EffectRequest) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", req), "session.")
}

func (b *fakeBackend) resolve(req EffectRequest) EvEffectDone {
	name := reqName(req)
	if msg, ok := b.failNext[name]; ok {
		delete(b.failNext, name)
		return EvEffectDone{Gen: req.Generation(), Err: msg}
	}

	ok := func(res EffectResult) EvEffectDone {
		return EvEffectDone{Gen: req.Generation(), Result: res}
	}
	fail := func(msg string) EvEffectDone {
		return EvEffectDone{Gen: req.Generation(), Err: msg}
	}

	switch req := req.(type) {
	case LoadTasksRequest:
		var out []model.TaskSummary
		q := strings.ToLower(strings.TrimSpace(req.Filter))
		for _, id := range b.order {
			t := b.tasks[id]
			if q != "" && !strings.Contains(strings.ToLower(t.Title), q) {
				continue
			}
			out = append(out, t.TaskSummary)
		}
		return ok(TasksLoaded{Tasks: out})

	case LoadTaskDetailRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail(fmt.Sprintf("task %d not found", req.TaskID))
		}
		return ok(TaskDetailLoaded{Task: *t})

	case CreateTaskRequest:
		t := b.addTask(strings.TrimSpace(req.Title))
		if req.ParentID != nil {
			id := *req.ParentID
			t.ParentID = &id
		}
		return ok(TaskCreated{Task: *t})

	case UpdateTaskRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		b.applyPatch(t, req.Patch)
		return ok(TaskUpdated{Task: *t})

	case SetDueRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		due, err := taskapi.ParseDueText(req.Text, b.now)
		if err != nil {
			return fail(err.Error())
		}
		t.Due = due
		return ok(TaskUpdated{Task: *t})

	case DeleteTaskRequest:
		if _, found := b.tasks[req.TaskID]; !found {
			return ok(TaskDeleted{TaskID: req.TaskID, Deleted: false})
		}
		delete(b.tasks, req.TaskID)
		for i, id := range b.order {
			if id == req.TaskID {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		return ok(TaskDeleted{TaskID: req.TaskID, Deleted: true})

	case ToggleStatusRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		res := StatusToggled{}
		if t.Status == model.StatusDone {
			t.Status = model.StatusTodo
		} else {
			t.Status = model.StatusDone
			if t.Due != nil {
				if next, okNext := taskapi.NextOccurrence(*t.Due, t.Recurrence, b.now); okNext {
					clone := b.addTask(t.Title)
					clone.Due = &next
					clone.Recurrence = t.Recurrence
					id := clone.ID
					res.RecurringNextTaskID = &id
				}
			}
		}
		res.Task = *t
		return ok(res)

	case ToggleProgressRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		switch t.Status {
		case model.StatusTodo:
			t.Status = model.StatusInProgress
		case model.StatusInProgress:
			t.Status = model.StatusTodo
		}
		return ok(ProgressToggled{Task: *t})

	case ReorderTaskRequest:
		idx := -1
		for i, id := range b.order {
			if id == req.TaskID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fail("task not found")
		}
		other := idx - 1
		if req.Dir == taskapi.DirectionDown {
			other = idx + 1
		}
		if other < 0 || other >= len(b.order) {
			return ok(TaskReordered{Swapped: false, TaskID: req.TaskID})
		}
		b.order[idx], b.order[other] = b.order[other], b.order[idx]
		with := b.order[idx]
		return ok(TaskReordered{Swapped: true, TaskID: req.TaskID, SwappedWith: &with})

	case AddCommentRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		t.Comments = append(t.Comments, model.Comment{
			ID: int64(len(t.Comments) + 1), TaskID: t.ID, Body: req.Body,
		})
		return ok(CommentAdded{Task: *t})

	case AddAttachmentRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		t.Attachments = append(t.Attachments, model.Attachment{
			ID: int64(len(t.Attachments) + 1), TaskID: t.ID, Path: req.Path,
		})
		return ok(AttachmentAdded{Task: *t})

	case SetTagsRequest:
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		t.Tags = req.Tags
		return ok(TagsSet{Task: *t})

	case LoadProjectsRequest:
		return ok(ProjectsLoaded{Projects: b.projects})

	case CreateProjectAndAssignRequest:
		p := model.Project{ID: int64(len(b.projects) + 1), Name: req.Name}
		b.projects = append(b.projects, p)
		t, found := b.tasks[req.TaskID]
		if !found {
			return fail("task not found")
		}
		id := p.ID
		t.ProjectID = &id
		t.Project = &p
		return ok(ProjectCreatedAndAssigned{Project: p, Task: *t})

	case CreateWorkspaceRequest:
		return ok(WorkspaceCreated{Result: taskapi.WorkspaceResult{Name: req.Name, Path: "/tmp/" + req.Name}})

	case SyncPullRequest:
		if !b.hasRemote {
			return ok(SyncDone{Op: "pull", Success: false, Error: "no remote configured"})
		}
		return ok(SyncDone{Op: "pull", Success: true})

	case SyncPushRequest:
		if !b.hasRemote {
			return ok(SyncDone{Op: "push", Success: false, Error: "no remote configured"})
		}
		return ok(SyncDone{Op: "push", Success: true})

	case SyncToCalendarRequest:
		if !b.calAuthed {
			return ok(CalendarSynced{Result: taskapi.CalendarSyncResult{Success: false, Error: "not authenticated with calendar"}})
		}
		return ok(CalendarSynced{Result: taskapi.CalendarSyncResult{Success: true, Action: "created", EventID: "ev-1"}})

	case SwitchDatabaseRequest:
		return ok(DatabaseSwitched{Name: req.Name})
	}

	return fail("unhandled request " + name)
}

func (b *fakeBackend) applyPatch(t *model.TaskDetail, p taskapi.Patch) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ProjectID != nil {
		id := *p.ProjectID
		t.ProjectID = &id
	}
	if p.ClearProject {
		t.ProjectID = nil
		t.Project = nil
	}
	if p.Due != nil {
		due := *p.Due
		t.Due = &due
	}
	if p.ClearDue {
		t.Due = nil
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	if p.DurationHours != nil {
		h := *p.DurationHours
		t.DurationHours = &h
	}
}

// drive resolves requests until the machine goes quiet, feeding completions
// back in arrival order.
func drive(t *testing.T, o *Orchestrator, b *fakeBackend, reqs []EffectRequest) {
	t.Helper()
	for steps := 0; len(reqs) > 0; steps++ {
		if steps > 100 {
			t.Fatalf("drive: machine did not settle after 100 effects")
		}
		req := reqs[0]
		reqs = append(reqs[1:], o.Step(b.resolve(req))...)
	}
}

// newReadySession builds a session over the backend's tasks and drives it to
// DataReady with the first task's detail loaded.
func newReadySession(t *testing.T, b *fakeBackend, opts Options) *Orchestrator {
	t.Helper()
	o, reqs := New(opts)
	drive(t, o, b, reqs)
	if o.data != DataReady && o.data != DataError {
		t.Fatalf("expected session to settle; data state = %d", int(o.data))
	}
	return o
}

// stepAll is a convenience for tests that want effects resolved immediately.
func stepAll(t *testing.T, o *Orchestrator, b *fakeBackend, ev Event) {
	t.Helper()
	drive(t, o, b, o.Step(ev))
}
