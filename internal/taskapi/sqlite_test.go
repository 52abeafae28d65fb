package taskapi

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tackle-cli/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "default")
	s, err := Open(dir, StoreOpts{
		Now: func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, fields CreateFields) *model.TaskDetail {
	t.Helper()
	task, err := s.CreateTask(context.Background(), fields)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCreateAndGetTask(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "  write report  "})
	if task.Title != "write report" {
		t.Fatalf("expected trimmed title; got %q", task.Title)
	}
	if task.Status != model.StatusTodo {
		t.Fatalf("expected todo; got %s", task.Status)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps set")
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != "write report" {
		t.Fatalf("roundtrip mismatch: %q", got.Title)
	}

	if _, err := s.GetTask(ctx, 999); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.CreateTask(ctx, CreateFields{Title: "   "}); err == nil {
		t.Fatalf("expected blank title rejected")
	}

	parent := mustCreate(t, s, CreateFields{Title: "parent"})
	child := mustCreate(t, s, CreateFields{Title: "child", ParentID: &parent.ID})
	if _, err := s.CreateTask(ctx, CreateFields{Title: "grandchild", ParentID: &child.ID}); err == nil {
		t.Fatalf("expected nesting beyond one level rejected")
	}
}

func TestListTasksOrderAndNesting(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, CreateFields{Title: "alpha"})
	b := mustCreate(t, s, CreateFields{Title: "beta"})
	sub := mustCreate(t, s, CreateFields{Title: "alpha step", ParentID: &a.ID})

	list, err := s.ListTasks(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tasks; got %d", len(list))
	}
	// Subtasks come directly after their parent.
	if list[0].ID != a.ID || list[1].ID != sub.ID || list[2].ID != b.ID {
		t.Fatalf("unexpected order: %v %v %v", list[0].Title, list[1].Title, list[2].Title)
	}
}

func TestListTasksFilterMatchesTitleAndTags(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, CreateFields{Title: "buy milk"})
	b := mustCreate(t, s, CreateFields{Title: "fix roof"})
	if _, err := s.SetTags(ctx, b.ID, []string{"home"}); err != nil {
		t.Fatalf("set tags: %v", err)
	}
	mustCreate(t, s, CreateFields{Title: "unrelated"})

	list, err := s.ListTasks(ctx, "MILK")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("expected title match; got %v", list)
	}

	list, err = s.ListTasks(ctx, "home")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected tag match; got %v", list)
	}
}

func TestListTasksPromotesOrphanedSubtasks(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	parent := mustCreate(t, s, CreateFields{Title: "parent"})
	sub := mustCreate(t, s, CreateFields{Title: "findme step", ParentID: &parent.ID})

	// The filter drops the parent; the subtask must still be reachable.
	list, err := s.ListTasks(ctx, "findme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != sub.ID {
		t.Fatalf("expected promoted subtask; got %v", list)
	}
}

func TestUpdateTaskPatchSemantics(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "draft"})
	p, err := s.CreateProject(ctx, "writing")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	hm := "09:00"
	pr := model.PriorityHigh
	desc := "first pass"
	updated, err := s.UpdateTask(ctx, task.ID, Patch{
		Description: &desc,
		Priority:    &pr,
		ProjectID:   &p.ID,
		Due:         &model.DateTime{Date: "2026-03-20", Time: &hm},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "first pass" || updated.Priority != model.PriorityHigh {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Project == nil || updated.Project.Name != "writing" {
		t.Fatalf("expected project resolved; got %+v", updated.Project)
	}
	if updated.Due == nil || updated.Due.Date != "2026-03-20" || updated.Due.Time == nil || *updated.Due.Time != "09:00" {
		t.Fatalf("expected due applied; got %+v", updated.Due)
	}
	// Untouched fields survive.
	if updated.Title != "draft" {
		t.Fatalf("expected title untouched; got %q", updated.Title)
	}

	cleared, err := s.UpdateTask(ctx, task.ID, Patch{ClearDue: true, ClearProject: true})
	if err != nil {
		t.Fatalf("clear update: %v", err)
	}
	if cleared.Due != nil || cleared.ProjectID != nil {
		t.Fatalf("expected due and project cleared; got %+v", cleared)
	}

	blank := "  "
	if _, err := s.UpdateTask(ctx, task.ID, Patch{Title: &blank}); err == nil {
		t.Fatalf("expected blank title rejected")
	}
	bogus := int64(404)
	if _, err := s.UpdateTask(ctx, task.ID, Patch{ProjectID: &bogus}); err == nil {
		t.Fatalf("expected unknown project rejected")
	}
}

func TestToggleStatusRoundTrip(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "one-off"})
	res, err := s.ToggleStatus(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.Task.Status != model.StatusDone {
		t.Fatalf("expected done; got %s", res.Task.Status)
	}
	if res.RecurringNextTaskID != nil {
		t.Fatalf("expected no next occurrence without recurrence")
	}

	res, err = s.ToggleStatus(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if res.Task.Status != model.StatusTodo {
		t.Fatalf("expected todo; got %s", res.Task.Status)
	}
}

func TestToggleStatusCreatesNextOccurrence(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "water plants"})
	rule := "daily"
	if _, err := s.UpdateTask(ctx, task.ID, Patch{
		Due:        &model.DateTime{Date: "2026-03-10"},
		Recurrence: &rule,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.SetTags(ctx, task.ID, []string{"garden"}); err != nil {
		t.Fatalf("set tags: %v", err)
	}

	res, err := s.ToggleStatus(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if res.RecurringNextTaskID == nil {
		t.Fatalf("expected next occurrence created")
	}

	next, err := s.GetTask(ctx, *res.RecurringNextTaskID)
	if err != nil {
		t.Fatalf("get next: %v", err)
	}
	if next.Status != model.StatusTodo {
		t.Fatalf("expected next todo; got %s", next.Status)
	}
	if next.Due == nil || next.Due.Date != "2026-03-11" {
		t.Fatalf("expected advanced due; got %+v", next.Due)
	}
	if next.Recurrence != "daily" {
		t.Fatalf("expected recurrence carried; got %q", next.Recurrence)
	}
	if len(next.Tags) != 1 || next.Tags[0] != "garden" {
		t.Fatalf("expected tags copied; got %v", next.Tags)
	}
}

func TestToggleProgressSkipsDoneTasks(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "one"})
	got, err := s.ToggleProgress(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle progress: %v", err)
	}
	if got.Status != model.StatusInProgress {
		t.Fatalf("expected in_progress; got %s", got.Status)
	}
	got, err = s.ToggleProgress(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle progress: %v", err)
	}
	if got.Status != model.StatusTodo {
		t.Fatalf("expected todo; got %s", got.Status)
	}

	if _, err := s.ToggleStatus(ctx, task.ID); err != nil {
		t.Fatalf("toggle status: %v", err)
	}
	got, err = s.ToggleProgress(ctx, task.ID)
	if err != nil {
		t.Fatalf("toggle progress: %v", err)
	}
	if got.Status != model.StatusDone {
		t.Fatalf("expected done untouched; got %s", got.Status)
	}
}

func TestReorderTaskSwapsSiblings(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, CreateFields{Title: "a"})
	b := mustCreate(t, s, CreateFields{Title: "b"})
	mustCreate(t, s, CreateFields{Title: "c"})

	res, err := s.ReorderTask(ctx, b.ID, DirectionUp)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if !res.Swapped || res.SwappedWith == nil || *res.SwappedWith != a.ID {
		t.Fatalf("expected swap with a; got %+v", res)
	}

	list, err := s.ListTasks(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].ID != b.ID || list[1].ID != a.ID {
		t.Fatalf("expected b before a; got %v, %v", list[0].Title, list[1].Title)
	}

	// Boundary move is a no-op result, not an error.
	res, err = s.ReorderTask(ctx, b.ID, DirectionUp)
	if err != nil {
		t.Fatalf("reorder at boundary: %v", err)
	}
	if res.Swapped {
		t.Fatalf("expected no swap at boundary")
	}
}

func TestDeleteTaskCascadesToSubtasks(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	parent := mustCreate(t, s, CreateFields{Title: "parent"})
	mustCreate(t, s, CreateFields{Title: "child", ParentID: &parent.ID})

	deleted, err := s.DeleteTask(ctx, parent.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected row deleted")
	}

	list, err := s.ListTasks(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected cascade delete of subtasks; got %v", list)
	}

	deleted, err = s.DeleteTask(ctx, parent.ID)
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if deleted {
		t.Fatalf("expected false for missing task")
	}
}

func TestCommentsRequireBody(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "one"})
	if _, err := s.AddComment(ctx, task.ID, "  "); err == nil {
		t.Fatalf("expected blank comment rejected")
	}

	got, err := s.AddComment(ctx, task.ID, "first")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	got, err = s.AddComment(ctx, got.ID, "second")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if len(got.Comments) != 2 || got.Comments[0].Body != "first" || got.Comments[1].Body != "second" {
		t.Fatalf("expected ordered comments; got %+v", got.Comments)
	}
}

func TestSetTagsReplacesAddTagsAppends(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "one"})
	got, err := s.SetTags(ctx, task.ID, []string{"a", "b"})
	if err != nil {
		t.Fatalf("set tags: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("expected 2 tags; got %v", got.Tags)
	}

	got, err = s.SetTags(ctx, task.ID, []string{"c"})
	if err != nil {
		t.Fatalf("set tags: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "c" {
		t.Fatalf("expected replacement; got %v", got.Tags)
	}

	got, err = s.AddTags(ctx, task.ID, []string{"c", "d", " ", "d"})
	if err != nil {
		t.Fatalf("add tags: %v", err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("expected deduped append; got %v", got.Tags)
	}
}

func TestAddAttachmentCopiesFile(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, CreateFields{Title: "one"})
	src := filepath.Join(t.TempDir(), "receipt.pdf")
	if err := os.WriteFile(src, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	got, err := s.AddAttachment(ctx, task.ID, src)
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}
	if len(got.Attachments) != 1 {
		t.Fatalf("expected 1 attachment; got %d", len(got.Attachments))
	}
	att := got.Attachments[0]
	if att.Name != "receipt.pdf" {
		t.Fatalf("expected original name kept; got %q", att.Name)
	}
	if !strings.HasPrefix(att.Path, filepath.Join(s.Dir(), "attachments")) {
		t.Fatalf("expected stored under workspace; got %q", att.Path)
	}
	data, err := os.ReadFile(att.Path)
	if err != nil || string(data) != "pdf bytes" {
		t.Fatalf("expected copied content; got %q, %v", data, err)
	}
}

func TestProjects(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	if _, err := s.CreateProject(ctx, "  "); err == nil {
		t.Fatalf("expected blank name rejected")
	}
	if _, err := s.CreateProject(ctx, "zeta"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateProject(ctx, "alpha"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateProject(ctx, "zeta"); err == nil {
		t.Fatalf("expected duplicate rejected")
	}

	list, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("expected name order; got %+v", list)
	}
}

func TestCreateWorkspaceAndList(t *testing.T) {
	t.Parallel()
	s := testStore(t)
	ctx := context.Background()

	res, err := s.CreateWorkspace(ctx, "side")
	if err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	if res.Existed {
		t.Fatalf("expected fresh workspace")
	}
	if _, err := os.Stat(filepath.Join(res.Path, "tasks.db")); err != nil {
		t.Fatalf("expected db file created: %v", err)
	}

	res, err = s.CreateWorkspace(ctx, "side")
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if !res.Existed {
		t.Fatalf("expected existing workspace reported")
	}

	if _, err := s.CreateWorkspace(ctx, "bad/name"); err == nil {
		t.Fatalf("expected path separators rejected")
	}

	names, err := s.ListWorkspaces()
	if err != nil {
		t.Fatalf("list workspaces: %v", err)
	}
	if len(names) != 2 || names[0] != "default" || names[1] != "side" {
		t.Fatalf("expected both workspaces; got %v", names)
	}
}

type stubCalendar struct {
	authed bool
	synced *CalendarSyncResult
}

func (c *stubCalendar) Authenticated() bool { return c.authed }
func (c *stubCalendar) SyncTask(_ context.Context, _ model.TaskDetail, _ float64) (*CalendarSyncResult, error) {
	return c.synced, nil
}

func TestSyncToCalendarStructuredFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "default")
	s, err := Open(dir, StoreOpts{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	task := mustCreate(t, s, CreateFields{Title: "one"})

	res, err := s.SyncToCalendar(ctx, task.ID, 1)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Success || !strings.Contains(res.Error, "not configured") {
		t.Fatalf("expected not-configured failure; got %+v", res)
	}

	cal := &stubCalendar{synced: &CalendarSyncResult{Success: true, Action: "created"}}
	s2, err := Open(filepath.Join(t.TempDir(), "w"), StoreOpts{Calendar: cal})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s2.Close()
	task2 := mustCreate(t, s2, CreateFields{Title: "two"})

	res, err = s2.SyncToCalendar(ctx, task2.ID, 1)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Success || !strings.Contains(res.Error, "authenticated") {
		t.Fatalf("expected auth failure; got %+v", res)
	}

	cal.authed = true
	res, err = s2.SyncToCalendar(ctx, task2.ID, 1)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if !res.Success || res.Action != "created" {
		t.Fatalf("expected delegated success; got %+v", res)
	}

	ok, err := s2.GcalStatus(ctx)
	if err != nil || !ok {
		t.Fatalf("expected authenticated status; got %v, %v", ok, err)
	}
}
