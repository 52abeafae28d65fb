package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tackle-cli/internal/model"
	"tackle-cli/internal/session"
	"tackle-cli/internal/taskapi"
)

func testRunner(t *testing.T) *effectRunner {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "default")
	store, err := taskapi.Open(dir, taskapi.StoreOpts{
		Now: func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	r := newEffectRunner(store, nil)
	r.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestExecuteCarriesGeneration(t *testing.T) {
	t.Parallel()
	r := testRunner(t)

	_, reqs := session.New(session.Options{})
	if len(reqs) != 1 {
		t.Fatalf("expected 1 initial request; got %d", len(reqs))
	}
	done := r.execute(context.Background(), reqs[0])
	if done.Gen != reqs[0].Generation() {
		t.Fatalf("expected gen %d; got %d", reqs[0].Generation(), done.Gen)
	}
	if done.Err != "" {
		t.Fatalf("unexpected error: %s", done.Err)
	}
	if _, ok := done.Result.(session.TasksLoaded); !ok {
		t.Fatalf("expected TasksLoaded; got %T", done.Result)
	}
}

func TestExecuteCreateThenLoad(t *testing.T) {
	t.Parallel()
	r := testRunner(t)
	ctx := context.Background()

	done := r.execute(ctx, session.CreateTaskRequest{Title: "Write report"})
	if done.Err != "" {
		t.Fatalf("create failed: %s", done.Err)
	}
	created, ok := done.Result.(session.TaskCreated)
	if !ok {
		t.Fatalf("expected TaskCreated; got %T", done.Result)
	}
	if created.Task.Title != "Write report" {
		t.Fatalf("expected title to round-trip; got %q", created.Task.Title)
	}

	done = r.execute(ctx, session.LoadTaskDetailRequest{TaskID: created.Task.ID})
	if done.Err != "" {
		t.Fatalf("detail load failed: %s", done.Err)
	}
	if _, ok := done.Result.(session.TaskDetailLoaded); !ok {
		t.Fatalf("expected TaskDetailLoaded; got %T", done.Result)
	}
}

func TestExecuteMissingTaskReportsError(t *testing.T) {
	t.Parallel()
	r := testRunner(t)

	done := r.execute(context.Background(), session.LoadTaskDetailRequest{TaskID: 999})
	if done.Err == "" {
		t.Fatal("expected an error for a missing task")
	}
	if done.Result != nil {
		t.Fatalf("expected nil result; got %T", done.Result)
	}
}

func TestExecuteSetDueParsesRelativeText(t *testing.T) {
	t.Parallel()
	r := testRunner(t)
	ctx := context.Background()

	created := r.execute(ctx, session.CreateTaskRequest{Title: "Pack bags"})
	id := created.Result.(session.TaskCreated).Task.ID

	done := r.execute(ctx, session.SetDueRequest{TaskID: id, Text: "tomorrow"})
	if done.Err != "" {
		t.Fatalf("set due failed: %s", done.Err)
	}
	updated := done.Result.(session.TaskUpdated)
	if updated.Task.Due == nil || updated.Task.Due.Date != "2026-03-11" {
		t.Fatalf("expected due 2026-03-11; got %v", updated.Task.Due)
	}

	done = r.execute(ctx, session.SetDueRequest{TaskID: id, Text: "not a date"})
	if done.Err == "" {
		t.Fatal("expected garbage due text to fail")
	}

	// Empty text clears the due date.
	done = r.execute(ctx, session.SetDueRequest{TaskID: id, Text: ""})
	if done.Err != "" {
		t.Fatalf("clear due failed: %s", done.Err)
	}
	if due := done.Result.(session.TaskUpdated).Task.Due; due != nil {
		t.Fatalf("expected cleared due; got %v", due)
	}
}

func TestExecuteToggleStatus(t *testing.T) {
	t.Parallel()
	r := testRunner(t)
	ctx := context.Background()

	created := r.execute(ctx, session.CreateTaskRequest{Title: "Water plants"})
	id := created.Result.(session.TaskCreated).Task.ID

	done := r.execute(ctx, session.ToggleStatusRequest{TaskID: id})
	if done.Err != "" {
		t.Fatalf("toggle failed: %s", done.Err)
	}
	toggled := done.Result.(session.StatusToggled)
	if toggled.Task.Status != model.StatusDone {
		t.Fatalf("expected done; got %s", toggled.Task.Status)
	}
	if toggled.RecurringNextTaskID != nil {
		t.Fatal("non-recurring task must not spawn a next occurrence")
	}
}

func TestExecuteCalendarWithoutClient(t *testing.T) {
	t.Parallel()
	r := testRunner(t)
	ctx := context.Background()

	created := r.execute(ctx, session.CreateTaskRequest{Title: "Standup"})
	id := created.Result.(session.TaskCreated).Task.ID

	done := r.execute(ctx, session.SyncToCalendarRequest{TaskID: id, DurationHours: 1})
	if done.Err != "" {
		t.Fatalf("calendar sync must fail as data, not error: %s", done.Err)
	}
	res := done.Result.(session.CalendarSynced).Result
	if res.Success {
		t.Fatal("expected structured failure without a calendar client")
	}
	if res.Error == "" {
		t.Fatal("expected a failure reason")
	}
}

func TestExecuteSwitchDatabase(t *testing.T) {
	t.Parallel()
	r := testRunner(t)
	ctx := context.Background()

	made := r.execute(ctx, session.CreateWorkspaceRequest{Name: "work"})
	if made.Err != "" {
		t.Fatalf("create workspace failed: %s", made.Err)
	}

	done := r.execute(ctx, session.SwitchDatabaseRequest{Name: "work"})
	if done.Err != "" {
		t.Fatalf("switch failed: %s", done.Err)
	}
	if _, ok := done.Result.(session.DatabaseSwitched); !ok {
		t.Fatalf("expected DatabaseSwitched; got %T", done.Result)
	}
	if got := filepath.Base(r.workspaceDir()); got != "work" {
		t.Fatalf("expected workspace dir to end in work; got %s", got)
	}

	// The new handle must be live.
	list := r.execute(ctx, session.LoadTasksRequest{})
	if list.Err != "" {
		t.Fatalf("list after switch failed: %s", list.Err)
	}
}
