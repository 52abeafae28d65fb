package taskapi

import (
	"context"

	"tackle-cli/internal/model"
)

// API is the task backend consumed by the session orchestrator and the
// scriptable CLI. Implementations must be safe for sequential use from a
// single goroutine; the caller serializes operations.
type API interface {
	ListTasks(ctx context.Context, filter string) ([]model.TaskSummary, error)
	GetTask(ctx context.Context, id int64) (*model.TaskDetail, error)
	CreateTask(ctx context.Context, fields CreateFields) (*model.TaskDetail, error)
	UpdateTask(ctx context.Context, id int64, patch Patch) (*model.TaskDetail, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// ToggleStatus flips todo/in_progress -> done -> todo. Completing a
	// recurring task that has a due date atomically inserts the next
	// occurrence and reports its id so the caller can select it.
	ToggleStatus(ctx context.Context, id int64) (*ToggleStatusResult, error)
	// ToggleProgress flips todo <-> in_progress and is a no-op on done tasks.
	ToggleProgress(ctx context.Context, id int64) (*model.TaskDetail, error)

	AddComment(ctx context.Context, id int64, body string) (*model.TaskDetail, error)
	AddAttachment(ctx context.Context, id int64, path string) (*model.TaskDetail, error)

	SetTags(ctx context.Context, id int64, tags []string) (*model.TaskDetail, error)
	AddTags(ctx context.Context, id int64, tags []string) (*model.TaskDetail, error)

	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, name string) (*model.Project, error)

	// ReorderTask swaps the task with its previous/next sibling. At either
	// boundary it reports Swapped=false instead of failing.
	ReorderTask(ctx context.Context, id int64, dir Direction) (*ReorderResult, error)

	CreateWorkspace(ctx context.Context, name string) (*WorkspaceResult, error)

	// SyncToCalendar pushes the task as a calendar event. Auth and config
	// problems are reported as data on the result, never as an error.
	SyncToCalendar(ctx context.Context, id int64, durationHours float64) (*CalendarSyncResult, error)
	GcalStatus(ctx context.Context) (bool, error)

	Health(ctx context.Context) error
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type CreateFields struct {
	Title     string
	ParentID  *int64
	ProjectID *int64
}

// Patch is a field-scoped update: nil pointers leave the field untouched.
// Clearing an optional field is expressed with the matching Clear flag so
// "unset" and "leave alone" stay distinguishable.
type Patch struct {
	Title       *string
	Description *string
	Status      *model.Status
	Priority    *model.Priority

	ProjectID    *int64
	ClearProject bool

	Due      *model.DateTime
	ClearDue bool

	Recurrence *string
	Tags       *[]string

	DurationHours *float64
}

type ToggleStatusResult struct {
	Task model.TaskDetail
	// RecurringNextTaskID is set when completing the task spawned its next
	// occurrence.
	RecurringNextTaskID *int64
}

type ReorderResult struct {
	Swapped     bool
	TaskID      int64
	SwappedWith *int64
}

type WorkspaceResult struct {
	Path    string
	Name    string
	Opened  bool
	Existed bool
}

type CalendarSyncResult struct {
	Success  bool
	EventID  string
	EventURL string
	Action   string // created|updated
	Error    string
}
