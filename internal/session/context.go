package session

import "tackle-cli/internal/model"

// Buffers holds user-entered text pending submission. Buffers are cleared on
// cancel, on successful submit, and on entry into a fresh editing flow.
// A failed submit never discards them.
type Buffers struct {
	Title        string
	Description  string
	Comment      string
	DueDate      string
	Tags         string
	Recurrence   string
	ProjectName  string
	Duration     string
	GcalDuration string
	EditingTitle string
}

// Context is the single mutable record owned by the orchestrator. The
// editing sub-flow gets copies of the fields it needs at invocation time and
// reports back only through its completion messages.
type Context struct {
	// Tasks is the authoritative list snapshot, replaced wholesale on reload.
	Tasks []model.TaskSummary
	// SelectedTask is present only after a successful detail load.
	SelectedTask *model.TaskDetail
	// SelectedIndex stays within [0, len(Tasks)) whenever Tasks is non-empty.
	SelectedIndex int

	// Projects is populated lazily by the project-change flow.
	Projects []model.Project

	// PendingSelectTaskID re-highlights a task after the next reload, then is
	// cleared. LastSelectedTaskID is the externally persisted fallback.
	PendingSelectTaskID *int64
	LastSelectedTaskID  *int64

	Buffers Buffers

	PaletteFilter string
	PaletteIndex  int

	// SearchQuery filters the task list; empty means no filter.
	SearchQuery string

	// Databases / Database describe the selectable workspaces.
	Databases []string
	Database  string

	// EditingMode mirrors the sub-flow's active field for selectors; it is
	// EditNone whenever the UI region is not in detail editing.
	EditingMode EditMode

	// Err holds the last surfaced failure; cleared by any new successful
	// action. Status holds an in-progress/outcome message.
	Err    string
	Status string
}

func (c *Context) selectedSummary() *model.TaskSummary {
	if c.SelectedIndex < 0 || c.SelectedIndex >= len(c.Tasks) {
		return nil
	}
	return &c.Tasks[c.SelectedIndex]
}

func indexOfTask(tasks []model.TaskSummary, id int64) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
