package session

import (
	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

// EffectRequest describes one asynchronous operation the orchestrator wants
// run. Requests carry an immutable snapshot of exactly the context fields
// the operation needs, plus the generation that ties the eventual
// EvEffectDone back to the state entry that issued it. The runner executes
// the operation and must deliver exactly one EvEffectDone per request.
type EffectRequest interface {
	isEffectRequest()
	Generation() uint64
	// FallbackError is the message surfaced when the underlying failure
	// carries no message of its own.
	FallbackError() string
}

type baseReq struct{ Gen uint64 }

func (b baseReq) Generation() uint64 { return b.Gen }

type LoadTasksRequest struct {
	baseReq
	Filter string
}

type LoadTaskDetailRequest struct {
	baseReq
	TaskID int64
}

type CreateTaskRequest struct {
	baseReq
	Title    string
	ParentID *int64
}

type UpdateTaskRequest struct {
	baseReq
	TaskID int64
	Patch  taskapi.Patch
}

// SetDueRequest carries the raw due-date text; parsing is the runner's job
// (it owns the date parser collaborator).
type SetDueRequest struct {
	baseReq
	TaskID int64
	Text   string
}

type DeleteTaskRequest struct {
	baseReq
	TaskID int64
}

type ToggleStatusRequest struct {
	baseReq
	TaskID int64
}

type ToggleProgressRequest struct {
	baseReq
	TaskID int64
}

type ReorderTaskRequest struct {
	baseReq
	TaskID int64
	Dir    taskapi.Direction
}

type AddCommentRequest struct {
	baseReq
	TaskID int64
	Body   string
}

type AddAttachmentRequest struct {
	baseReq
	TaskID int64
	Path   string
}

type SetTagsRequest struct {
	baseReq
	TaskID int64
	Tags   []string
}

type LoadProjectsRequest struct{ baseReq }

type CreateProjectAndAssignRequest struct {
	baseReq
	TaskID int64
	Name   string
}

type CreateWorkspaceRequest struct {
	baseReq
	Name string
}

type SyncPullRequest struct{ baseReq }

type SyncPushRequest struct{ baseReq }

type SyncToCalendarRequest struct {
	baseReq
	TaskID        int64
	DurationHours float64
}

type SwitchDatabaseRequest struct {
	baseReq
	Name string
}

func (LoadTasksRequest) isEffectRequest()              {}
func (LoadTaskDetailRequest) isEffectRequest()         {}
func (CreateTaskRequest) isEffectRequest()             {}
func (UpdateTaskRequest) isEffectRequest()             {}
func (SetDueRequest) isEffectRequest()                 {}
func (DeleteTaskRequest) isEffectRequest()             {}
func (ToggleStatusRequest) isEffectRequest()           {}
func (ToggleProgressRequest) isEffectRequest()         {}
func (ReorderTaskRequest) isEffectRequest()            {}
func (AddCommentRequest) isEffectRequest()             {}
func (AddAttachmentRequest) isEffectRequest()          {}
func (SetTagsRequest) isEffectRequest()                {}
func (LoadProjectsRequest) isEffectRequest()           {}
func (CreateProjectAndAssignRequest) isEffectRequest() {}
func (CreateWorkspaceRequest) isEffectRequest()        {}
func (SyncPullRequest) isEffectRequest()               {}
func (SyncPushRequest) isEffectRequest()               {}
func (SyncToCalendarRequest) isEffectRequest()         {}
func (SwitchDatabaseRequest) isEffectRequest()         {}

func (LoadTasksRequest) FallbackError() string              { return "failed to load tasks" }
func (LoadTaskDetailRequest) FallbackError() string         { return "failed to load task" }
func (CreateTaskRequest) FallbackError() string             { return "failed to create task" }
func (UpdateTaskRequest) FallbackError() string             { return "failed to update task" }
func (SetDueRequest) FallbackError() string                 { return "failed to set due date" }
func (DeleteTaskRequest) FallbackError() string             { return "failed to delete task" }
func (ToggleStatusRequest) FallbackError() string           { return "failed to toggle status" }
func (ToggleProgressRequest) FallbackError() string         { return "failed to toggle progress" }
func (ReorderTaskRequest) FallbackError() string            { return "failed to reorder task" }
func (AddCommentRequest) FallbackError() string             { return "failed to add comment" }
func (AddAttachmentRequest) FallbackError() string          { return "failed to add attachment" }
func (SetTagsRequest) FallbackError() string                { return "failed to update tags" }
func (LoadProjectsRequest) FallbackError() string           { return "failed to load projects" }
func (CreateProjectAndAssignRequest) FallbackError() string { return "failed to create project" }
func (CreateWorkspaceRequest) FallbackError() string        { return "failed to create workspace" }
func (SyncPullRequest) FallbackError() string               { return "sync pull failed" }
func (SyncPushRequest) FallbackError() string               { return "sync push failed" }
func (SyncToCalendarRequest) FallbackError() string         { return "calendar sync failed" }
func (SwitchDatabaseRequest) FallbackError() string         { return "failed to switch database" }

// EffectResult is the success payload of an effect.
type EffectResult interface{ isEffectResult() }

type TasksLoaded struct{ Tasks []model.TaskSummary }

type TaskDetailLoaded struct{ Task model.TaskDetail }

type TaskCreated struct{ Task model.TaskDetail }

type TaskUpdated struct{ Task model.TaskDetail }

type TaskDeleted struct {
	TaskID  int64
	Deleted bool
}

type StatusToggled struct {
	Task                model.TaskDetail
	RecurringNextTaskID *int64
}

type ProgressToggled struct{ Task model.TaskDetail }

type TaskReordered struct {
	Swapped     bool
	TaskID      int64
	SwappedWith *int64
}

type CommentAdded struct{ Task model.TaskDetail }

type AttachmentAdded struct{ Task model.TaskDetail }

type TagsSet struct{ Task model.TaskDetail }

type ProjectsLoaded struct{ Projects []model.Project }

type ProjectCreatedAndAssigned struct {
	Project model.Project
	Task    model.TaskDetail
}

type WorkspaceCreated struct{ Result taskapi.WorkspaceResult }

// SyncDone reports pull/push outcome as data: "no remote configured" and
// friends are expected conditions, not errors.
type SyncDone struct {
	Op      string // pull|push
	Success bool
	Error   string
}

type CalendarSynced struct{ Result taskapi.CalendarSyncResult }

type DatabaseSwitched struct{ Name string }

func (TasksLoaded) isEffectResult()               {}
func (TaskDetailLoaded) isEffectResult()          {}
func (TaskCreated) isEffectResult()               {}
func (TaskUpdated) isEffectResult()               {}
func (TaskDeleted) isEffectResult()               {}
func (StatusToggled) isEffectResult()             {}
func (ProgressToggled) isEffectResult()           {}
func (TaskReordered) isEffectResult()             {}
func (CommentAdded) isEffectResult()              {}
func (AttachmentAdded) isEffectResult()           {}
func (TagsSet) isEffectResult()                   {}
func (ProjectsLoaded) isEffectResult()            {}
func (ProjectCreatedAndAssigned) isEffectResult() {}
func (WorkspaceCreated) isEffectResult()          {}
func (SyncDone) isEffectResult()                  {}
func (CalendarSynced) isEffectResult()            {}
func (DatabaseSwitched) isEffectResult()          {}

// dataEffects maps each effect-bearing data-region state to the request its
// entry issues. Keeping this a table (rather than building requests inline at
// every transition) keeps "what runs here" in one place.
var dataEffects = map[DataState]func(o *Orchestrator, gen uint64) EffectRequest{
	DataLoading: func(o *Orchestrator, gen uint64) EffectRequest {
		return LoadTasksRequest{baseReq{gen}, o.ctx.SearchQuery}
	},
	DataLoadingDetail: func(o *Orchestrator, gen uint64) EffectRequest {
		return LoadTaskDetailRequest{baseReq{gen}, o.ctx.Tasks[o.ctx.SelectedIndex].ID}
	},
	DataTogglingStatus: func(o *Orchestrator, gen uint64) EffectRequest {
		return ToggleStatusRequest{baseReq{gen}, o.ctx.Tasks[o.ctx.SelectedIndex].ID}
	},
	DataTogglingProgress: func(o *Orchestrator, gen uint64) EffectRequest {
		return ToggleProgressRequest{baseReq{gen}, o.ctx.Tasks[o.ctx.SelectedIndex].ID}
	},
	DataReordering: func(o *Orchestrator, gen uint64) EffectRequest {
		return ReorderTaskRequest{baseReq{gen}, o.ctx.Tasks[o.ctx.SelectedIndex].ID, o.reorderDir}
	},
	DataDeleting: func(o *Orchestrator, gen uint64) EffectRequest {
		return DeleteTaskRequest{baseReq{gen}, o.ctx.SelectedTask.ID}
	},
	DataSyncingPull: func(o *Orchestrator, gen uint64) EffectRequest {
		return SyncPullRequest{baseReq{gen}}
	},
	DataSyncingPush: func(o *Orchestrator, gen uint64) EffectRequest {
		return SyncPushRequest{baseReq{gen}}
	},
	DataSyncingToCalendar: func(o *Orchestrator, gen uint64) EffectRequest {
		return SyncToCalendarRequest{baseReq{gen}, o.ctx.SelectedTask.ID, o.pendingHours}
	},
	DataUpdatingDuration: func(o *Orchestrator, gen uint64) EffectRequest {
		h := o.pendingHours
		return UpdateTaskRequest{baseReq{gen}, o.ctx.SelectedTask.ID, taskapi.Patch{DurationHours: &h}}
	},
}

// uiEffects is the same table for the UI region's effect-bearing states.
var uiEffects = map[UIState]func(o *Orchestrator, gen uint64) EffectRequest{
	UISubmittingTask: func(o *Orchestrator, gen uint64) EffectRequest {
		return CreateTaskRequest{baseReq{gen}, o.ctx.Buffers.Title, o.pendingParentID}
	},
	UISubmittingTitleInList: func(o *Orchestrator, gen uint64) EffectRequest {
		title := o.ctx.Buffers.EditingTitle
		return UpdateTaskRequest{baseReq{gen}, o.ctx.Tasks[o.ctx.SelectedIndex].ID, taskapi.Patch{Title: &title}}
	},
	UISubmittingWorkspace: func(o *Orchestrator, gen uint64) EffectRequest {
		return CreateWorkspaceRequest{baseReq{gen}, o.ctx.Buffers.Title}
	},
	UISwitchingDatabase: func(o *Orchestrator, gen uint64) EffectRequest {
		return SwitchDatabaseRequest{baseReq{gen}, o.pendingDatabase}
	},
}
