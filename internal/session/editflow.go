package session

import (
	"fmt"

	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

// EditMode selects which field of the selected task the sub-flow edits.
type EditMode int

const (
	EditNone EditMode = iota
	EditComment
	EditDescription
	EditTitle
	EditStatus
	EditPriority
	EditProject
	EditDueDate
	EditTags
	EditRecurrence
	EditAttachment
)

func (m EditMode) String() string {
	switch m {
	case EditNone:
		return "none"
	case EditComment:
		return "comment"
	case EditDescription:
		return "description"
	case EditTitle:
		return "title"
	case EditStatus:
		return "status"
	case EditPriority:
		return "priority"
	case EditProject:
		return "project"
	case EditDueDate:
		return "dueDate"
	case EditTags:
		return "tags"
	case EditRecurrence:
		return "recurrence"
	case EditAttachment:
		return "attachment"
	}
	return fmt.Sprintf("EditMode(%d)", int(m))
}

// modeTriggersRefresh reports whether a successful edit of this field must
// reload the task list: these fields affect sort order, grouping, or the
// displayed summary row.
func modeTriggersRefresh(m EditMode) bool {
	switch m {
	case EditTitle, EditStatus, EditPriority, EditProject, EditTags:
		return true
	}
	return false
}

type editState int

const (
	editStateEditing editState = iota
	editStateSelecting
	editStateLoadingProjects
	editStatePickingProject
	editStateProjectName
	editStateSubmitting
	editStateSubmittingProject
)

// editMessage is the sub-flow's only channel back to the parent. Terminal
// messages (editComplete, editCancelled) end the flow; the project flow also
// sends non-terminal cache updates.
type editMessage interface{ isEditMessage() }

type editComplete struct {
	Task    model.TaskDetail
	Refresh bool
}

type editCancelled struct{}

type editProjectsLoaded struct{ Projects []model.Project }

type editProjectCreated struct{ Project model.Project }

func (editComplete) isEditMessage()       {}
func (editCancelled) isEditMessage()      {}
func (editProjectsLoaded) isEditMessage() {}
func (editProjectCreated) isEditMessage() {}

// editFlow is the self-contained field-editing state machine. It owns copies
// of the parent fields it needs (the selected task, the pre-populated text)
// and never touches the parent context.
type editFlow struct {
	mode  EditMode
	state editState
	task  model.TaskDetail
	text  string
	// resume is the pre-submission state a failed submit falls back to, with
	// the user's input preserved.
	resume editState
	errMsg string
}

// newEditFlow routes the initial mode to its field flow. An unrecognized
// mode falls back to the comment flow.
func newEditFlow(mode EditMode, task model.TaskDetail, prefill string) *editFlow {
	f := &editFlow{mode: mode, task: task, text: prefill}
	switch mode {
	case EditComment, EditDescription, EditTitle, EditDueDate, EditTags, EditRecurrence:
		f.state = editStateEditing
	case EditStatus, EditPriority, EditAttachment:
		f.state = editStateSelecting
	case EditProject:
		f.state = editStateLoadingProjects
	default:
		f.mode = EditComment
		f.state = editStateEditing
		f.text = ""
	}
	return f
}

// start issues the flow's entry effect, if any (only the project flow has
// one: loading the project list).
func (f *editFlow) start(gen uint64) []EffectRequest {
	if f.state == editStateLoadingProjects {
		return []EffectRequest{LoadProjectsRequest{baseReq{gen}}}
	}
	return nil
}

// needsEntryEffect reports whether start will issue a request.
func (f *editFlow) needsEntryEffect() bool { return f.state == editStateLoadingProjects }

// submitValid is the free-text submit guard: title and comment require
// non-blank trimmed text; all other fields accept empty as "clear".
func (f *editFlow) submitValid() bool {
	switch f.mode {
	case EditTitle, EditComment:
		return validText(f.text)
	}
	return true
}

// step processes one event. It returns the effect request to issue (nil if
// none) and at most one terminal plus any auxiliary messages for the parent.
func (f *editFlow) step(ev Event, gen func() uint64) (EffectRequest, []editMessage) {
	switch f.state {
	case editStateEditing:
		switch ev := ev.(type) {
		case EvInput:
			f.text = ev.Text
			f.errMsg = ""
			return nil, nil
		case EvCancel:
			return nil, []editMessage{editCancelled{}}
		case EvSubmit:
			if !f.submitValid() {
				return nil, nil
			}
			f.resume = editStateEditing
			f.state = editStateSubmitting
			return f.submitRequest(gen()), nil
		}

	case editStateSelecting:
		switch ev := ev.(type) {
		case EvCancel:
			return nil, []editMessage{editCancelled{}}
		case EvSelectStatus:
			if f.mode != EditStatus {
				return nil, nil
			}
			st := ev.Status
			f.resume = editStateSelecting
			f.state = editStateSubmitting
			return UpdateTaskRequest{baseReq{gen()}, f.task.ID, taskapi.Patch{Status: &st}}, nil
		case EvSelectPriority:
			if f.mode != EditPriority {
				return nil, nil
			}
			p := ev.Priority
			f.resume = editStateSelecting
			f.state = editStateSubmitting
			return UpdateTaskRequest{baseReq{gen()}, f.task.ID, taskapi.Patch{Priority: &p}}, nil
		case EvSelectAttachment:
			if f.mode != EditAttachment {
				return nil, nil
			}
			f.resume = editStateSelecting
			f.state = editStateSubmitting
			return AddAttachmentRequest{baseReq{gen()}, f.task.ID, ev.Path}, nil
		}

	case editStateLoadingProjects:
		if _, ok := ev.(EvCancel); ok {
			return nil, []editMessage{editCancelled{}}
		}

	case editStatePickingProject:
		switch ev := ev.(type) {
		case EvCancel:
			return nil, []editMessage{editCancelled{}}
		case EvSelectProject:
			id := ev.ProjectID
			f.resume = editStatePickingProject
			f.state = editStateSubmitting
			return UpdateTaskRequest{baseReq{gen()}, f.task.ID, taskapi.Patch{ProjectID: &id}}, nil
		case EvStartNewProject:
			f.state = editStateProjectName
			f.text = ""
			f.errMsg = ""
			return nil, nil
		}

	case editStateProjectName:
		switch ev := ev.(type) {
		case EvInput:
			f.text = ev.Text
			f.errMsg = ""
			return nil, nil
		case EvCancel:
			// Back to the chooser, not out of the flow.
			f.state = editStatePickingProject
			f.text = ""
			return nil, nil
		case EvSubmit:
			if !validText(f.text) {
				return nil, nil
			}
			f.resume = editStateProjectName
			f.state = editStateSubmittingProject
			return CreateProjectAndAssignRequest{baseReq{gen()}, f.task.ID, f.text}, nil
		}
	}
	return nil, nil
}

func (f *editFlow) submitRequest(gen uint64) EffectRequest {
	switch f.mode {
	case EditComment:
		return AddCommentRequest{baseReq{gen}, f.task.ID, f.text}
	case EditDescription:
		d := f.text
		return UpdateTaskRequest{baseReq{gen}, f.task.ID, taskapi.Patch{Description: &d}}
	case EditTitle:
		t := f.text
		return UpdateTaskRequest{baseReq{gen}, f.task.ID, taskapi.Patch{Title: &t}}
	case EditDueDate:
		return SetDueRequest{baseReq{gen}, f.task.ID, f.text}
	case EditTags:
		return SetTagsRequest{baseReq{gen}, f.task.ID, taskapi.SplitTagsText(f.text)}
	case EditRecurrence:
		r := f.text
		return UpdateTaskRequest{baseReq{gen}, f.task.ID, taskapi.Patch{Recurrence: &r}}
	}
	panic(fmt.Sprintf("session: no submit request for edit mode %s", f.mode))
}

// handleEffectDone applies an effect completion. Failures return to the
// pre-submission state with the error attached to the flow's own context and
// the user's input preserved.
func (f *editFlow) handleEffectDone(res EffectResult, errMsg string) []editMessage {
	if errMsg != "" {
		f.state = f.resume
		f.errMsg = errMsg
		return nil
	}

	switch f.state {
	case editStateLoadingProjects:
		if r, ok := res.(ProjectsLoaded); ok {
			f.state = editStatePickingProject
			return []editMessage{editProjectsLoaded{Projects: r.Projects}}
		}

	case editStateSubmitting:
		switch r := res.(type) {
		case TaskUpdated:
			return []editMessage{editComplete{Task: r.Task, Refresh: modeTriggersRefresh(f.mode)}}
		case CommentAdded:
			return []editMessage{editComplete{Task: r.Task, Refresh: false}}
		case AttachmentAdded:
			return []editMessage{editComplete{Task: r.Task, Refresh: false}}
		case TagsSet:
			return []editMessage{editComplete{Task: r.Task, Refresh: true}}
		}

	case editStateSubmittingProject:
		if r, ok := res.(ProjectCreatedAndAssigned); ok {
			return []editMessage{
				editProjectCreated{Project: r.Project},
				editComplete{Task: r.Task, Refresh: true},
			}
		}
	}

	// A result that does not match the state is a programming error in the
	// runner; surface it like a failure so the user is not stuck.
	f.state = f.resume
	f.errMsg = fmt.Sprintf("unexpected result %T", res)
	return nil
}
