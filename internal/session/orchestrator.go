package session

import (
	"fmt"
	"strconv"
	"strings"

	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

// DataState is the data-lifecycle region of the orchestrator. Every state
// except DataReady, DataError, and the two text-entry states has exactly one
// effect in flight while active.
type DataState int

const (
	DataLoading DataState = iota
	DataReady
	DataLoadingDetail
	DataTogglingStatus
	DataTogglingProgress
	DataReordering
	DataDeleting
	DataSyncingPull
	DataSyncingPush
	DataEnteringGcalDuration
	DataSyncingToCalendar
	DataEnteringDuration
	DataUpdatingDuration
	// DataError is entered only when the initial load fails; it is exited
	// only by retrying the load. Later load failures fall back to DataReady
	// with an error message instead.
	DataError
)

// UIState is the UI-mode region. UIList and UIDetail are the two sub-states
// of "normal"; lastNormal stands in for history so cancelling an overlay
// returns to whichever of the two was active.
type UIState int

const (
	UIList UIState = iota
	UIDetail
	UICommandPalette
	UIHelp
	UIPickingDatabase
	UISwitchingDatabase
	UISearching
	UICreatingTask
	UISubmittingTask
	UICreatingWorkspace
	UISubmittingWorkspace
	UIEditingTitleInList
	UISubmittingTitleInList
	UIDetailEditing
)

func (s UIState) normal() bool { return s == UIList || s == UIDetail }

type pendingEffect struct {
	gen uint64
	req EffectRequest
}

// Orchestrator is the top-level session state machine. One event is
// processed to completion per Step call; effects run outside and come back
// as EvEffectDone events. The orchestrator is not goroutine-safe: the
// surrounding event loop serializes access.
type Orchestrator struct {
	ctx  Context
	data DataState
	ui   UIState
	// lastNormal is the history slot for the normal state's sub-states.
	lastNormal UIState

	edit *editFlow

	gen         uint64
	pendingData *pendingEffect
	pendingUI   *pendingEffect
	pendingEdit *pendingEffect

	initialLoadDone bool

	// Transient inputs captured at transition time for the effect tables.
	reorderDir      taskapi.Direction
	pendingHours    float64
	pendingParentID *int64
	pendingDatabase string
}

// Options configures a new session.
type Options struct {
	// LastSelectedTaskID is the externally persisted selection to restore.
	LastSelectedTaskID *int64
	// Databases are the selectable workspace names; Database is the current one.
	Databases []string
	Database  string
}

// New creates a session in the loading state and returns it together with
// the initial task-list load request.
func New(opts Options) (*Orchestrator, []EffectRequest) {
	o := &Orchestrator{
		data:       DataLoading,
		ui:         UIList,
		lastNormal: UIList,
		ctx: Context{
			LastSelectedTaskID: opts.LastSelectedTaskID,
			Databases:          opts.Databases,
			Database:           opts.Database,
		},
	}
	return o, o.issueData(DataLoading)
}

func (o *Orchestrator) nextGen() uint64 {
	o.gen++
	return o.gen
}

// issueData enters a data-region state and issues its effect.
func (o *Orchestrator) issueData(state DataState) []EffectRequest {
	build, ok := dataEffects[state]
	if !ok {
		panic(fmt.Sprintf("session: data state %d has no effect", int(state)))
	}
	o.data = state
	gen := o.nextGen()
	req := build(o, gen)
	o.pendingData = &pendingEffect{gen: gen, req: req}
	return []EffectRequest{req}
}

// issueUI enters a UI-region effect-bearing state and issues its effect.
func (o *Orchestrator) issueUI(state UIState) []EffectRequest {
	build, ok := uiEffects[state]
	if !ok {
		panic(fmt.Sprintf("session: ui state %d has no effect", int(state)))
	}
	o.ui = state
	gen := o.nextGen()
	req := build(o, gen)
	o.pendingUI = &pendingEffect{gen: gen, req: req}
	return []EffectRequest{req}
}

// reload re-enters DataLoading with the current search filter. Selection is
// restored from PendingSelectTaskID and friends when the result arrives.
func (o *Orchestrator) reload() []EffectRequest {
	return o.issueData(DataLoading)
}

// Step processes one event and returns the effect requests to run. Events
// are handled strictly in arrival order; nothing here blocks.
func (o *Orchestrator) Step(ev Event) []EffectRequest {
	if done, ok := ev.(EvEffectDone); ok {
		return o.handleEffectDone(done)
	}

	// The editing sub-flow captures events while active.
	if o.ui == UIDetailEditing {
		return o.stepEditFlow(ev)
	}

	switch o.ui {
	case UICommandPalette:
		return o.stepPalette(ev)
	case UIHelp:
		if _, ok := ev.(EvCancel); ok {
			o.ui = o.lastNormal
		}
		return nil
	case UIPickingDatabase:
		return o.stepPickDatabase(ev)
	case UISearching:
		return o.stepSearching(ev)
	case UICreatingTask:
		return o.stepCreatingTask(ev)
	case UICreatingWorkspace:
		return o.stepCreatingWorkspace(ev)
	case UIEditingTitleInList:
		return o.stepEditingTitleInList(ev)
	case UISubmittingTask, UISubmittingWorkspace, UISubmittingTitleInList, UISwitchingDatabase:
		// An effect is in flight; only its completion moves the region.
		return nil
	}

	// Data-region text-entry states capture editing events before normal-mode
	// handling.
	switch o.data {
	case DataEnteringGcalDuration, DataEnteringDuration:
		return o.stepDurationEntry(ev)
	}

	return o.stepNormal(ev)
}

func (o *Orchestrator) stepNormal(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvMoveUp:
		return o.moveSelection(c.SelectedIndex - 1)
	case EvMoveDown:
		return o.moveSelection(c.SelectedIndex + 1)
	case EvSelectIndex:
		return o.moveSelection(ev.Index)

	case EvTab:
		if o.ui == UIList {
			if hasSelectedTask(c) {
				o.ui = UIDetail
				o.lastNormal = UIDetail
			}
		} else if o.ui == UIDetail {
			o.ui = UIList
			o.lastNormal = UIList
		}
		return nil

	case EvOpenPalette:
		o.rememberNormal()
		o.ui = UICommandPalette
		c.PaletteFilter = ""
		c.PaletteIndex = 0
		return nil

	case EvOpenHelp:
		o.rememberNormal()
		o.ui = UIHelp
		return nil

	case EvStartPickDatabase:
		o.rememberNormal()
		o.ui = UIPickingDatabase
		return nil

	case EvStartSearch:
		o.rememberNormal()
		o.ui = UISearching
		return nil

	case EvStartCreateTask:
		o.rememberNormal()
		o.pendingParentID = nil
		c.Buffers.Title = ""
		o.ui = UICreatingTask
		return nil

	case EvStartCreateSubtask:
		if !canCreateSubtask(c) {
			return nil
		}
		o.rememberNormal()
		id := c.Tasks[c.SelectedIndex].ID
		o.pendingParentID = &id
		c.Buffers.Title = ""
		o.ui = UICreatingTask
		return nil

	case EvStartCreateWorkspace:
		o.rememberNormal()
		c.Buffers.Title = ""
		o.ui = UICreatingWorkspace
		return nil

	case EvStartEditTitleInList:
		if !canToggleStatus(c) {
			return nil
		}
		o.rememberNormal()
		c.Buffers.EditingTitle = c.Tasks[c.SelectedIndex].Title
		o.ui = UIEditingTitleInList
		return nil

	case EvStartEdit:
		return o.enterDetailEditing(ev.Mode)

	case EvToggleStatus:
		if !canToggleStatus(c) || o.data != DataReady {
			return nil
		}
		return o.issueData(DataTogglingStatus)

	case EvToggleProgress:
		if !canToggleStatus(c) || o.data != DataReady {
			return nil
		}
		return o.issueData(DataTogglingProgress)

	case EvReorder:
		if !canToggleStatus(c) || o.data != DataReady {
			return nil
		}
		o.reorderDir = ev.Dir
		return o.issueData(DataReordering)

	case EvDeleteTask:
		if !hasSelectedTask(c) || o.data != DataReady {
			return nil
		}
		return o.issueData(DataDeleting)

	case EvSyncPull:
		if o.data != DataReady {
			return nil
		}
		return o.issueData(DataSyncingPull)

	case EvSyncPush:
		if o.data != DataReady {
			return nil
		}
		return o.issueData(DataSyncingPush)

	case EvRetry:
		if o.data != DataError {
			return nil
		}
		return o.issueData(DataLoading)

	case EvStartGcalDuration:
		if !hasSelectedTask(c) || o.data != DataReady {
			return nil
		}
		c.Buffers.GcalDuration = formatHours(c.SelectedTask.DurationHours)
		o.data = DataEnteringGcalDuration
		return nil

	case EvStartDuration:
		if !hasSelectedTask(c) || o.data != DataReady {
			return nil
		}
		c.Buffers.Duration = formatHours(c.SelectedTask.DurationHours)
		o.data = DataEnteringDuration
		return nil

	case EvCancel:
		// In detail focus, cancel returns to the list.
		if o.ui == UIDetail {
			o.ui = UIList
			o.lastNormal = UIList
		}
		return nil
	}
	return nil
}

func (o *Orchestrator) rememberNormal() {
	if o.ui.normal() {
		o.lastNormal = o.ui
	}
}

func (o *Orchestrator) moveSelection(idx int) []EffectRequest {
	c := &o.ctx
	if !hasTasks(c) || o.data != DataReady {
		return nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.Tasks) {
		idx = len(c.Tasks) - 1
	}
	if idx == c.SelectedIndex && c.SelectedTask != nil && c.SelectedTask.ID == c.Tasks[idx].ID {
		return nil
	}
	c.SelectedIndex = idx
	return o.issueData(DataLoadingDetail)
}

// enterDetailEditing starts the sub-flow. Pre-populating the buffer from the
// selected task is the parent's job because it depends on parent context.
func (o *Orchestrator) enterDetailEditing(mode EditMode) []EffectRequest {
	c := &o.ctx
	if !hasSelectedTask(c) {
		return nil
	}
	task := *c.SelectedTask

	prefill := ""
	switch mode {
	case EditDescription:
		prefill = task.Description
	case EditTitle:
		prefill = task.Title
	case EditTags:
		prefill = strings.Join(task.Tags, ", ")
	case EditDueDate:
		prefill = task.Due.String()
	case EditRecurrence:
		prefill = task.Recurrence
	}
	o.seedBuffer(mode, prefill)

	o.rememberNormal()
	o.edit = newEditFlow(mode, task, prefill)
	c.EditingMode = o.edit.mode
	o.ui = UIDetailEditing
	c.Err = ""

	if o.edit.needsEntryEffect() {
		gen := o.nextGen()
		reqs := o.edit.start(gen)
		o.pendingEdit = &pendingEffect{gen: gen, req: reqs[0]}
		return reqs
	}
	return nil
}

// seedBuffer mirrors the sub-flow's pre-populated text into the parent form
// buffer for the field, clearing the stale value from any earlier flow.
func (o *Orchestrator) seedBuffer(mode EditMode, text string) {
	b := &o.ctx.Buffers
	switch mode {
	case EditComment:
		b.Comment = text
	case EditDescription:
		b.Description = text
	case EditTitle:
		b.Title = text
	case EditDueDate:
		b.DueDate = text
	case EditTags:
		b.Tags = text
	case EditRecurrence:
		b.Recurrence = text
	case EditProject:
		b.ProjectName = text
	}
}

func (o *Orchestrator) stepEditFlow(ev Event) []EffectRequest {
	if o.edit == nil {
		panic("session: detail editing active without a sub-flow")
	}

	// Keep the parent's buffer mirror current for selectors/rendering.
	if in, ok := ev.(EvInput); ok {
		o.seedBuffer(o.edit.mode, in.Text)
	}

	genFn := func() uint64 { return o.nextGen() }
	req, msgs := o.edit.step(ev, genFn)
	var out []EffectRequest
	if req != nil {
		o.pendingEdit = &pendingEffect{gen: req.Generation(), req: req}
		out = append(out, req)
	}
	out = append(out, o.drainEditMessages(msgs)...)
	return out
}

// drainEditMessages applies the sub-flow's completion protocol to the parent.
func (o *Orchestrator) drainEditMessages(msgs []editMessage) []EffectRequest {
	c := &o.ctx
	var out []EffectRequest
	for _, m := range msgs {
		switch m := m.(type) {
		case editProjectsLoaded:
			c.Projects = m.Projects
		case editProjectCreated:
			c.Projects = append(c.Projects, m.Project)
		case editCancelled:
			o.closeEditFlow()
		case editComplete:
			task := m.Task
			c.SelectedTask = &task
			if i := indexOfTask(c.Tasks, task.ID); i >= 0 {
				c.Tasks[i] = task.TaskSummary
			}
			c.Err = ""
			o.closeEditFlow()
			if m.Refresh {
				id := task.ID
				c.PendingSelectTaskID = &id
				out = append(out, o.reload()...)
			}
		}
	}
	return out
}

func (o *Orchestrator) closeEditFlow() {
	mode := EditNone
	if o.edit != nil {
		mode = o.edit.mode
	}
	o.edit = nil
	o.pendingEdit = nil
	o.ctx.EditingMode = EditNone
	o.clearBuffer(mode)
	o.ui = UIDetail
	o.lastNormal = UIDetail
}

func (o *Orchestrator) clearBuffer(mode EditMode) {
	b := &o.ctx.Buffers
	switch mode {
	case EditComment:
		b.Comment = ""
	case EditDescription:
		b.Description = ""
	case EditTitle:
		b.Title = ""
	case EditDueDate:
		b.DueDate = ""
	case EditTags:
		b.Tags = ""
	case EditRecurrence:
		b.Recurrence = ""
	case EditProject:
		b.ProjectName = ""
	}
}

func (o *Orchestrator) stepSearching(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvInput:
		if ev.Buffer == BufSearch {
			c.SearchQuery = ev.Text
		}
		return nil
	case EvSubmit:
		o.ui = o.lastNormal
		return o.reload()
	case EvCancel:
		o.ui = o.lastNormal
		if c.SearchQuery != "" {
			c.SearchQuery = ""
			return o.reload()
		}
		return nil
	}
	return nil
}

func (o *Orchestrator) stepCreatingTask(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvInput:
		if ev.Buffer == BufTitle {
			c.Buffers.Title = ev.Text
		}
		return nil
	case EvSubmit:
		if !validText(c.Buffers.Title) {
			return nil
		}
		return o.issueUI(UISubmittingTask)
	case EvCancel:
		c.Buffers.Title = ""
		o.pendingParentID = nil
		o.ui = o.lastNormal
		return nil
	}
	return nil
}

func (o *Orchestrator) stepCreatingWorkspace(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvInput:
		if ev.Buffer == BufTitle {
			c.Buffers.Title = ev.Text
		}
		return nil
	case EvSubmit:
		if !validText(c.Buffers.Title) {
			return nil
		}
		return o.issueUI(UISubmittingWorkspace)
	case EvCancel:
		c.Buffers.Title = ""
		o.ui = o.lastNormal
		return nil
	}
	return nil
}

func (o *Orchestrator) stepEditingTitleInList(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvInput:
		if ev.Buffer == BufEditingTitle {
			c.Buffers.EditingTitle = ev.Text
		}
		return nil
	case EvSubmit:
		if !validText(c.Buffers.EditingTitle) || !canToggleStatus(c) {
			return nil
		}
		return o.issueUI(UISubmittingTitleInList)
	case EvCancel:
		c.Buffers.EditingTitle = ""
		o.ui = o.lastNormal
		return nil
	}
	return nil
}

func (o *Orchestrator) stepPickDatabase(ev Event) []EffectRequest {
	switch ev := ev.(type) {
	case EvSelectDatabase:
		name := strings.TrimSpace(ev.Name)
		if name == "" || name == o.ctx.Database {
			o.ui = o.lastNormal
			return nil
		}
		o.pendingDatabase = name
		return o.issueUI(UISwitchingDatabase)
	case EvCancel:
		o.ui = o.lastNormal
		return nil
	}
	return nil
}

func (o *Orchestrator) stepDurationEntry(ev Event) []EffectRequest {
	c := &o.ctx
	gcal := o.data == DataEnteringGcalDuration
	switch ev := ev.(type) {
	case EvInput:
		if gcal && ev.Buffer == BufGcalDuration {
			c.Buffers.GcalDuration = ev.Text
		} else if !gcal && ev.Buffer == BufDuration {
			c.Buffers.Duration = ev.Text
		}
		return nil
	case EvSubmit:
		text := c.Buffers.Duration
		if gcal {
			text = c.Buffers.GcalDuration
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || hours <= 0 {
			// Validity guard: stay put, input preserved.
			return nil
		}
		o.pendingHours = hours
		if gcal {
			return o.issueData(DataSyncingToCalendar)
		}
		return o.issueData(DataUpdatingDuration)
	case EvCancel:
		if gcal {
			c.Buffers.GcalDuration = ""
		} else {
			c.Buffers.Duration = ""
		}
		o.data = DataReady
		return nil
	}
	return nil
}

// restoreSelection picks the highlighted index after a list reload, in
// priority order: the pending selection, the currently selected task, the
// persisted last selection, index 0.
func (o *Orchestrator) restoreSelection() {
	c := &o.ctx
	if len(c.Tasks) == 0 {
		c.SelectedIndex = 0
		c.SelectedTask = nil
		c.PendingSelectTaskID = nil
		return
	}
	idx := -1
	if c.PendingSelectTaskID != nil {
		idx = indexOfTask(c.Tasks, *c.PendingSelectTaskID)
	}
	if idx < 0 && c.SelectedTask != nil {
		idx = indexOfTask(c.Tasks, c.SelectedTask.ID)
	}
	if idx < 0 && c.LastSelectedTaskID != nil {
		idx = indexOfTask(c.Tasks, *c.LastSelectedTaskID)
	}
	if idx < 0 {
		idx = 0
	}
	c.SelectedIndex = idx
	c.PendingSelectTaskID = nil
}

func (o *Orchestrator) handleEffectDone(ev EvEffectDone) []EffectRequest {
	switch {
	case o.pendingEdit != nil && ev.Gen == o.pendingEdit.gen:
		errMsg := effectErr(ev, o.pendingEdit.req)
		o.pendingEdit = nil
		if o.edit == nil {
			return nil
		}
		msgs := o.edit.handleEffectDone(ev.Result, errMsg)
		return o.drainEditMessages(msgs)

	case o.pendingUI != nil && ev.Gen == o.pendingUI.gen:
		req := o.pendingUI.req
		o.pendingUI = nil
		return o.handleUIDone(ev, req)

	case o.pendingData != nil && ev.Gen == o.pendingData.gen:
		req := o.pendingData.req
		o.pendingData = nil
		return o.handleDataDone(ev, req)
	}
	// Stale: the owning state was exited before the result arrived.
	return nil
}

func effectErr(ev EvEffectDone, req EffectRequest) string {
	if ev.Result != nil {
		return ""
	}
	if strings.TrimSpace(ev.Err) != "" {
		return ev.Err
	}
	return req.FallbackError()
}

func (o *Orchestrator) handleDataDone(ev EvEffectDone, req EffectRequest) []EffectRequest {
	c := &o.ctx
	if msg := effectErr(ev, req); msg != "" {
		if o.data == DataLoading && !o.initialLoadDone {
			c.Err = msg
			o.data = DataError
			return nil
		}
		c.Err = msg
		o.data = DataReady
		return nil
	}

	switch res := ev.Result.(type) {
	case TasksLoaded:
		c.Tasks = res.Tasks
		o.initialLoadDone = true
		c.Err = ""
		o.restoreSelection()
		if len(c.Tasks) > 0 {
			return o.issueData(DataLoadingDetail)
		}
		o.data = DataReady
		return nil

	case TaskDetailLoaded:
		task := res.Task
		c.SelectedTask = &task
		id := task.ID
		c.LastSelectedTaskID = &id
		c.Err = ""
		o.data = DataReady
		return nil

	case StatusToggled:
		id := res.Task.ID
		if res.RecurringNextTaskID != nil {
			id = *res.RecurringNextTaskID
		}
		c.PendingSelectTaskID = &id
		c.Err = ""
		return o.reload()

	case ProgressToggled:
		o.applyTaskUpdate(res.Task)
		o.data = DataReady
		return nil

	case TaskReordered:
		o.data = DataReady
		if !res.Swapped {
			// Boundary. Not an error; selection stays put.
			return nil
		}
		id := res.TaskID
		c.PendingSelectTaskID = &id
		c.Err = ""
		return o.reload()

	case TaskDeleted:
		c.SelectedTask = nil
		c.Err = ""
		return o.reload()

	case SyncDone:
		o.data = DataReady
		if !res.Success {
			c.Err = res.Error
			return nil
		}
		c.Err = ""
		c.Status = "Sync " + res.Op + " done"
		if res.Op == "pull" {
			return o.reload()
		}
		return nil

	case CalendarSynced:
		o.data = DataReady
		if !res.Result.Success {
			c.Err = res.Result.Error
			return nil
		}
		c.Err = ""
		c.Buffers.GcalDuration = ""
		c.Status = "Synced to calendar (" + res.Result.Action + ")"
		return nil

	case TaskUpdated: // duration update
		o.applyTaskUpdate(res.Task)
		c.Buffers.Duration = ""
		c.Err = ""
		o.data = DataReady
		return nil
	}

	o.data = DataReady
	return nil
}

func (o *Orchestrator) applyTaskUpdate(task model.TaskDetail) {
	c := &o.ctx
	t := task
	if c.SelectedTask != nil && c.SelectedTask.ID == task.ID {
		c.SelectedTask = &t
	}
	if i := indexOfTask(c.Tasks, task.ID); i >= 0 {
		c.Tasks[i] = task.TaskSummary
	}
}

func (o *Orchestrator) handleUIDone(ev EvEffectDone, req EffectRequest) []EffectRequest {
	c := &o.ctx
	if msg := effectErr(ev, req); msg != "" {
		c.Err = msg
		// Back to the entry state; user input is preserved for resubmission.
		switch o.ui {
		case UISubmittingTask:
			o.ui = UICreatingTask
		case UISubmittingWorkspace:
			o.ui = UICreatingWorkspace
		case UISubmittingTitleInList:
			o.ui = UIEditingTitleInList
		case UISwitchingDatabase:
			o.ui = UIPickingDatabase
		}
		return nil
	}

	switch res := ev.Result.(type) {
	case TaskCreated:
		c.Buffers.Title = ""
		o.pendingParentID = nil
		id := res.Task.ID
		c.PendingSelectTaskID = &id
		c.Err = ""
		o.ui = UIList
		o.lastNormal = UIList
		return o.reload()

	case TaskUpdated: // inline title edit
		c.Buffers.EditingTitle = ""
		id := res.Task.ID
		c.PendingSelectTaskID = &id
		c.Err = ""
		o.ui = UIList
		o.lastNormal = UIList
		return o.reload()

	case WorkspaceCreated:
		c.Buffers.Title = ""
		c.Err = ""
		c.Status = "Workspace ready: " + res.Result.Name
		if indexOfString(c.Databases, res.Result.Name) < 0 {
			c.Databases = append(c.Databases, res.Result.Name)
		}
		o.ui = o.lastNormal
		return nil

	case DatabaseSwitched:
		c.Database = res.Name
		c.Tasks = nil
		c.SelectedTask = nil
		c.SelectedIndex = 0
		c.PendingSelectTaskID = nil
		c.SearchQuery = ""
		c.Err = ""
		c.Status = "Switched to " + res.Name
		o.ui = UIList
		o.lastNormal = UIList
		return o.reload()
	}

	return nil
}

func indexOfString(ss []string, s string) int {
	for i := range ss {
		if ss[i] == s {
			return i
		}
	}
	return -1
}

func formatHours(h *float64) string {
	if h == nil {
		return ""
	}
	return strconv.FormatFloat(*h, 'f', -1, 64)
}
