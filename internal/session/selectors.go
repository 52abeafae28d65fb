package session

// Snapshot is the read-only view of the orchestrator a renderer consumes.
// Slices are shared with the live context and must be treated as immutable.
type Snapshot struct {
	Data       DataState
	UI         UIState
	LastNormal UIState

	// Sub-flow exposure: EditMode is EditNone unless the UI region is in
	// detail editing.
	EditMode           EditMode
	EditText           string
	EditErr            string
	EditSubmitting     bool
	EditPickingProject bool
	EditNamingProject  bool

	Context Context
}

func (o *Orchestrator) Snapshot() Snapshot {
	s := Snapshot{
		Data:       o.data,
		UI:         o.ui,
		LastNormal: o.lastNormal,
		Context:    o.ctx,
	}
	if o.edit != nil {
		if o.ui != UIDetailEditing {
			panic("session: sub-flow alive outside detail editing")
		}
		s.EditMode = o.edit.mode
		s.EditText = o.edit.text
		s.EditErr = o.edit.errMsg
		s.EditSubmitting = o.edit.state == editStateSubmitting || o.edit.state == editStateSubmittingProject
		s.EditPickingProject = o.edit.state == editStatePickingProject
		s.EditNamingProject = o.edit.state == editStateProjectName
	}
	return s
}

// Mode is the closed set of parent-visible UI modes, covering every leaf
// state plus a per-field mapping of the sub-flow.
type Mode string

const (
	ModeList             Mode = "list"
	ModeDetail           Mode = "detail"
	ModePalette          Mode = "palette"
	ModeHelp             Mode = "help"
	ModePickingDatabase  Mode = "pickingDatabase"
	ModeSwitchingDB      Mode = "switchingDatabase"
	ModeSearching        Mode = "searching"
	ModeCreatingTask     Mode = "creatingTask"
	ModeSubmittingTask   Mode = "submittingTask"
	ModeCreatingWS       Mode = "creatingWorkspace"
	ModeSubmittingWS     Mode = "submittingWorkspace"
	ModeEditingTitleList Mode = "editingTitleInList"
	ModeSubmitTitleList  Mode = "submittingTitleInList"
	ModeError            Mode = "error"

	ModeEditComment     Mode = "editComment"
	ModeEditDescription Mode = "editDescription"
	ModeEditTitle       Mode = "editTitle"
	ModeEditStatus      Mode = "editStatus"
	ModeEditPriority    Mode = "editPriority"
	ModeEditProject     Mode = "editProject"
	ModeEditDueDate     Mode = "editDueDate"
	ModeEditTags        Mode = "editTags"
	ModeEditRecurrence  Mode = "editRecurrence"
	ModeEditAttachment  Mode = "editAttachment"

	ModeEnteringDuration     Mode = "enteringDuration"
	ModeEnteringGcalDuration Mode = "enteringGcalDuration"
)

// CurrentMode projects a snapshot to the single mode the renderer paints.
func CurrentMode(s Snapshot) Mode {
	// A fatal initial-load failure takes over the whole screen.
	if s.Data == DataError {
		return ModeError
	}

	switch s.UI {
	case UICommandPalette:
		return ModePalette
	case UIHelp:
		return ModeHelp
	case UIPickingDatabase:
		return ModePickingDatabase
	case UISwitchingDatabase:
		return ModeSwitchingDB
	case UISearching:
		return ModeSearching
	case UICreatingTask:
		return ModeCreatingTask
	case UISubmittingTask:
		return ModeSubmittingTask
	case UICreatingWorkspace:
		return ModeCreatingWS
	case UISubmittingWorkspace:
		return ModeSubmittingWS
	case UIEditingTitleInList:
		return ModeEditingTitleList
	case UISubmittingTitleInList:
		return ModeSubmitTitleList
	case UIDetailEditing:
		return editModeToMode(s.EditMode)
	}

	switch s.Data {
	case DataEnteringDuration:
		return ModeEnteringDuration
	case DataEnteringGcalDuration:
		return ModeEnteringGcalDuration
	}

	if s.UI == UIDetail {
		return ModeDetail
	}
	return ModeList
}

func editModeToMode(m EditMode) Mode {
	switch m {
	case EditComment:
		return ModeEditComment
	case EditDescription:
		return ModeEditDescription
	case EditTitle:
		return ModeEditTitle
	case EditStatus:
		return ModeEditStatus
	case EditPriority:
		return ModeEditPriority
	case EditProject:
		return ModeEditProject
	case EditDueDate:
		return ModeEditDueDate
	case EditTags:
		return ModeEditTags
	case EditRecurrence:
		return ModeEditRecurrence
	case EditAttachment:
		return ModeEditAttachment
	}
	return ModeDetail
}

// Panel is the focused half of the normal view.
type Panel string

const (
	PanelList   Panel = "list"
	PanelDetail Panel = "detail"
)

// FocusPanel reports which panel owns focus; overlays keep the focus of the
// normal sub-state they were opened from.
func FocusPanel(s Snapshot) Panel {
	st := s.UI
	if !st.normal() {
		st = s.LastNormal
	}
	if st == UIDetail {
		return PanelDetail
	}
	return PanelList
}

// IsLoading reports whether a data-region effect is in flight.
func IsLoading(s Snapshot) bool {
	switch s.Data {
	case DataLoading, DataLoadingDetail, DataTogglingStatus, DataTogglingProgress,
		DataReordering, DataDeleting, DataUpdatingDuration:
		return true
	}
	return false
}

// IsSyncing reports an in-flight git or calendar sync.
func IsSyncing(s Snapshot) bool {
	switch s.Data {
	case DataSyncingPull, DataSyncingPush, DataSyncingToCalendar:
		return true
	}
	return false
}

// IsEditing reports whether any text-entry flow is active.
func IsEditing(s Snapshot) bool {
	switch s.UI {
	case UIDetailEditing, UICreatingTask, UICreatingWorkspace, UIEditingTitleInList, UISearching:
		return true
	}
	switch s.Data {
	case DataEnteringDuration, DataEnteringGcalDuration:
		return true
	}
	return false
}

func IsSearching(s Snapshot) bool { return s.UI == UISearching }

// HasActiveFilter reports whether the visible list is narrowed by a search.
func HasActiveFilter(s Snapshot) bool { return s.Context.SearchQuery != "" }
