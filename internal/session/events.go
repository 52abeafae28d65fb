package session

import (
	"tackle-cli/internal/model"
	"tackle-cli/internal/taskapi"
)

// Event is one named input to the orchestrator. Events come from the key
// resolver (UI intents, already mapped from raw keystrokes) or from the
// effect runner (completions). The orchestrator never sees raw input.
type Event interface{ isEvent() }

// Buffer identifies one of the form buffers an EvInput targets.
type Buffer int

const (
	BufTitle Buffer = iota
	BufDescription
	BufComment
	BufDueDate
	BufTags
	BufRecurrence
	BufProjectName
	BufDuration
	BufGcalDuration
	BufEditingTitle
	BufSearch
	BufPaletteFilter
)

// Navigation and focus.
type (
	EvMoveUp      struct{}
	EvMoveDown    struct{}
	EvSelectIndex struct{ Index int }
	EvTab         struct{}
)

// Mode entry.
type (
	EvOpenPalette          struct{}
	EvOpenHelp             struct{}
	EvStartSearch          struct{}
	EvStartPickDatabase    struct{}
	EvStartCreateTask      struct{}
	EvStartCreateSubtask   struct{}
	EvStartCreateWorkspace struct{}
	EvStartEditTitleInList struct{}
	EvStartGcalDuration    struct{}
	EvStartDuration        struct{}

	// EvStartEdit enters the detail-editing sub-flow for one field.
	EvStartEdit struct{ Mode EditMode }
)

// Direct task operations (normal mode).
type (
	EvToggleStatus   struct{}
	EvToggleProgress struct{}
	EvDeleteTask     struct{}
	EvReorder        struct{ Dir taskapi.Direction }
	EvSyncPull       struct{}
	EvSyncPush       struct{}

	// EvRetry re-runs the initial load after it failed.
	EvRetry struct{}
)

// Generic editing events (the UPDATE_* / SUBMIT / CANCEL family).
type (
	EvInput  struct {
		Buffer Buffer
		Text   string
	}
	EvSubmit struct{}
	EvCancel struct{}
)

// Selection-field events (the SELECT_* family).
type (
	EvSelectStatus     struct{ Status model.Status }
	EvSelectPriority   struct{ Priority model.Priority }
	EvSelectProject    struct{ ProjectID int64 }
	EvStartNewProject  struct{}
	EvSelectAttachment struct{ Path string }
	EvSelectDatabase   struct{ Name string }
	EvPaletteMove      struct{ Delta int }
)

// EvEffectDone delivers an effect result back into the orchestrator. Gen is
// the generation the request carried; results from generations that are no
// longer pending are dropped as stale.
type EvEffectDone struct {
	Gen    uint64
	Result EffectResult
	Err    string
}

func (EvMoveUp) isEvent()               {}
func (EvMoveDown) isEvent()             {}
func (EvSelectIndex) isEvent()          {}
func (EvTab) isEvent()                  {}
func (EvOpenPalette) isEvent()          {}
func (EvOpenHelp) isEvent()             {}
func (EvStartSearch) isEvent()          {}
func (EvStartPickDatabase) isEvent()    {}
func (EvStartCreateTask) isEvent()      {}
func (EvStartCreateSubtask) isEvent()   {}
func (EvStartCreateWorkspace) isEvent() {}
func (EvStartEditTitleInList) isEvent() {}
func (EvStartGcalDuration) isEvent()    {}
func (EvStartDuration) isEvent()        {}
func (EvStartEdit) isEvent()            {}
func (EvToggleStatus) isEvent()         {}
func (EvToggleProgress) isEvent()       {}
func (EvDeleteTask) isEvent()           {}
func (EvReorder) isEvent()              {}
func (EvSyncPull) isEvent()             {}
func (EvSyncPush) isEvent()             {}
func (EvRetry) isEvent()                {}
func (EvInput) isEvent()                {}
func (EvSubmit) isEvent()               {}
func (EvCancel) isEvent()               {}
func (EvSelectStatus) isEvent()         {}
func (EvSelectPriority) isEvent()       {}
func (EvSelectProject) isEvent()        {}
func (EvStartNewProject) isEvent()      {}
func (EvSelectAttachment) isEvent()     {}
func (EvSelectDatabase) isEvent()       {}
func (EvPaletteMove) isEvent()          {}
func (EvEffectDone) isEvent()           {}
