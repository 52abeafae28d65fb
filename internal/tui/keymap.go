package tui

import (
	"tackle-cli/internal/session"
	"tackle-cli/internal/taskapi"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	Quit     key.Binding
	Palette  key.Binding
	Help     key.Binding
	Search   key.Binding
	Refresh  key.Binding

	Create      key.Binding
	CreateSub   key.Binding
	EditTitle   key.Binding
	Delete      key.Binding
	ToggleDone  key.Binding
	ToggleWork  key.Binding
	MoveTaskUp  key.Binding
	MoveTaskDn  key.Binding

	EditDescription key.Binding
	AddComment      key.Binding
	ChangeStatus    key.Binding
	ChangePriority  key.Binding
	ChangeProject   key.Binding
	SetDue          key.Binding
	EditTags        key.Binding
	SetRecurrence   key.Binding
	AddAttachment   key.Binding
	SetDuration     key.Binding

	SyncPull     key.Binding
	SyncPush     key.Binding
	SyncCalendar key.Binding

	PickDatabase    key.Binding
	CreateWorkspace key.Binding
	CopyRef         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k", "ctrl+p"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j", "ctrl+n"), key.WithHelp("↓/j", "down")),
		Tab:     key.NewBinding(key.WithKeys("tab", "enter"), key.WithHelp("tab", "list/detail")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Palette: key.NewBinding(key.WithKeys(":", "ctrl+k"), key.WithHelp(":", "palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),

		Create:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		CreateSub:  key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new subtask")),
		EditTitle:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit title")),
		Delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		ToggleDone: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		ToggleWork: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle in progress")),
		MoveTaskUp: key.NewBinding(key.WithKeys("K", "alt+up"), key.WithHelp("K", "move up")),
		MoveTaskDn: key.NewBinding(key.WithKeys("J", "alt+down"), key.WithHelp("J", "move down")),

		EditDescription: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "description")),
		AddComment:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
		ChangeStatus:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		ChangePriority:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		ChangeProject:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "project")),
		SetDue:          key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "due date")),
		EditTags:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tags")),
		SetRecurrence:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recurrence")),
		AddAttachment:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "attachment")),
		SetDuration:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "duration")),

		SyncPull:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "git pull")),
		SyncPush:     key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "git push")),
		SyncCalendar: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "sync to calendar")),

		PickDatabase:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "switch database")),
		CreateWorkspace: key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "new workspace")),
		CopyRef:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy ref")),
	}
}

// resolveNormalKey maps a keypress in the normal list/detail state to a
// session event. The second return is false when the key is not bound (or is
// handled by the app model itself, like quit and copy).
func (k keyMap) resolveNormalKey(msg tea.KeyMsg) (session.Event, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return session.EvMoveUp{}, true
	case key.Matches(msg, k.Down):
		return session.EvMoveDown{}, true
	case key.Matches(msg, k.Tab):
		return session.EvTab{}, true
	case key.Matches(msg, k.Palette):
		return session.EvOpenPalette{}, true
	case key.Matches(msg, k.Help):
		return session.EvOpenHelp{}, true
	case key.Matches(msg, k.Search):
		return session.EvStartSearch{}, true
	case key.Matches(msg, k.Create):
		return session.EvStartCreateTask{}, true
	case key.Matches(msg, k.CreateSub):
		return session.EvStartCreateSubtask{}, true
	case key.Matches(msg, k.EditTitle):
		return session.EvStartEditTitleInList{}, true
	case key.Matches(msg, k.Delete):
		return session.EvDeleteTask{}, true
	case key.Matches(msg, k.ToggleDone):
		return session.EvToggleStatus{}, true
	case key.Matches(msg, k.ToggleWork):
		return session.EvToggleProgress{}, true
	case key.Matches(msg, k.MoveTaskUp):
		return session.EvReorder{Dir: taskapi.DirectionUp}, true
	case key.Matches(msg, k.MoveTaskDn):
		return session.EvReorder{Dir: taskapi.DirectionDown}, true
	case key.Matches(msg, k.EditDescription):
		return session.EvStartEdit{Mode: session.EditDescription}, true
	case key.Matches(msg, k.AddComment):
		return session.EvStartEdit{Mode: session.EditComment}, true
	case key.Matches(msg, k.ChangeStatus):
		return session.EvStartEdit{Mode: session.EditStatus}, true
	case key.Matches(msg, k.ChangePriority):
		return session.EvStartEdit{Mode: session.EditPriority}, true
	case key.Matches(msg, k.ChangeProject):
		return session.EvStartEdit{Mode: session.EditProject}, true
	case key.Matches(msg, k.SetDue):
		return session.EvStartEdit{Mode: session.EditDueDate}, true
	case key.Matches(msg, k.EditTags):
		return session.EvStartEdit{Mode: session.EditTags}, true
	case key.Matches(msg, k.SetRecurrence):
		return session.EvStartEdit{Mode: session.EditRecurrence}, true
	case key.Matches(msg, k.AddAttachment):
		return session.EvStartEdit{Mode: session.EditAttachment}, true
	case key.Matches(msg, k.SetDuration):
		return session.EvStartDuration{}, true
	case key.Matches(msg, k.SyncPull):
		return session.EvSyncPull{}, true
	case key.Matches(msg, k.SyncPush):
		return session.EvSyncPush{}, true
	case key.Matches(msg, k.SyncCalendar):
		return session.EvStartGcalDuration{}, true
	case key.Matches(msg, k.PickDatabase):
		return session.EvStartPickDatabase{}, true
	case key.Matches(msg, k.CreateWorkspace):
		return session.EvStartCreateWorkspace{}, true
	}
	return nil, false
}
