package tui

import (
	"context"
	"os"
	"time"

	"tackle-cli/internal/gitsync"
	"tackle-cli/internal/selstate"
	"tackle-cli/internal/session"
	"tackle-cli/internal/taskapi"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	gitPollInterval  = 5 * time.Second
	minibufferLinger = 2 * time.Second
)

type (
	gitStatusTickMsg struct{}
	gitStatusMsg     struct {
		seq    int
		status gitsync.Status
	}
	minibufferClearMsg struct{ seq int }
)

type appModel struct {
	orch      *session.Orchestrator
	runner    *effectRunner
	saver     *selstate.DebouncedSaver
	committer *gitsync.AutoCommitter

	keys    keyMap
	initCmd tea.Cmd

	width  int
	height int

	taskList   list.Model
	input      textinput.Model
	textarea   textarea.Model
	filePicker filepicker.Model
	spin       spinner.Model

	// prevMode lets Update seed inputs exactly once per mode entry.
	prevMode       session.Mode
	prevNamingProj bool
	pickIndex      int

	gitStatus    gitsync.Status
	gitStatusSeq int

	lastSavedID *int64
	lastSavedDB string

	minibufferText string
	minibufferSeq  int
}

func newAppModel(store *taskapi.Store, cal taskapi.Calendar, databases []string, persisted *selstate.State) appModel {
	runner := newEffectRunner(store, cal)

	orch, reqs := session.New(session.Options{
		LastSelectedTaskID: persisted.LastSelectedTaskID,
		Databases:          databases,
		Database:           store.Name(),
	})

	m := appModel{
		orch:      orch,
		runner:    runner,
		saver:     selstate.NewDebouncedSaver(store.Dir(), 0),
		committer: gitsync.NewAutoCommitter(store.Dir(), 0),
		keys:      defaultKeyMap(),
		taskList:  newTaskList(),
		prevMode:  session.ModeList,
	}

	m.input = textinput.New()
	m.input.CharLimit = 0
	m.input.Prompt = "> "

	m.textarea = textarea.New()
	m.textarea.Placeholder = "Write…"
	m.textarea.CharLimit = 0
	m.textarea.SetWidth(72)
	m.textarea.SetHeight(10)
	m.textarea.ShowLineNumbers = false

	m.spin = spinner.New(spinner.WithSpinner(spinner.Dot))

	var cmds []tea.Cmd
	for _, req := range reqs {
		cmds = append(cmds, m.runner.cmd(req))
	}
	cmds = append(cmds, m.spin.Tick, pollGitStatus())
	m.initCmd = tea.Batch(cmds...)
	return m
}

func pollGitStatus() tea.Cmd {
	return tea.Tick(gitPollInterval, func(time.Time) tea.Msg { return gitStatusTickMsg{} })
}

func (m appModel) Init() tea.Cmd { return m.initCmd }

func (m appModel) snapshot() session.Snapshot { return m.orch.Snapshot() }

// deliver feeds one event into the orchestrator and schedules the resulting
// effects.
func (m *appModel) deliver(ev session.Event) tea.Cmd {
	return m.afterStep(m.orch.Step(ev))
}

func (m *appModel) afterStep(reqs []session.EffectRequest) tea.Cmd {
	var cmds []tea.Cmd
	for _, req := range reqs {
		cmds = append(cmds, m.runner.cmd(req))
	}

	snap := m.snapshot()
	m.syncTaskList(snap)
	if cmd := m.syncInputs(snap); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.persistSelection(snap)

	if session.IsLoading(snap) || session.IsSyncing(snap) {
		cmds = append(cmds, m.spin.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *appModel) syncTaskList(snap session.Snapshot) {
	items := make([]list.Item, 0, len(snap.Context.Tasks))
	for _, t := range snap.Context.Tasks {
		items = append(items, taskRowItem{task: t})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(snap.Context.SelectedIndex)
	}
}

// syncInputs seeds the text components when a text-entry mode is entered and
// blurs them when it is left. The orchestrator's buffers stay authoritative;
// the components only echo them.
func (m *appModel) syncInputs(snap session.Snapshot) tea.Cmd {
	mode := session.CurrentMode(snap)
	naming := snap.EditNamingProject
	if mode == m.prevMode && naming == m.prevNamingProj {
		return nil
	}
	m.prevMode = mode
	m.prevNamingProj = naming
	m.pickIndex = 0

	switch {
	case usesTextarea(mode):
		m.textarea.SetValue(seedText(snap, mode))
		m.textarea.Focus()
	case usesTextInput(mode) || naming:
		m.input.SetValue(seedText(snap, mode))
		m.input.CursorEnd()
		m.input.Focus()
	default:
		m.input.Blur()
		m.input.SetValue("")
		m.textarea.Blur()
		m.textarea.SetValue("")
	}

	if mode == session.ModeEditAttachment {
		m.filePicker = filepicker.New()
		if home, err := os.UserHomeDir(); err == nil {
			m.filePicker.CurrentDirectory = home
		}
		m.filePicker.Height = max(6, m.height-8)
		return m.filePicker.Init()
	}
	return nil
}

// persistSelection mirrors the highlighted task and active database into the
// debounced UI-state file.
func (m *appModel) persistSelection(snap session.Snapshot) {
	var id *int64
	if i := snap.Context.SelectedIndex; i >= 0 && i < len(snap.Context.Tasks) {
		v := snap.Context.Tasks[i].ID
		id = &v
	}
	db := snap.Context.Database

	if db == m.lastSavedDB && int64PtrEq(id, m.lastSavedID) {
		return
	}
	m.lastSavedID = id
	m.lastSavedDB = db
	m.saver.Notify(selstate.State{
		Version:            1,
		LastSelectedTaskID: id,
		Database:           db,
	})
}

func int64PtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeComponents()
		return m, nil

	case effectMsg:
		cmd := m.applyEffect(msg)
		return m, cmd

	case spinner.TickMsg:
		snap := m.snapshot()
		if !session.IsLoading(snap) && !session.IsSyncing(snap) {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case gitStatusTickMsg:
		m.gitStatusSeq++
		seq := m.gitStatusSeq
		dir := m.runner.workspaceDir()
		return m, tea.Batch(fetchGitStatus(seq, dir), pollGitStatus())

	case gitStatusMsg:
		// Drop stale polls; only the latest reflects the current workspace.
		if msg.seq == m.gitStatusSeq {
			m.gitStatus = msg.status
		}
		return m, nil

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Remaining messages belong to the file picker (its reads complete
	// asynchronously).
	if session.CurrentMode(m.snapshot()) == session.ModeEditAttachment {
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) applyEffect(msg effectMsg) tea.Cmd {
	cmd := m.afterStep(m.orch.Step(msg.ev))

	if msg.ev.Err == "" {
		if isMutation(msg.ev.Result) {
			m.committer.Notify("tackle: update tasks")
		}
		// The state file and auto-commits follow the active workspace.
		if _, ok := msg.ev.Result.(session.DatabaseSwitched); ok {
			_ = m.saver.Flush()
			dir := m.runner.workspaceDir()
			m.saver = selstate.NewDebouncedSaver(dir, 0)
			m.committer = gitsync.NewAutoCommitter(dir, 0)
		}
	}
	return cmd
}

// isMutation reports whether an effect result changed the store, i.e. is
// worth an auto-commit.
func isMutation(res session.EffectResult) bool {
	switch res.(type) {
	case session.TaskCreated, session.TaskUpdated, session.TaskDeleted,
		session.StatusToggled, session.ProgressToggled, session.TaskReordered,
		session.CommentAdded, session.AttachmentAdded, session.TagsSet,
		session.ProjectCreatedAndAssigned, session.WorkspaceCreated:
		return true
	}
	return false
}

func fetchGitStatus(seq int, dir string) tea.Cmd {
	return func() tea.Msg {
		st, err := gitsync.GetStatus(context.Background(), dir)
		if err != nil {
			return gitStatusMsg{seq: seq}
		}
		return gitStatusMsg{seq: seq, status: st}
	}
}

func (m *appModel) resizeComponents() {
	listW, _, contentH := m.layout()
	m.taskList.SetSize(listW, contentH)
	m.textarea.SetWidth(min(72, m.width-6))
	m.filePicker.Height = max(6, m.height-8)
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.minibufferSeq++
	seq := m.minibufferSeq
	return tea.Tick(minibufferLinger, func(time.Time) tea.Msg { return minibufferClearMsg{seq: seq} })
}

func (m *appModel) shutdown() {
	_ = m.saver.Flush()
}

func usesTextInput(mode session.Mode) bool {
	switch mode {
	case session.ModeCreatingTask, session.ModeCreatingWS, session.ModeEditingTitleList,
		session.ModeSearching, session.ModePalette,
		session.ModeEnteringDuration, session.ModeEnteringGcalDuration,
		session.ModeEditTitle, session.ModeEditDueDate, session.ModeEditTags,
		session.ModeEditRecurrence:
		return true
	}
	return false
}

func usesTextarea(mode session.Mode) bool {
	return mode == session.ModeEditDescription || mode == session.ModeEditComment
}

func isPickerMode(mode session.Mode, snap session.Snapshot) bool {
	switch mode {
	case session.ModeEditStatus, session.ModeEditPriority, session.ModePickingDatabase:
		return true
	case session.ModeEditProject:
		return snap.EditPickingProject
	}
	return false
}

// bufferFor maps a text-entry mode to the orchestrator buffer its EvInput
// targets. The edit sub-flow keys off its own mode, but a correct tag keeps
// tracing sane.
func bufferFor(mode session.Mode, naming bool) session.Buffer {
	if naming {
		return session.BufProjectName
	}
	switch mode {
	case session.ModeCreatingTask, session.ModeCreatingWS, session.ModeEditTitle:
		return session.BufTitle
	case session.ModeEditingTitleList:
		return session.BufEditingTitle
	case session.ModeSearching:
		return session.BufSearch
	case session.ModePalette:
		return session.BufPaletteFilter
	case session.ModeEnteringDuration:
		return session.BufDuration
	case session.ModeEnteringGcalDuration:
		return session.BufGcalDuration
	case session.ModeEditDescription:
		return session.BufDescription
	case session.ModeEditComment:
		return session.BufComment
	case session.ModeEditDueDate:
		return session.BufDueDate
	case session.ModeEditTags:
		return session.BufTags
	case session.ModeEditRecurrence:
		return session.BufRecurrence
	}
	return session.BufTitle
}

// seedText is the initial component content when a text mode is entered.
func seedText(snap session.Snapshot, mode session.Mode) string {
	if snap.EditNamingProject {
		return snap.EditText
	}
	switch mode {
	case session.ModeEditTitle, session.ModeEditDescription, session.ModeEditComment,
		session.ModeEditDueDate, session.ModeEditTags, session.ModeEditRecurrence:
		return snap.EditText
	case session.ModeCreatingTask, session.ModeCreatingWS:
		return snap.Context.Buffers.Title
	case session.ModeEditingTitleList:
		return snap.Context.Buffers.EditingTitle
	case session.ModeSearching:
		return snap.Context.SearchQuery
	case session.ModePalette:
		return snap.Context.PaletteFilter
	case session.ModeEnteringDuration:
		return snap.Context.Buffers.Duration
	case session.ModeEnteringGcalDuration:
		return snap.Context.Buffers.GcalDuration
	}
	return ""
}
