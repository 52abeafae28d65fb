package tui

import (
	"tackle-cli/internal/model"
	"tackle-cli/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var statusPickEntries = []model.Status{
	model.StatusTodo,
	model.StatusInProgress,
	model.StatusDone,
}

var priorityPickEntries = []model.Priority{
	model.PriorityNone,
	model.PriorityLow,
	model.PriorityMedium,
	model.PriorityHigh,
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}

	snap := m.snapshot()
	mode := session.CurrentMode(snap)
	debugLogf("key mode=%s str=%q type=%v alt=%v", mode, msg.String(), msg.Type, msg.Alt)

	switch {
	case mode == session.ModeError:
		return m.updateErrorKey(msg)

	case mode == session.ModeHelp:
		switch msg.String() {
		case "esc", "q", "?", "enter":
			return m, m.deliver(session.EvCancel{})
		}
		return m, nil

	case submitting(mode, snap):
		// A submit is in flight; swallow input until it completes.
		return m, nil

	case mode == session.ModePalette:
		return m.updatePaletteKey(msg)

	case mode == session.ModeEditAttachment:
		return m.updateFilePickerKey(msg)

	case isPickerMode(mode, snap):
		return m.updatePickerKey(msg, mode, snap)

	case usesTextarea(mode):
		return m.updateTextareaKey(msg, mode)

	case usesTextInput(mode) || snap.EditNamingProject:
		return m.updateTextInputKey(msg, mode, snap)
	}

	return m.updateNormalKey(msg, snap)
}

func submitting(mode session.Mode, snap session.Snapshot) bool {
	if snap.EditSubmitting {
		return true
	}
	switch mode {
	case session.ModeSubmittingTask, session.ModeSubmittingWS,
		session.ModeSubmitTitleList, session.ModeSwitchingDB:
		return true
	}
	return false
}

func (m appModel) updateErrorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r", "enter":
		return m, m.deliver(session.EvRetry{})
	case "q":
		m.shutdown()
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updatePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.deliver(session.EvCancel{})
	case "enter":
		return m, m.deliver(session.EvSubmit{})
	case "up", "ctrl+p":
		return m, m.deliver(session.EvPaletteMove{Delta: -1})
	case "down", "ctrl+n":
		return m, m.deliver(session.EvPaletteMove{Delta: 1})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	ev := session.EvInput{Buffer: session.BufPaletteFilter, Text: m.input.Value()}
	return m, tea.Batch(cmd, m.deliver(ev))
}

func (m appModel) updateFilePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m, m.deliver(session.EvCancel{})
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)
	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, m.deliver(session.EvSelectAttachment{Path: path}))
	}
	return m, cmd
}

func (m appModel) updatePickerKey(msg tea.KeyMsg, mode session.Mode, snap session.Snapshot) (tea.Model, tea.Cmd) {
	entries := pickerLen(mode, snap)

	switch msg.String() {
	case "esc":
		return m, m.deliver(session.EvCancel{})
	case "up", "k", "ctrl+p":
		if m.pickIndex > 0 {
			m.pickIndex--
		}
		return m, nil
	case "down", "j", "ctrl+n":
		if m.pickIndex < entries-1 {
			m.pickIndex++
		}
		return m, nil
	case "enter":
		return m, m.pickerAccept(mode, snap)
	}
	return m, nil
}

func pickerLen(mode session.Mode, snap session.Snapshot) int {
	switch mode {
	case session.ModeEditStatus:
		return len(statusPickEntries)
	case session.ModeEditPriority:
		return len(priorityPickEntries)
	case session.ModeEditProject:
		// Leading "new project" entry plus the loaded list.
		return len(snap.Context.Projects) + 1
	case session.ModePickingDatabase:
		return len(snap.Context.Databases)
	}
	return 0
}

func (m *appModel) pickerAccept(mode session.Mode, snap session.Snapshot) tea.Cmd {
	idx := m.pickIndex
	switch mode {
	case session.ModeEditStatus:
		if idx < len(statusPickEntries) {
			return m.deliver(session.EvSelectStatus{Status: statusPickEntries[idx]})
		}
	case session.ModeEditPriority:
		if idx < len(priorityPickEntries) {
			return m.deliver(session.EvSelectPriority{Priority: priorityPickEntries[idx]})
		}
	case session.ModeEditProject:
		if idx == 0 {
			return m.deliver(session.EvStartNewProject{})
		}
		if idx-1 < len(snap.Context.Projects) {
			return m.deliver(session.EvSelectProject{ProjectID: snap.Context.Projects[idx-1].ID})
		}
	case session.ModePickingDatabase:
		if idx < len(snap.Context.Databases) {
			return m.deliver(session.EvSelectDatabase{Name: snap.Context.Databases[idx]})
		}
	}
	return nil
}

func (m appModel) updateTextareaKey(msg tea.KeyMsg, mode session.Mode) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.deliver(session.EvCancel{})
	case "ctrl+d", "ctrl+s":
		return m, m.deliver(session.EvSubmit{})
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	ev := session.EvInput{Buffer: bufferFor(mode, false), Text: m.textarea.Value()}
	return m, tea.Batch(cmd, m.deliver(ev))
}

func (m appModel) updateTextInputKey(msg tea.KeyMsg, mode session.Mode, snap session.Snapshot) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.deliver(session.EvCancel{})
	case "enter":
		return m, m.deliver(session.EvSubmit{})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	ev := session.EvInput{
		Buffer: bufferFor(mode, snap.EditNamingProject),
		Text:   m.input.Value(),
	}
	return m, tea.Batch(cmd, m.deliver(ev))
}

func (m appModel) updateNormalKey(msg tea.KeyMsg, snap session.Snapshot) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		// Re-enter detail via a selection step; the orchestrator reloads on
		// index changes, so re-selecting the same index is the cheap refresh.
		return m, m.deliver(session.EvSelectIndex{Index: snap.Context.SelectedIndex})

	case key.Matches(msg, m.keys.CopyRef):
		return m, m.copySelectedRef(snap)

	case msg.String() == "esc":
		return m, m.deliver(session.EvCancel{})
	}

	if ev, ok := m.keys.resolveNormalKey(msg); ok {
		return m, m.deliver(ev)
	}
	return m, nil
}
