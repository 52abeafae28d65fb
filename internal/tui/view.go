package tui

import (
	"fmt"
	"strings"

	"tackle-cli/internal/model"
	"tackle-cli/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	minSplitW    = 100
	maxDetailW   = 72
	chromeHeight = 4 // breadcrumb + blank + footer + status line
)

// layout returns the widths of the two panels and the content height.
// Below minSplitW only the focused panel is shown.
func (m *appModel) layout() (listW, detailW, contentH int) {
	contentH = max(4, m.height-chromeHeight)
	if m.width < minSplitW {
		return m.width, m.width, contentH
	}
	detailW = min(maxDetailW, m.width/2)
	listW = m.width - detailW - 2
	return listW, detailW, contentH
}

func (m appModel) View() string {
	if m.width == 0 {
		return "Starting…"
	}
	snap := m.snapshot()
	mode := session.CurrentMode(snap)

	if mode == session.ModeError {
		return m.viewErrorScreen(snap)
	}

	var b strings.Builder
	b.WriteString(m.viewBreadcrumb(snap))
	b.WriteString("\n\n")

	switch {
	case mode == session.ModePalette:
		b.WriteString(m.viewPalette(snap))
	case mode == session.ModeHelp:
		b.WriteString(m.viewHelp())
	case mode == session.ModeEditAttachment:
		b.WriteString(m.viewFilePicker())
	case isPickerMode(mode, snap):
		b.WriteString(m.viewPicker(mode, snap))
	case usesTextarea(mode):
		b.WriteString(m.viewTextareaModal(mode, snap))
	case usesTextInput(mode) || snap.EditNamingProject:
		b.WriteString(m.viewInputModal(mode, snap))
	default:
		b.WriteString(m.viewPanels(snap))
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter(snap, mode))
	return b.String()
}

func (m appModel) viewBreadcrumb(snap session.Snapshot) string {
	left := styleAccent().Bold(true).Render("tackle")
	if db := strings.TrimSpace(snap.Context.Database); db != "" {
		left += styleMuted().Render(" · " + db)
	}
	if session.HasActiveFilter(snap) {
		left += styleMuted().Render("  /" + snap.Context.SearchQuery)
	}

	right := m.viewGitSegment()
	if session.IsLoading(snap) || session.IsSyncing(snap) {
		right = m.spin.View() + " " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) viewGitSegment() string {
	st := m.gitStatus
	if !st.IsRepo {
		return ""
	}
	parts := []string{st.Branch}
	if st.Dirty {
		parts = append(parts, "*")
	}
	if st.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("↑%d", st.Ahead))
	}
	if st.Behind > 0 {
		parts = append(parts, fmt.Sprintf("↓%d", st.Behind))
	}
	if st.InProgress {
		parts = append(parts, st.InProgressKind)
	}
	return styleMuted().Render(strings.Join(parts, " "))
}

func (m appModel) viewPanels(snap session.Snapshot) string {
	listW, detailW, contentH := m.layout()
	focus := session.FocusPanel(snap)

	listPanel := m.viewTaskPanel(snap, listW, contentH, focus == session.PanelList)
	if m.width < minSplitW {
		if focus == session.PanelDetail {
			return m.viewDetail(snap, detailW, contentH)
		}
		return listPanel
	}

	detail := m.viewDetail(snap, detailW, contentH)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPanel, "  ", detail)
}

func (m appModel) viewTaskPanel(snap session.Snapshot, w, h int, focused bool) string {
	if len(snap.Context.Tasks) == 0 {
		empty := "No tasks. Press n to create one."
		if session.HasActiveFilter(snap) {
			empty = "No tasks match the search."
		}
		return lipgloss.NewStyle().Width(w).Height(h).Render(styleMuted().Render(empty))
	}
	return lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(m.taskList.View())
}

func (m appModel) viewDetail(snap session.Snapshot, w, h int) string {
	t := snap.Context.SelectedTask
	if t == nil {
		return lipgloss.NewStyle().Width(w).Render(styleMuted().Render("No task selected."))
	}

	var b strings.Builder
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(title))
	b.WriteString("\n")
	b.WriteString(m.viewDetailMeta(t))
	b.WriteString("\n")

	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(desc, w-2))
		b.WriteString("\n")
	}

	if len(t.Subtasks) > 0 {
		b.WriteString("\n" + styleMuted().Render("Subtasks") + "\n")
		for _, st := range t.Subtasks {
			b.WriteString("  " + renderStatusGlyph(st.Status) + " " + strings.TrimSpace(st.Title) + "\n")
		}
	}

	if len(t.Attachments) > 0 {
		b.WriteString("\n" + styleMuted().Render("Attachments") + "\n")
		for _, a := range t.Attachments {
			b.WriteString("  • " + a.Name + "\n")
		}
	}

	if len(t.Comments) > 0 {
		b.WriteString("\n" + styleMuted().Render("Comments") + "\n")
		for _, c := range t.Comments {
			ts := c.CreatedAt.Format("2006-01-02 15:04")
			b.WriteString(styleMuted().Render(ts) + "\n")
			b.WriteString(renderMarkdownCompact(c.Body, w-4) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(w).MaxHeight(h).Render(b.String())
}

func (m appModel) viewDetailMeta(t *model.TaskDetail) string {
	parts := []string{statusLabel(t.Status)}
	if p := priorityLabel(t.Priority); p != "" {
		parts = append(parts, "priority "+string(t.Priority))
	}
	if t.Project != nil {
		parts = append(parts, "project "+t.Project.Name)
	}
	if s := formatDueLabel(t.Due); s != "" {
		parts = append(parts, s)
	}
	if t.Recurrence != "" {
		parts = append(parts, "repeats "+t.Recurrence)
	}
	if t.DurationHours != nil {
		parts = append(parts, fmt.Sprintf("%gh", *t.DurationHours))
	}
	if len(t.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(t.Tags, " #"))
	}
	return styleMuted().Render(strings.Join(parts, "  ·  "))
}

func statusLabel(s model.Status) string {
	switch s {
	case model.StatusDone:
		return "done"
	case model.StatusInProgress:
		return "in progress"
	default:
		return "todo"
	}
}

func (m appModel) viewPalette(snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle().Render("Command palette") + "\n")
	b.WriteString(m.input.View() + "\n\n")

	matches := session.PaletteMatches(snap.Context.PaletteFilter)
	if len(matches) == 0 {
		b.WriteString(styleMuted().Render("No matching commands."))
	}
	for i, cmd := range matches {
		line := "  " + cmd.Label
		if i == snap.Context.PaletteIndex {
			line = lipgloss.NewStyle().
				Background(colorSelectedBg).
				Foreground(colorSelectedFg).
				Render("▌ " + cmd.Label)
		}
		b.WriteString(line + "\n")
	}
	return modalStyle().Render(b.String())
}

func (m appModel) viewHelp() string {
	k := m.keys
	groups := []struct {
		title string
		keys  []string
	}{
		{"Navigate", []string{
			helpLine(k.Up), helpLine(k.Down), helpLine(k.Tab),
			helpLine(k.Search), helpLine(k.Palette),
		}},
		{"Tasks", []string{
			helpLine(k.Create), helpLine(k.CreateSub), helpLine(k.EditTitle),
			helpLine(k.ToggleDone), helpLine(k.ToggleWork), helpLine(k.Delete),
			helpLine(k.MoveTaskUp), helpLine(k.MoveTaskDn),
		}},
		{"Fields", []string{
			helpLine(k.EditDescription), helpLine(k.AddComment), helpLine(k.ChangeStatus),
			helpLine(k.ChangePriority), helpLine(k.ChangeProject), helpLine(k.SetDue),
			helpLine(k.EditTags), helpLine(k.SetRecurrence), helpLine(k.AddAttachment),
			helpLine(k.SetDuration),
		}},
		{"Sync", []string{
			helpLine(k.SyncPull), helpLine(k.SyncPush), helpLine(k.SyncCalendar),
		}},
		{"Workspace", []string{
			helpLine(k.PickDatabase), helpLine(k.CreateWorkspace), helpLine(k.CopyRef),
			helpLine(k.Quit),
		}},
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle().Render("Keys") + "\n\n")
	for _, g := range groups {
		b.WriteString(styleAccent().Render(g.title) + "\n")
		for _, line := range g.keys {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styleMuted().Render("esc to close"))
	return modalStyle().Render(b.String())
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return lipgloss.NewStyle().Foreground(colorSurfaceFg).Width(10).Render(h.Key) +
		styleMuted().Render(h.Desc)
}

func (m appModel) viewPicker(mode session.Mode, snap session.Snapshot) string {
	var title string
	var labels []string

	switch mode {
	case session.ModeEditStatus:
		title = "Status"
		for _, s := range statusPickEntries {
			labels = append(labels, statusLabel(s))
		}
	case session.ModeEditPriority:
		title = "Priority"
		for _, p := range priorityPickEntries {
			if p == model.PriorityNone {
				labels = append(labels, "none")
			} else {
				labels = append(labels, string(p))
			}
		}
	case session.ModeEditProject:
		title = "Project"
		labels = append(labels, "(new project)")
		for _, p := range snap.Context.Projects {
			labels = append(labels, p.Name)
		}
	case session.ModePickingDatabase:
		title = "Database"
		labels = append(labels, snap.Context.Databases...)
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle().Render(title) + "\n\n")
	for i, label := range labels {
		if i == m.pickIndex {
			b.WriteString(lipgloss.NewStyle().
				Background(colorSelectedBg).
				Foreground(colorSelectedFg).
				Render("▌ "+label) + "\n")
		} else {
			b.WriteString("  " + label + "\n")
		}
	}
	b.WriteString("\n" + styleMuted().Render("enter to choose · esc to cancel"))
	return modalStyle().Render(b.String())
}

func (m appModel) viewTextareaModal(mode session.Mode, snap session.Snapshot) string {
	title := "Edit description"
	if mode == session.ModeEditComment {
		title = "Add comment"
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle().Render(title) + "\n")
	b.WriteString(m.textarea.View() + "\n")
	if snap.EditErr != "" {
		b.WriteString(styleError().Render(snap.EditErr) + "\n")
	}
	hint := "ctrl+d to save · esc to cancel"
	if snap.EditSubmitting {
		hint = "saving…"
	}
	b.WriteString(styleMuted().Render(hint))
	return modalStyle().Render(b.String())
}

func inputModalTitle(mode session.Mode, snap session.Snapshot) string {
	if snap.EditNamingProject {
		return "New project name"
	}
	switch mode {
	case session.ModeCreatingTask:
		return "New task"
	case session.ModeCreatingWS:
		return "New workspace"
	case session.ModeEditingTitleList, session.ModeEditTitle:
		return "Edit title"
	case session.ModeSearching:
		return "Search"
	case session.ModeEnteringDuration:
		return "Duration (hours)"
	case session.ModeEnteringGcalDuration:
		return "Calendar event duration (hours)"
	case session.ModeEditDueDate:
		return "Due date (today, tomorrow, +3d, YYYY-MM-DD [HH:MM])"
	case session.ModeEditTags:
		return "Tags (comma separated)"
	case session.ModeEditRecurrence:
		return "Recurrence (daily, weekly, monthly, every N days)"
	}
	return "Input"
}

func (m appModel) viewInputModal(mode session.Mode, snap session.Snapshot) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle().Render(inputModalTitle(mode, snap)) + "\n")
	b.WriteString(m.input.View() + "\n")
	if snap.EditErr != "" {
		b.WriteString(styleError().Render(snap.EditErr) + "\n")
	}
	hint := "enter to save · esc to cancel"
	if submitting(mode, snap) {
		hint = "saving…"
	}
	b.WriteString(styleMuted().Render(hint))
	return modalStyle().Render(b.String())
}

func (m appModel) viewFilePicker() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle().Render("Attach file") + "\n")
	b.WriteString(m.filePicker.View() + "\n")
	b.WriteString(styleMuted().Render("enter to attach · esc to cancel"))
	return modalStyle().Render(b.String())
}

func (m appModel) viewErrorScreen(snap session.Snapshot) string {
	msg := snap.Context.Err
	if msg == "" {
		msg = "something went wrong"
	}
	body := styleError().Bold(true).Render("Failed to load tasks") + "\n\n" +
		msg + "\n\n" +
		styleMuted().Render("r to retry · q to quit")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle().Render(body))
}

func (m appModel) viewFooter(snap session.Snapshot, mode session.Mode) string {
	var b strings.Builder

	if snap.Context.Err != "" && mode != session.ModeError {
		b.WriteString(styleError().Render(snap.Context.Err))
	} else if snap.Context.Status != "" {
		b.WriteString(styleMuted().Render(snap.Context.Status))
	} else if m.minibufferText != "" {
		b.WriteString(styleMuted().Render(m.minibufferText))
	}
	b.WriteString("\n")

	if mode == session.ModeList || mode == session.ModeDetail {
		b.WriteString(styleMuted().Render("n new · space done · tab detail · : palette · ? help · q quit"))
	}
	return b.String()
}

func modalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted)
}

func modalTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}
