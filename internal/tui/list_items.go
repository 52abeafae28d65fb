package tui

import (
	"fmt"
	"io"
	"strings"

	"tackle-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskRowItem struct {
	task model.TaskSummary
}

func (i taskRowItem) FilterValue() string { return strings.TrimSpace(i.task.Title) }

func renderStatusGlyph(s model.Status) string {
	switch s {
	case model.StatusDone:
		return lipgloss.NewStyle().Foreground(colorDone).Render("[x]")
	case model.StatusInProgress:
		return lipgloss.NewStyle().Foreground(colorWarning).Render("[~]")
	default:
		return styleMuted().Render("[ ]")
	}
}

func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	case model.PriorityLow:
		return "!"
	}
	return ""
}

func formatDueLabel(d *model.DateTime) string {
	if d == nil {
		return ""
	}
	return "due " + d.String()
}

func taskRowLabel(t model.TaskSummary) string {
	indent := ""
	if t.ParentID != nil {
		indent = "  "
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "(untitled)"
	}

	metaParts := make([]string, 0, 4)
	if p := priorityLabel(t.Priority); p != "" {
		metaParts = append(metaParts, lipgloss.NewStyle().Foreground(colorWarning).Render(p))
	}
	if s := formatDueLabel(t.Due); s != "" {
		metaParts = append(metaParts, styleMuted().Render(s))
	}
	if t.Recurrence != "" {
		metaParts = append(metaParts, styleMuted().Render("↻"))
	}
	if len(t.Tags) > 0 {
		metaParts = append(metaParts, styleMuted().Render("#"+strings.Join(t.Tags, " #")))
	}

	line := indent + renderStatusGlyph(t.Status) + " " + title
	if len(metaParts) > 0 {
		line += "  " + strings.Join(metaParts, " ")
	}
	if t.Status == model.StatusDone {
		line = styleMuted().Strikethrough(true).Render(indent+title) + "  " + renderStatusGlyph(t.Status)
	}
	return line
}

// taskRowDelegate is the single-line row renderer used by the task list.
type taskRowDelegate struct {
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
}

func newTaskRowDelegate() taskRowDelegate {
	return taskRowDelegate{
		selectedStyle: lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg),
		normalStyle: lipgloss.NewStyle().Foreground(colorSurfaceFg),
	}
}

func (d taskRowDelegate) Height() int  { return 1 }
func (d taskRowDelegate) Spacing() int { return 0 }

func (d taskRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	row, ok := item.(taskRowItem)
	if !ok {
		return
	}
	innerW := m.Width() - 2
	line := truncateToWidth(taskRowLabel(row.task), innerW)

	if index == m.Index() {
		line = d.selectedStyle.Render("▌ " + padToWidth(line, innerW))
	} else {
		line = d.normalStyle.Render("  " + line)
	}
	fmt.Fprint(w, line)
}

// truncateToWidth cuts s to the given display width, honoring ANSI escapes
// and wide runes, appending an ellipsis when something was dropped.
func truncateToWidth(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func padToWidth(s string, w int) string {
	cur := xansi.StringWidth(s)
	if cur >= w {
		return s
	}
	return s + strings.Repeat(" ", w-cur)
}

func newTaskList() list.Model {
	l := list.New([]list.Item{}, newTaskRowDelegate(), 0, 0)
	// The session owns searching/filtering and we render our own chrome, so
	// keep the bubble list minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	return l
}
