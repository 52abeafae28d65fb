package tui

import (
	"strconv"
	"strings"

	"tackle-cli/internal/session"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

func quoteArgIfNeeded(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Prefer a shell-safe representation when whitespace is present.
	// strconv.Quote uses double-quotes + escapes, which is widely portable.
	if strings.ContainsAny(s, " \t\r\n") {
		return strconv.Quote(s)
	}
	return s
}

// taskRefCmd is the shell command copied for the highlighted task, so it can
// be pasted into a terminal or a chat message.
func taskRefCmd(taskID int64, database string) string {
	cmd := "tackle show " + strconv.FormatInt(taskID, 10)
	if db := quoteArgIfNeeded(database); db != "" {
		cmd += " --database " + db
	}
	return cmd
}

func (m *appModel) copySelectedRef(snap session.Snapshot) tea.Cmd {
	i := snap.Context.SelectedIndex
	if i < 0 || i >= len(snap.Context.Tasks) {
		return nil
	}
	ref := taskRefCmd(snap.Context.Tasks[i].ID, snap.Context.Database)
	if err := clipboard.WriteAll(ref); err != nil {
		return m.showMinibuffer("Copy failed: " + err.Error())
	}
	return m.showMinibuffer("Copied: " + ref)
}
