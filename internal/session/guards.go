package session

import "strings"

// Guards are pure predicates evaluated before a transition is taken. A
// failing guard means the transition is simply not taken; no error surfaces.

func hasSelectedTask(c *Context) bool { return c.SelectedTask != nil }

func hasTasks(c *Context) bool { return len(c.Tasks) > 0 }

// canToggleStatus requires a task at the highlighted index; the full detail
// need not be loaded yet.
func canToggleStatus(c *Context) bool {
	return c.SelectedIndex >= 0 && c.SelectedIndex < len(c.Tasks)
}

// canCreateSubtask additionally requires the highlighted task to be a root
// task: nesting is one level deep.
func canCreateSubtask(c *Context) bool {
	if !canToggleStatus(c) {
		return false
	}
	return c.Tasks[c.SelectedIndex].ParentID == nil
}

// validText backs hasValidTitle / hasValidComment / hasValidProjectName:
// non-blank after trimming.
func validText(s string) bool { return strings.TrimSpace(s) != "" }
