package session

import "strings"

// PaletteCommand is one entry in the command palette. Accepting an entry
// dispatches its event as if the user had pressed the bound key.
type PaletteCommand struct {
	ID    string
	Label string
	event Event
}

// paletteCommands is the fixed catalog; the palette filter narrows it by
// case-insensitive substring match on the label.
var paletteCommands = []PaletteCommand{
	{ID: "create-task", Label: "Create task", event: EvStartCreateTask{}},
	{ID: "create-subtask", Label: "Create subtask", event: EvStartCreateSubtask{}},
	{ID: "edit-title", Label: "Edit title", event: EvStartEdit{Mode: EditTitle}},
	{ID: "edit-description", Label: "Edit description", event: EvStartEdit{Mode: EditDescription}},
	{ID: "add-comment", Label: "Add comment", event: EvStartEdit{Mode: EditComment}},
	{ID: "change-status", Label: "Change status", event: EvStartEdit{Mode: EditStatus}},
	{ID: "change-priority", Label: "Change priority", event: EvStartEdit{Mode: EditPriority}},
	{ID: "change-project", Label: "Change project", event: EvStartEdit{Mode: EditProject}},
	{ID: "set-due-date", Label: "Set due date", event: EvStartEdit{Mode: EditDueDate}},
	{ID: "edit-tags", Label: "Edit tags", event: EvStartEdit{Mode: EditTags}},
	{ID: "set-recurrence", Label: "Set recurrence", event: EvStartEdit{Mode: EditRecurrence}},
	{ID: "add-attachment", Label: "Add attachment", event: EvStartEdit{Mode: EditAttachment}},
	{ID: "toggle-status", Label: "Toggle done", event: EvToggleStatus{}},
	{ID: "toggle-progress", Label: "Toggle in progress", event: EvToggleProgress{}},
	{ID: "delete-task", Label: "Delete task", event: EvDeleteTask{}},
	{ID: "search", Label: "Search tasks", event: EvStartSearch{}},
	{ID: "sync-pull", Label: "Sync: pull", event: EvSyncPull{}},
	{ID: "sync-push", Label: "Sync: push", event: EvSyncPush{}},
	{ID: "sync-calendar", Label: "Sync to calendar", event: EvStartGcalDuration{}},
	{ID: "set-duration", Label: "Set duration", event: EvStartDuration{}},
	{ID: "switch-database", Label: "Switch database", event: EvStartPickDatabase{}},
	{ID: "create-workspace", Label: "Create workspace", event: EvStartCreateWorkspace{}},
	{ID: "help", Label: "Help", event: EvOpenHelp{}},
}

// PaletteMatches returns the commands matching the filter, in catalog order.
func PaletteMatches(filter string) []PaletteCommand {
	q := strings.ToLower(strings.TrimSpace(filter))
	if q == "" {
		return paletteCommands
	}
	var out []PaletteCommand
	for _, cmd := range paletteCommands {
		if strings.Contains(strings.ToLower(cmd.Label), q) {
			out = append(out, cmd)
		}
	}
	return out
}

func (o *Orchestrator) stepPalette(ev Event) []EffectRequest {
	c := &o.ctx
	switch ev := ev.(type) {
	case EvInput:
		if ev.Buffer == BufPaletteFilter {
			c.PaletteFilter = ev.Text
			c.PaletteIndex = clampPaletteIndex(c.PaletteIndex, len(PaletteMatches(c.PaletteFilter)))
		}
		return nil

	case EvPaletteMove:
		c.PaletteIndex = clampPaletteIndex(c.PaletteIndex+ev.Delta, len(PaletteMatches(c.PaletteFilter)))
		return nil

	case EvSubmit:
		matches := PaletteMatches(c.PaletteFilter)
		if len(matches) == 0 {
			return nil
		}
		cmd := matches[clampPaletteIndex(c.PaletteIndex, len(matches))]
		c.PaletteFilter = ""
		c.PaletteIndex = 0
		// Restore the prior sub-state via history, then dispatch the command
		// as a fresh event so its own guards apply.
		o.ui = o.lastNormal
		return o.Step(cmd.event)

	case EvCancel:
		c.PaletteFilter = ""
		c.PaletteIndex = 0
		o.ui = o.lastNormal
		return nil
	}
	return nil
}

func clampPaletteIndex(idx, matchCount int) int {
	if matchCount == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= matchCount {
		return matchCount - 1
	}
	return idx
}
