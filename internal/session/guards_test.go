package session

import (
	"testing"

	"tackle-cli/internal/model"
)

func TestCanCreateSubtaskRequiresRootTask(t *testing.T) {
	t.Parallel()

	parent := int64(1)
	c := &Context{Tasks: []model.TaskSummary{
		{ID: 1, Title: "root"},
		{ID: 2, Title: "child", ParentID: &parent},
	}}

	c.SelectedIndex = 0
	if !canCreateSubtask(c) {
		t.Fatalf("expected subtask allowed under a root task")
	}
	c.SelectedIndex = 1
	if canCreateSubtask(c) {
		t.Fatalf("expected subtask rejected under a subtask")
	}
	c.SelectedIndex = 5
	if canCreateSubtask(c) {
		t.Fatalf("expected out-of-range index rejected")
	}
}

func TestCanToggleStatusBounds(t *testing.T) {
	t.Parallel()

	c := &Context{}
	if canToggleStatus(c) {
		t.Fatalf("expected false on empty list")
	}
	c.Tasks = []model.TaskSummary{{ID: 1}}
	c.SelectedIndex = 0
	if !canToggleStatus(c) {
		t.Fatalf("expected true for in-range index")
	}
	c.SelectedIndex = -1
	if canToggleStatus(c) {
		t.Fatalf("expected false for negative index")
	}
}

func TestValidText(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "   ", "\t\n"} {
		if validText(s) {
			t.Fatalf("expected %q invalid", s)
		}
	}
	if !validText(" x ") {
		t.Fatalf("expected non-blank text valid")
	}
}
