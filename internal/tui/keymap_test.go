package tui

import (
	"testing"

	"tackle-cli/internal/session"
	"tackle-cli/internal/taskapi"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResolveNormalKeyBindings(t *testing.T) {
	t.Parallel()
	k := defaultKeyMap()

	cases := []struct {
		msg  tea.KeyMsg
		want session.Event
	}{
		{keyRunes("k"), session.EvMoveUp{}},
		{keyRunes("j"), session.EvMoveDown{}},
		{keyRunes("n"), session.EvStartCreateTask{}},
		{keyRunes("N"), session.EvStartCreateSubtask{}},
		{keyRunes("e"), session.EvStartEditTitleInList{}},
		{keyRunes("x"), session.EvDeleteTask{}},
		{keyRunes("w"), session.EvToggleProgress{}},
		{keyRunes("K"), session.EvReorder{Dir: taskapi.DirectionUp}},
		{keyRunes("J"), session.EvReorder{Dir: taskapi.DirectionDown}},
		{keyRunes("d"), session.EvStartEdit{Mode: session.EditDescription}},
		{keyRunes("c"), session.EvStartEdit{Mode: session.EditComment}},
		{keyRunes("s"), session.EvStartEdit{Mode: session.EditStatus}},
		{keyRunes("p"), session.EvStartEdit{Mode: session.EditPriority}},
		{keyRunes("P"), session.EvStartEdit{Mode: session.EditProject}},
		{keyRunes("u"), session.EvStartEdit{Mode: session.EditDueDate}},
		{keyRunes("t"), session.EvStartEdit{Mode: session.EditTags}},
		{keyRunes("r"), session.EvStartEdit{Mode: session.EditRecurrence}},
		{keyRunes("a"), session.EvStartEdit{Mode: session.EditAttachment}},
		{keyRunes("h"), session.EvStartDuration{}},
		{keyRunes("g"), session.EvStartGcalDuration{}},
		{keyRunes("<"), session.EvSyncPull{}},
		{keyRunes(">"), session.EvSyncPush{}},
		{keyRunes("b"), session.EvStartPickDatabase{}},
		{keyRunes("B"), session.EvStartCreateWorkspace{}},
		{keyRunes("/"), session.EvStartSearch{}},
		{keyRunes(":"), session.EvOpenPalette{}},
		{keyRunes("?"), session.EvOpenHelp{}},
		{tea.KeyMsg{Type: tea.KeyTab}, session.EvTab{}},
		{tea.KeyMsg{Type: tea.KeyEnter}, session.EvTab{}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, session.EvToggleStatus{}},
	}

	for _, tc := range cases {
		got, ok := k.resolveNormalKey(tc.msg)
		if !ok {
			t.Fatalf("key %q not bound", tc.msg.String())
		}
		if got != tc.want {
			t.Fatalf("key %q: expected %T; got %T", tc.msg.String(), tc.want, got)
		}
	}
}

func TestResolveNormalKeyUnbound(t *testing.T) {
	t.Parallel()
	k := defaultKeyMap()
	if _, ok := k.resolveNormalKey(keyRunes("z")); ok {
		t.Fatal("expected z to be unbound")
	}
	// Quit and copy are handled by the app model, not the resolver.
	if _, ok := k.resolveNormalKey(keyRunes("q")); ok {
		t.Fatal("quit must not map to a session event")
	}
	if _, ok := k.resolveNormalKey(keyRunes("y")); ok {
		t.Fatal("copy must not map to a session event")
	}
}
