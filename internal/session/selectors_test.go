package session

import "testing"

func TestCurrentModeTracksMachine(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	b.addTask("one")
	o := newReadySession(t, b, Options{})

	if got := CurrentMode(o.Snapshot()); got != ModeList {
		t.Fatalf("expected list; got %s", got)
	}

	stepAll(t, o, b, EvTab{})
	if got := CurrentMode(o.Snapshot()); got != ModeDetail {
		t.Fatalf("expected detail; got %s", got)
	}

	stepAll(t, o, b, EvStartEdit{Mode: EditTags})
	if got := CurrentMode(o.Snapshot()); got != ModeEditTags {
		t.Fatalf("expected per-field edit mode; got %s", got)
	}
	stepAll(t, o, b, EvCancel{})

	stepAll(t, o, b, EvOpenPalette{})
	if got := CurrentMode(o.Snapshot()); got != ModePalette {
		t.Fatalf("expected palette; got %s", got)
	}
	stepAll(t, o, b, EvCancel{})

	stepAll(t, o, b, EvStartDuration{})
	if got := CurrentMode(o.Snapshot()); got != ModeEnteringDuration {
		t.Fatalf("expected duration entry; got %s", got)
	}
}

func TestErrorModeOverridesUI(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	b.failNext["LoadTasksRequest"] = "nope"
	o := newReadySession(t, b, Options{})

	if got := CurrentMode(o.Snapshot()); got != ModeError {
		t.Fatalf("expected error mode; got %s", got)
	}
}

func TestFocusFollowsHistoryThroughOverlays(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	b.addTask("one")
	o := newReadySession(t, b, Options{})

	if got := FocusPanel(o.Snapshot()); got != PanelList {
		t.Fatalf("expected list focus; got %s", got)
	}

	stepAll(t, o, b, EvTab{})
	stepAll(t, o, b, EvOpenHelp{})
	if got := FocusPanel(o.Snapshot()); got != PanelDetail {
		t.Fatalf("expected overlay to keep detail focus; got %s", got)
	}
}

func TestActivityFlags(t *testing.T) {
	t.Parallel()

	b := newFakeBackend()
	b.addTask("one")
	o := newReadySession(t, b, Options{})

	s := o.Snapshot()
	if IsLoading(s) || IsSyncing(s) || IsEditing(s) {
		t.Fatalf("expected idle flags at rest")
	}

	reqs := o.Step(EvSyncPush{})
	if !IsSyncing(o.Snapshot()) {
		t.Fatalf("expected syncing while push in flight")
	}
	drive(t, o, b, reqs)

	stepAll(t, o, b, EvStartSearch{})
	s = o.Snapshot()
	if !IsEditing(s) || !IsSearching(s) {
		t.Fatalf("expected search to count as editing")
	}
	stepAll(t, o, b, EvInput{Buffer: BufSearch, Text: "on"})
	stepAll(t, o, b, EvSubmit{})
	if !HasActiveFilter(o.Snapshot()) {
		t.Fatalf("expected active filter after search submit")
	}
}
