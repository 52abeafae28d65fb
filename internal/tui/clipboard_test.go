package tui

import "testing"

func TestQuoteArgIfNeeded(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"work", "work"},
		{"  work  ", "work"},
		{"side projects", `"side projects"`},
		{"a\tb", `"a\tb"`},
	}
	for _, tc := range cases {
		if got := quoteArgIfNeeded(tc.in); got != tc.want {
			t.Fatalf("quoteArgIfNeeded(%q): expected %q; got %q", tc.in, tc.want, got)
		}
	}
}

func TestTaskRefCmd(t *testing.T) {
	t.Parallel()
	if got := taskRefCmd(42, "default"); got != "tackle show 42 --database default" {
		t.Fatalf("unexpected ref: %q", got)
	}
	if got := taskRefCmd(7, ""); got != "tackle show 7" {
		t.Fatalf("unexpected ref without database: %q", got)
	}
	if got := taskRefCmd(7, "side projects"); got != `tackle show 7 --database "side projects"` {
		t.Fatalf("unexpected quoted ref: %q", got)
	}
}
