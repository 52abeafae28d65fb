package taskapi

import (
	"testing"
	"time"

	"tackle-cli/internal/model"
)

func TestNextOccurrenceRules(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		due  string
		rule string
		want string
	}{
		{"2026-03-10", "daily", "2026-03-11"},
		{"2026-03-10", "every day", "2026-03-11"},
		{"2026-03-10", "weekly", "2026-03-17"},
		{"2026-03-10", "monthly", "2026-04-10"},
		{"2026-03-10", "every 3 days", "2026-03-13"},
		{"2026-03-10", "Every 10 Days", "2026-03-20"},
	}
	for _, tc := range cases {
		next, ok := NextOccurrence(model.DateTime{Date: tc.due}, tc.rule, now)
		if !ok {
			t.Fatalf("%q: expected recognized rule", tc.rule)
		}
		if next.Date != tc.want {
			t.Fatalf("%q: expected %s; got %s", tc.rule, tc.want, next.Date)
		}
	}
}

func TestNextOccurrenceCatchesUpPastDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	// A long-overdue weekly task jumps to the first instance after today.
	next, ok := NextOccurrence(model.DateTime{Date: "2026-01-06"}, "weekly", now)
	if !ok {
		t.Fatalf("expected recognized rule")
	}
	if next.Date != "2026-03-17" {
		t.Fatalf("expected 2026-03-17; got %s", next.Date)
	}

	// Monthly stays pinned to the day of month, not a day count.
	next, ok = NextOccurrence(model.DateTime{Date: "2025-11-05"}, "monthly", now)
	if !ok {
		t.Fatalf("expected recognized rule")
	}
	if next.Date != "2026-04-05" {
		t.Fatalf("expected 2026-04-05; got %s", next.Date)
	}
}

func TestNextOccurrencePreservesTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	hm := "14:00"
	next, ok := NextOccurrence(model.DateTime{Date: "2026-03-10", Time: &hm}, "daily", now)
	if !ok {
		t.Fatalf("expected recognized rule")
	}
	if next.Time == nil || *next.Time != "14:00" {
		t.Fatalf("expected time carried over; got %+v", next.Time)
	}
}

func TestNextOccurrenceUnknownRule(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for _, rule := range []string{"", "fortnightly", "every 0 days", "every -2 days"} {
		if _, ok := NextOccurrence(model.DateTime{Date: "2026-03-10"}, rule, now); ok {
			t.Fatalf("expected %q unrecognized", rule)
		}
	}
	if _, ok := NextOccurrence(model.DateTime{}, "daily", now); ok {
		t.Fatalf("expected missing due date to disable recurrence")
	}
}

func TestIsRecognizedRecurrence(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{"daily", "weekly", "monthly", "every 2 days", "every day"} {
		if !IsRecognizedRecurrence(rule) {
			t.Fatalf("expected %q recognized", rule)
		}
	}
	for _, rule := range []string{"", "sometimes", "every other day"} {
		if IsRecognizedRecurrence(rule) {
			t.Fatalf("expected %q unrecognized", rule)
		}
	}
}
