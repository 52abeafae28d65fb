package taskapi

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"tackle-cli/internal/model"
)

var reEveryN = regexp.MustCompile(`^every\s+(\d+)\s+days?$`)

// NextOccurrence computes the due date of the next instance of a recurring
// task. The rule grammar is the fixed subset the status-toggle flow needs:
// "daily", "weekly", "monthly", "every N days" (aliases: "every day",
// "every week", "every month"). Unknown rules return ok=false and the caller
// treats the task as non-recurring.
func NextOccurrence(due model.DateTime, rule string, now time.Time) (model.DateTime, bool) {
	advance, ok := recurrenceStep(rule)
	if !ok || strings.TrimSpace(due.Date) == "" {
		return model.DateTime{}, false
	}

	base, err := time.Parse("2006-01-02", due.Date)
	if err != nil {
		return model.DateTime{}, false
	}

	next := advance(base)

	// Catch up past-due recurrences so the next instance lands after today.
	today, _ := time.Parse("2006-01-02", now.Format("2006-01-02"))
	for !next.After(today) {
		next = advance(next)
	}

	return model.DateTime{Date: next.Format("2006-01-02"), Time: due.Time}, true
}

func recurrenceStep(rule string) (func(time.Time) time.Time, bool) {
	rule = strings.ToLower(strings.TrimSpace(rule))
	switch rule {
	case "":
		return nil, false
	case "daily", "every day":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }, true
	case "weekly", "every week":
		return func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }, true
	case "monthly", "every month":
		return func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }, true
	}
	m := reEveryN.FindStringSubmatch(rule)
	if m == nil {
		return nil, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil, false
	}
	return func(t time.Time) time.Time { return t.AddDate(0, 0, n) }, true
}

// IsRecognizedRecurrence reports whether the rule is part of the fixed grammar.
func IsRecognizedRecurrence(rule string) bool {
	_, ok := recurrenceStep(rule)
	return ok
}
