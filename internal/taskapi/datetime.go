package taskapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tackle-cli/internal/model"
)

var (
	reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDateTime = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T](\d{2}:\d{2})(?::\d{2})?$`)
	reRelDays  = regexp.MustCompile(`^\+(\d+)d$`)
)

// ParseDueText parses the small fixed grammar the due-date editor accepts:
// - "" (clear the due date; returns nil, nil)
// - YYYY-MM-DD and YYYY-MM-DD HH:MM
// - today / tomorrow
// - +Nd (N days from today)
//
// Richer natural-language parsing is an external collaborator's job; this is
// the fallback grammar the backend always understands.
func ParseDueText(s string, now time.Time) (*model.DateTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	switch strings.ToLower(s) {
	case "today":
		return &model.DateTime{Date: now.Format("2006-01-02")}, nil
	case "tomorrow":
		return &model.DateTime{Date: now.AddDate(0, 0, 1).Format("2006-01-02")}, nil
	}

	if m := reRelDays.FindStringSubmatch(strings.ToLower(s)); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q", s)
		}
		return &model.DateTime{Date: now.AddDate(0, 0, n).Format("2006-01-02")}, nil
	}

	if reDateOnly.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, fmt.Errorf("invalid due date %q", s)
		}
		return &model.DateTime{Date: s}, nil
	}

	if m := reDateTime.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse("2006-01-02 15:04", m[1]+" "+m[2]); err != nil {
			return nil, fmt.Errorf("invalid due date %q", s)
		}
		hm := m[2]
		return &model.DateTime{Date: m[1], Time: &hm}, nil
	}

	return nil, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, today, tomorrow, or +Nd)", s)
}

// SplitTagsText turns comma/space separated user input into a clean tag list.
func SplitTagsText(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
