package model

import "time"

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskSummary is the lightweight row shape used by list views and reloads.
// The full record (description, comments, attachments) lives on TaskDetail.
type TaskSummary struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority,omitempty"`
	ProjectID *int64   `json:"projectId,omitempty"`
	ParentID  *int64   `json:"parentId,omitempty"`

	Due        *DateTime `json:"due,omitempty"`
	Recurrence string    `json:"recurrence,omitempty"`
	Tags       []string  `json:"tags,omitempty"`

	// SortOrder is the position within the task's sibling group (parent or root).
	SortOrder int `json:"sortOrder"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TaskDetail struct {
	TaskSummary

	Description   string        `json:"description,omitempty"`
	DurationHours *float64      `json:"durationHours,omitempty"`
	Project       *Project      `json:"project,omitempty"`
	Subtasks      []TaskSummary `json:"subtasks,omitempty"`
	Comments      []Comment     `json:"comments,omitempty"`
	Attachments   []Attachment  `json:"attachments,omitempty"`
}

// DateTime represents an optional time attached to a date.
// If Time is nil, the value is date-only (no time semantics).
type DateTime struct {
	Date string  `json:"date"`           // YYYY-MM-DD
	Time *string `json:"time,omitempty"` // HH:MM
}

func (d *DateTime) String() string {
	if d == nil {
		return ""
	}
	if d.Time != nil && *d.Time != "" {
		return d.Date + " " + *d.Time
	}
	return d.Date
}

type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type Attachment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"createdAt"`
}
