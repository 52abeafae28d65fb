package taskapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tackle-cli/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const dbFileName = "tasks.db"

// Calendar is the external calendar collaborator. A nil Calendar means
// calendar sync is not configured; sync then reports a structured failure.
type Calendar interface {
	Authenticated() bool
	SyncTask(ctx context.Context, task model.TaskDetail, durationHours float64) (*CalendarSyncResult, error)
}

// Store is the local sqlite-backed Task API implementation. One Store owns
// one workspace directory; switching workspaces means opening another Store.
type Store struct {
	db   *sql.DB
	dir  string
	name string
	cal  Calendar
	now  func() time.Time
}

type StoreOpts struct {
	Calendar Calendar
	// Now overrides the clock (tests).
	Now func() time.Time
}

func Open(dir string, opts StoreOpts) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("taskapi: empty workspace dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{
		db:   db,
		dir:  dir,
		name: filepath.Base(dir),
		cal:  opts.Calendar,
		now:  opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Dir() string  { return s.dir }
func (s *Store) Name() string { return s.name }

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'todo',
			priority TEXT NOT NULL DEFAULT '',
			project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL,
			parent_id INTEGER REFERENCES tasks(id) ON DELETE CASCADE,
			due_date TEXT,
			due_time TEXT,
			recurrence TEXT NOT NULL DEFAULT '',
			duration_hours REAL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS task_tags (
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			UNIQUE(task_id, tag)
		);`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attachments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const taskCols = `id, title, description, status, priority, project_id, parent_id,
	due_date, due_time, recurrence, duration_hours, sort_order, created_at, updated_at`

func scanTaskRow(sc interface{ Scan(...any) error }) (model.TaskDetail, error) {
	var (
		t         model.TaskDetail
		desc      string
		status    string
		priority  string
		projectID sql.NullInt64
		parentID  sql.NullInt64
		dueDate   sql.NullString
		dueTime   sql.NullString
		duration  sql.NullFloat64
		createdAt string
		updatedAt string
	)
	err := sc.Scan(&t.ID, &t.Title, &desc, &status, &priority, &projectID, &parentID,
		&dueDate, &dueTime, &t.Recurrence, &duration, &t.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	t.Description = desc
	t.Status = model.Status(status)
	t.Priority = model.Priority(priority)
	if projectID.Valid {
		v := projectID.Int64
		t.ProjectID = &v
	}
	if parentID.Valid {
		v := parentID.Int64
		t.ParentID = &v
	}
	if dueDate.Valid && strings.TrimSpace(dueDate.String) != "" {
		dt := &model.DateTime{Date: dueDate.String}
		if dueTime.Valid && strings.TrimSpace(dueTime.String) != "" {
			hm := dueTime.String
			dt.Time = &hm
		}
		t.Due = dt
	}
	if duration.Valid {
		v := duration.Float64
		t.DurationHours = &v
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func (s *Store) loadAllTags(ctx context.Context) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, tag FROM task_tags ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64][]string{}
	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

func (s *Store) ListTasks(ctx context.Context, filter string) ([]model.TaskSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskCols+` FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []model.TaskSummary
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, t.TaskSummary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tags, err := s.loadAllTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		all[i].Tags = tags[all[i].ID]
	}

	if q := strings.ToLower(strings.TrimSpace(filter)); q != "" {
		filtered := all[:0:0]
		for _, t := range all {
			if taskMatches(t, q) {
				filtered = append(filtered, t)
			}
		}
		all = filtered
	}

	return flattenByParent(all), nil
}

func taskMatches(t model.TaskSummary, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// flattenByParent orders root tasks by (sort_order, id) and places each
// task's subtasks directly after it. Subtasks whose parent was filtered out
// are promoted to the root level so they stay reachable.
func flattenByParent(all []model.TaskSummary) []model.TaskSummary {
	byParent := map[int64][]model.TaskSummary{}
	present := map[int64]bool{}
	for _, t := range all {
		present[t.ID] = true
	}
	var roots []model.TaskSummary
	for _, t := range all {
		if t.ParentID != nil && present[*t.ParentID] {
			byParent[*t.ParentID] = append(byParent[*t.ParentID], t)
		} else {
			roots = append(roots, t)
		}
	}
	sortSiblings(roots)
	out := make([]model.TaskSummary, 0, len(all))
	for _, r := range roots {
		out = append(out, r)
		children := byParent[r.ID]
		sortSiblings(children)
		out = append(out, children...)
	}
	return out
}

func sortSiblings(ts []model.TaskSummary) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].SortOrder != ts[j].SortOrder {
			return ts[i].SortOrder < ts[j].SortOrder
		}
		return ts[i].ID < ts[j].ID
	})
}

func (s *Store) GetTask(ctx context.Context, id int64) (*model.TaskDetail, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTaskRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	tags, err := s.loadAllTags(ctx)
	if err != nil {
		return nil, err
	}
	t.Tags = tags[t.ID]

	if t.ProjectID != nil {
		if p, err := s.projectByID(ctx, *t.ProjectID); err == nil {
			t.Project = p
		}
	}

	subRows, err := s.db.QueryContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE parent_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer subRows.Close()
	for subRows.Next() {
		sub, err := scanTaskRow(subRows)
		if err != nil {
			return nil, err
		}
		sub.Tags = tags[sub.ID]
		t.Subtasks = append(t.Subtasks, sub.TaskSummary)
	}
	if err := subRows.Err(); err != nil {
		return nil, err
	}
	sortSiblings(t.Subtasks)

	cRows, err := s.db.QueryContext(ctx, `SELECT id, task_id, body, created_at FROM comments WHERE task_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer cRows.Close()
	for cRows.Next() {
		var c model.Comment
		var at string
		if err := cRows.Scan(&c.ID, &c.TaskID, &c.Body, &at); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, at)
		t.Comments = append(t.Comments, c)
	}
	if err := cRows.Err(); err != nil {
		return nil, err
	}

	aRows, err := s.db.QueryContext(ctx, `SELECT id, task_id, name, path, created_at FROM attachments WHERE task_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer aRows.Close()
	for aRows.Next() {
		var a model.Attachment
		var at string
		if err := aRows.Scan(&a.ID, &a.TaskID, &a.Name, &a.Path, &at); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, at)
		t.Attachments = append(t.Attachments, a)
	}
	if err := aRows.Err(); err != nil {
		return nil, err
	}

	return &t, nil
}

func (s *Store) projectByID(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	var at string
	err := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &at)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, at)
	return &p, nil
}

func (s *Store) nextSortOrder(ctx context.Context, parentID *int64) (int, error) {
	var max sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM tasks WHERE parent_id IS NULL`).Scan(&max)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM tasks WHERE parent_id = ?`, *parentID).Scan(&max)
	}
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (s *Store) CreateTask(ctx context.Context, fields CreateFields) (*model.TaskDetail, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, errors.New("title must not be blank")
	}
	if fields.ParentID != nil {
		parent, err := s.GetTask(ctx, *fields.ParentID)
		if err != nil {
			return nil, err
		}
		// One level of nesting only.
		if parent.ParentID != nil {
			return nil, errors.New("subtasks cannot have subtasks")
		}
	}

	order, err := s.nextSortOrder(ctx, fields.ParentID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, status, project_id, parent_id, sort_order, created_at, updated_at)
		 VALUES (?, 'todo', ?, ?, ?, ?, ?)`,
		title, fields.ProjectID, fields.ParentID, order, now, now)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) UpdateTask(ctx context.Context, id int64, patch Patch) (*model.TaskDetail, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	set := []string{"updated_at = ?"}
	args := []any{s.now().UTC().Format(time.RFC3339)}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, errors.New("title must not be blank")
		}
		set = append(set, "title = ?")
		args = append(args, title)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if patch.Priority != nil {
		set = append(set, "priority = ?")
		args = append(args, string(*patch.Priority))
	}
	if patch.ClearProject {
		set = append(set, "project_id = NULL")
	} else if patch.ProjectID != nil {
		if _, err := s.projectByID(ctx, *patch.ProjectID); err != nil {
			return nil, fmt.Errorf("project %d not found", *patch.ProjectID)
		}
		set = append(set, "project_id = ?")
		args = append(args, *patch.ProjectID)
	}
	if patch.ClearDue {
		set = append(set, "due_date = NULL", "due_time = NULL")
	} else if patch.Due != nil {
		set = append(set, "due_date = ?", "due_time = ?")
		args = append(args, patch.Due.Date, patch.Due.Time)
	}
	if patch.Recurrence != nil {
		set = append(set, "recurrence = ?")
		args = append(args, strings.TrimSpace(*patch.Recurrence))
	}
	if patch.DurationHours != nil {
		set = append(set, "duration_hours = ?")
		args = append(args, *patch.DurationHours)
	}

	args = append(args, id)
	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, err
	}

	if patch.Tags != nil {
		if _, err := s.SetTags(ctx, id, *patch.Tags); err != nil {
			return nil, err
		}
	}

	return s.GetTask(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ToggleStatus(ctx context.Context, id int64) (*ToggleStatusResult, error) {
	cur, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	next := model.StatusDone
	if cur.Status == model.StatusDone {
		next = model.StatusTodo
	}

	out := &ToggleStatusResult{}
	if next == model.StatusDone && cur.Due != nil {
		if nextDue, ok := NextOccurrence(*cur.Due, cur.Recurrence, s.now()); ok {
			nextID, err := s.insertNextOccurrence(ctx, cur, nextDue)
			if err != nil {
				return nil, err
			}
			out.RecurringNextTaskID = &nextID
		}
	}

	st := next
	updated, err := s.UpdateTask(ctx, id, Patch{Status: &st})
	if err != nil {
		return nil, err
	}
	out.Task = *updated
	return out, nil
}

func (s *Store) insertNextOccurrence(ctx context.Context, cur *model.TaskDetail, due model.DateTime) (int64, error) {
	order, err := s.nextSortOrder(ctx, cur.ParentID)
	if err != nil {
		return 0, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, project_id, parent_id,
			due_date, due_time, recurrence, duration_hours, sort_order, created_at, updated_at)
		 VALUES (?, ?, 'todo', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cur.Title, cur.Description, string(cur.Priority), cur.ProjectID, cur.ParentID,
		due.Date, due.Time, cur.Recurrence, cur.DurationHours, order, now, now)
	if err != nil {
		return 0, err
	}
	nextID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, tag := range cur.Tags {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)`, nextID, tag); err != nil {
			return 0, err
		}
	}
	return nextID, nil
}

func (s *Store) ToggleProgress(ctx context.Context, id int64) (*model.TaskDetail, error) {
	cur, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	var next model.Status
	switch cur.Status {
	case model.StatusTodo:
		next = model.StatusInProgress
	case model.StatusInProgress:
		next = model.StatusTodo
	default:
		// Done tasks keep their status.
		return cur, nil
	}
	return s.UpdateTask(ctx, id, Patch{Status: &next})
}

func (s *Store) AddComment(ctx context.Context, id int64, body string) (*model.TaskDetail, error) {
	if strings.TrimSpace(body) == "" {
		return nil, errors.New("comment must not be blank")
	}
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	now := s.now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (task_id, body, created_at) VALUES (?, ?, ?)`, id, body, now); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) AddAttachment(ctx context.Context, id int64, path string) (*model.TaskDetail, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	attachDir := filepath.Join(s.dir, "attachments")
	if err := os.MkdirAll(attachDir, 0o755); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	stored := filepath.Join(attachDir, uuid.NewString()+filepath.Ext(name))
	dst, err := os.Create(stored)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(stored)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		return nil, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO attachments (task_id, name, path, created_at) VALUES (?, ?, ?, ?)`,
		id, name, stored, now); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) SetTags(ctx context.Context, id int64, tags []string) (*model.TaskDetail, error) {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?`, id); err != nil {
		return nil, err
	}
	return s.AddTags(ctx, id, tags)
}

func (s *Store) AddTags(ctx context.Context, id int64, tags []string) (*model.TaskDetail, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_tags (task_id, tag) VALUES (?, ?)`, id, tag); err != nil {
			return nil, err
		}
	}
	return s.GetTask(ctx, id)
}

func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Project
	for rows.Next() {
		var p model.Project
		var at string
		if err := rows.Scan(&p.ID, &p.Name, &at); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, name string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("project name must not be blank")
	}
	now := s.now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, created_at) VALUES (?, ?)`, name, now)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, fmt.Errorf("project %q already exists", name)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.projectByID(ctx, id)
}

func (s *Store) ReorderTask(ctx context.Context, id int64, dir Direction) (*ReorderResult, error) {
	cur, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if cur.ParentID == nil {
		rows, err = s.db.QueryContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE parent_id IS NULL`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+taskCols+` FROM tasks WHERE parent_id = ?`, *cur.ParentID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var siblings []model.TaskSummary
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, t.TaskSummary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSiblings(siblings)

	idx := -1
	for i := range siblings {
		if siblings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("task %d not found among siblings", id)
	}

	other := idx - 1
	if dir == DirectionDown {
		other = idx + 1
	}
	if other < 0 || other >= len(siblings) {
		return &ReorderResult{Swapped: false, TaskID: id}, nil
	}

	a, b := siblings[idx], siblings[other]
	// Normalize legacy rows that share a sort_order: the swap must produce
	// distinct positions or the move would be invisible.
	ao, bo := b.SortOrder, a.SortOrder
	if ao == bo {
		if dir == DirectionDown {
			ao = bo + 1
		} else {
			bo = ao + 1
		}
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET sort_order = ? WHERE id = ?`, ao, a.ID); err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE tasks SET sort_order = ? WHERE id = ?`, bo, b.ID); err != nil {
		return nil, err
	}

	swappedWith := b.ID
	return &ReorderResult{Swapped: true, TaskID: id, SwappedWith: &swappedWith}, nil
}

func (s *Store) CreateWorkspace(ctx context.Context, name string) (*WorkspaceResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("workspace name must not be blank")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid workspace name %q", name)
	}

	dir := filepath.Join(filepath.Dir(s.dir), name)
	existed := false
	if _, err := os.Stat(filepath.Join(dir, dbFileName)); err == nil {
		existed = true
	}
	if !existed {
		ws, err := Open(dir, StoreOpts{})
		if err != nil {
			return nil, err
		}
		if err := ws.Close(); err != nil {
			return nil, err
		}
	}
	return &WorkspaceResult{Path: dir, Name: name, Opened: false, Existed: existed}, nil
}

// ListWorkspaces returns sibling workspace names (dirs containing a tasks.db).
func (s *Store) ListWorkspaces() ([]string, error) {
	root := filepath.Dir(s.dir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), dbFileName)); err == nil {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) SyncToCalendar(ctx context.Context, id int64, durationHours float64) (*CalendarSyncResult, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cal == nil {
		return &CalendarSyncResult{Success: false, Error: "calendar not configured"}, nil
	}
	if !s.cal.Authenticated() {
		return &CalendarSyncResult{Success: false, Error: "not authenticated with calendar"}, nil
	}
	return s.cal.SyncTask(ctx, *task, durationHours)
}

func (s *Store) GcalStatus(ctx context.Context) (bool, error) {
	return s.cal != nil && s.cal.Authenticated(), nil
}

var _ API = (*Store)(nil)
