package record

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore is a record store backed by a local SQLite file. It speaks the
// same two-table schema as PgStore.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer at a time; background writes queue on the pool
	db.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteStore) EnsureTables(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id      TEXT PRIMARY KEY,
			title   TEXT NOT NULL,
			user_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			estimated_time INTEGER NOT NULL DEFAULT 0,
			completed      INTEGER NOT NULL DEFAULT 0,
			due_date       TEXT,
			notes          TEXT,
			parent_task    TEXT,
			project_id     TEXT NOT NULL,
			user_id        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure tables: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) SelectProjects(ctx context.Context) ([]ProjectRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, user_id FROM projects ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ProjectRow
	for rows.Next() {
		var p ProjectRow
		var userID sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &userID); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.UserID = userID.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SelectTasks(ctx context.Context) ([]TaskRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, estimated_time, completed, due_date, notes, parent_task, project_id, user_id
		FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TaskRow
	for rows.Next() {
		var t TaskRow
		var due, notes, parent, userID sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.EstimatedTime, &t.Completed, &due, &notes, &parent, &t.ProjectID, &userID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if due.Valid {
			d, err := time.Parse(time.RFC3339Nano, due.String)
			if err != nil {
				return nil, fmt.Errorf("task %s due_date: %w", t.ID, err)
			}
			t.DueDate = &d
		}
		if notes.Valid {
			t.Notes = &notes.String
		}
		if parent.Valid {
			t.ParentTask = &parent.String
		}
		t.UserID = userID.String
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

// InsertProjects inserts all rows with one multi-row statement.
func (s *SQLiteStore) InsertProjects(ctx context.Context, rows ...ProjectRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*3)
	for _, p := range rows {
		values = append(values, "(?, ?, ?)")
		args = append(args, p.ID, p.Title, nilIfEmpty(p.UserID))
	}
	query := `INSERT INTO projects (id, title, user_id) VALUES ` + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert projects: %w", err)
	}
	return nil
}

// InsertTasks inserts all rows with one multi-row statement.
func (s *SQLiteStore) InsertTasks(ctx context.Context, rows ...TaskRow) error {
	if len(rows) == 0 {
		return nil
	}
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*9)
	for _, t := range rows {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, t.ID, t.Title, t.EstimatedTime, t.Completed, sqliteTime(t.DueDate), t.Notes, t.ParentTask, t.ProjectID, nilIfEmpty(t.UserID))
	}
	query := `INSERT INTO tasks (id, title, estimated_time, completed, due_date, notes, parent_task, project_id, user_id) VALUES ` +
		strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, id string, fields map[string]any) error {
	query, args, ok := buildUpdate(Projects, ProjectColumns, id, fields, sqlitePlaceholder, nil)
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	query, args, ok := buildUpdate(Tasks, TaskColumns, id, fields, sqlitePlaceholder, sqliteValue)
	if !ok {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func sqlitePlaceholder(int) string { return "?" }

func sqliteValue(column string, v any) any {
	if column == "due_date" {
		if t, ok := v.(*time.Time); ok {
			return sqliteTime(t)
		}
	}
	return v
}

func sqliteTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}
