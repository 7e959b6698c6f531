package record

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed record store.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTables creates the projects and tasks tables if they don't exist.
// There are no foreign keys: writes arrive unordered, and rows whose parent
// is gone are skipped when the tree is rebuilt. Rows are read back in seq
// order; created_at is shared by every row of one batch.
func (s *PgStore) EnsureTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			user_id    TEXT,
			seq        BIGSERIAL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			estimated_time INTEGER NOT NULL DEFAULT 0,
			completed      BOOLEAN NOT NULL DEFAULT false,
			due_date       TIMESTAMPTZ,
			notes          TEXT,
			parent_task    TEXT,
			project_id     TEXT NOT NULL,
			user_id        TEXT,
			seq            BIGSERIAL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	// tables created before seq existed
	for _, table := range []string{Projects, Tasks} {
		if _, err := s.pool.Exec(ctx, `ALTER TABLE `+table+` ADD COLUMN IF NOT EXISTS seq BIGSERIAL`); err != nil {
			return err
		}
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task) WHERE parent_task IS NOT NULL`)
	return err
}

// SelectProjects returns every project row.
func (s *PgStore) SelectProjects(ctx context.Context) ([]ProjectRow, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, user_id FROM projects ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("select projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectRow
	for rows.Next() {
		var p ProjectRow
		var userID *string
		if err := rows.Scan(&p.ID, &p.Title, &userID); err != nil {
			return nil, err
		}
		p.UserID = valueOf(userID)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return out, nil
}

// SelectTasks returns every task row, main tasks and subtasks alike.
func (s *PgStore) SelectTasks(ctx context.Context) ([]TaskRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, estimated_time, completed, due_date, notes, parent_task, project_id, user_id
		FROM tasks ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

// InsertProjects inserts all rows in one batch.
func (s *PgStore) InsertProjects(ctx context.Context, rows ...ProjectRow) error {
	batch := &pgx.Batch{}
	for _, p := range rows {
		batch.Queue(`INSERT INTO projects (id, title, user_id) VALUES ($1, $2, $3)`,
			p.ID, p.Title, nilIfEmpty(p.UserID))
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert projects: %w", err)
	}
	return nil
}

// InsertTasks inserts all rows in one batch. Rows are sent in order, so a
// main task queued before its subtasks lands first.
func (s *PgStore) InsertTasks(ctx context.Context, rows ...TaskRow) error {
	batch := &pgx.Batch{}
	for _, t := range rows {
		batch.Queue(`
			INSERT INTO tasks (id, title, estimated_time, completed, due_date, notes, parent_task, project_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.Title, t.EstimatedTime, t.Completed, t.DueDate, t.Notes, t.ParentTask, t.ProjectID, nilIfEmpty(t.UserID))
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

// UpdateProject changes the given columns of one project. Supported keys: title.
func (s *PgStore) UpdateProject(ctx context.Context, id string, fields map[string]any) error {
	query, args, ok := buildUpdate(Projects, ProjectColumns, id, fields, pgPlaceholder, nil)
	if !ok {
		return nil
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update project %s: %w", id, err)
	}
	return nil
}

// UpdateTask changes the given columns of one task. Supported keys: title,
// estimated_time, completed, due_date, notes.
func (s *PgStore) UpdateTask(ctx context.Context, id string, fields map[string]any) error {
	query, args, ok := buildUpdate(Tasks, TaskColumns, id, fields, pgPlaceholder, nil)
	if !ok {
		return nil
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return nil
}

// DeleteProject removes one project row. Its task rows are left in place.
func (s *PgStore) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}

// DeleteTask removes one task row.
func (s *PgStore) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func pgPlaceholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func scanTaskRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]TaskRow, error) {
	var tasks []TaskRow
	for rows.Next() {
		var t TaskRow
		var userID *string
		if err := rows.Scan(&t.ID, &t.Title, &t.EstimatedTime, &t.Completed, &t.DueDate, &t.Notes, &t.ParentTask, &t.ProjectID, &userID); err != nil {
			return nil, err
		}
		t.UserID = valueOf(userID)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}
