// Package record is the remote side of the tree: two flat tables, projects
// and tasks, behind a plain CRUD contract. A task row without a parent_task
// is a main task; a task row with one is a subtask of that main task.
package record

import (
	"context"
	"errors"
	"time"
)

// Table names.
const (
	Projects = "projects"
	Tasks    = "tasks"
)

// ErrUnknownBackend is returned when a configured backend name is not recognised.
var ErrUnknownBackend = errors.New("unknown record backend")

// ProjectRow is one row of the projects table.
type ProjectRow struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	UserID string `json:"user_id,omitempty"`
}

// TaskRow is one row of the tasks table.
type TaskRow struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	EstimatedTime int        `json:"estimated_time"`
	Completed     bool       `json:"completed"`
	DueDate       *time.Time `json:"due_date"`
	Notes         *string    `json:"notes"`
	ParentTask    *string    `json:"parent_task"`
	ProjectID     string     `json:"project_id"`
	UserID        string     `json:"user_id,omitempty"`
}

// IsMainTask reports whether the row has no parent task.
func (r TaskRow) IsMainTask() bool {
	return r.ParentTask == nil || *r.ParentTask == ""
}

// Columns that may be changed through UpdateProject and UpdateTask.
// Other keys in an update are ignored.
var (
	ProjectColumns = []string{"title"}
	TaskColumns    = []string{"title", "estimated_time", "completed", "due_date", "notes"}
)

// Store is the contract for the remote record store. Every call is
// independent: there are no transactions spanning calls.
type Store interface {
	EnsureTables(ctx context.Context) error

	SelectProjects(ctx context.Context) ([]ProjectRow, error)
	SelectTasks(ctx context.Context) ([]TaskRow, error)

	InsertProjects(ctx context.Context, rows ...ProjectRow) error
	InsertTasks(ctx context.Context, rows ...TaskRow) error

	UpdateProject(ctx context.Context, id string, fields map[string]any) error
	UpdateTask(ctx context.Context, id string, fields map[string]any) error

	DeleteProject(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
