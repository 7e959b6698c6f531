package record

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// MemStore is an in-process Store. Rows keep insertion order. FailWith, when
// set, is consulted before every call and its error returned instead.
type MemStore struct {
	mu       sync.Mutex
	projects []ProjectRow
	tasks    []TaskRow
	calls    []string

	FailWith func(op, table string) error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Seed replaces the stored rows.
func (s *MemStore) Seed(projects []ProjectRow, tasks []TaskRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = slices.Clone(projects)
	s.tasks = slices.Clone(tasks)
}

// Calls returns the operations performed so far, as "op table" strings.
func (s *MemStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

func (s *MemStore) begin(op, table string) error {
	s.calls = append(s.calls, op+" "+table)
	if s.FailWith != nil {
		return s.FailWith(op, table)
	}
	return nil
}

func (s *MemStore) EnsureTables(_ context.Context) error { return nil }

func (s *MemStore) SelectProjects(_ context.Context) ([]ProjectRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("select", Projects); err != nil {
		return nil, err
	}
	return slices.Clone(s.projects), nil
}

func (s *MemStore) SelectTasks(_ context.Context) ([]TaskRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("select", Tasks); err != nil {
		return nil, err
	}
	return slices.Clone(s.tasks), nil
}

func (s *MemStore) InsertProjects(_ context.Context, rows ...ProjectRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("insert", Projects); err != nil {
		return err
	}
	for _, r := range rows {
		if slices.ContainsFunc(s.projects, func(p ProjectRow) bool { return p.ID == r.ID }) {
			return fmt.Errorf("insert project %s: duplicate id", r.ID)
		}
	}
	s.projects = append(s.projects, rows...)
	return nil
}

func (s *MemStore) InsertTasks(_ context.Context, rows ...TaskRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("insert", Tasks); err != nil {
		return err
	}
	for _, r := range rows {
		if slices.ContainsFunc(s.tasks, func(t TaskRow) bool { return t.ID == r.ID }) {
			return fmt.Errorf("insert task %s: duplicate id", r.ID)
		}
	}
	s.tasks = append(s.tasks, rows...)
	return nil
}

func (s *MemStore) UpdateProject(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("update", Projects); err != nil {
		return err
	}
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		if v, ok := fields["title"].(string); ok {
			s.projects[i].Title = v
		}
	}
	return nil
}

func (s *MemStore) UpdateTask(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("update", Tasks); err != nil {
		return err
	}
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "title":
				if title, ok := v.(string); ok {
					t.Title = title
				}
			case "estimated_time":
				if n, ok := v.(int); ok {
					t.EstimatedTime = n
				}
			case "completed":
				if done, ok := v.(bool); ok {
					t.Completed = done
				}
			case "due_date":
				t.DueDate, _ = v.(*time.Time)
			case "notes":
				t.Notes, _ = v.(*string)
			}
		}
	}
	return nil
}

func (s *MemStore) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("delete", Projects); err != nil {
		return err
	}
	s.projects = slices.DeleteFunc(s.projects, func(p ProjectRow) bool { return p.ID == id })
	return nil
}

func (s *MemStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("delete", Tasks); err != nil {
		return err
	}
	s.tasks = slices.DeleteFunc(s.tasks, func(t TaskRow) bool { return t.ID == id })
	return nil
}
