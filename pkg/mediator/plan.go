package mediator

import (
	"context"
	"fmt"

	"tasktree/pkg/record"
	"tasktree/pkg/tree"
)

// Op is the kind of remote write.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Write is one remote operation derived from a dispatched action.
// Inserts carry rows; updates carry ID and Fields; deletes carry ID.
type Write struct {
	Op       Op
	Table    string
	ID       string
	Projects []record.ProjectRow
	Tasks    []record.TaskRow
	Fields   map[string]any
}

func (w Write) String() string {
	switch w.Op {
	case OpInsert:
		return fmt.Sprintf("insert %s (%d rows)", w.Table, len(w.Projects)+len(w.Tasks))
	default:
		return fmt.Sprintf("%s %s %s", w.Op, w.Table, w.ID)
	}
}

// Apply performs the write against store.
func (w Write) Apply(ctx context.Context, store record.Store) error {
	switch {
	case w.Op == OpInsert && w.Table == record.Projects:
		return store.InsertProjects(ctx, w.Projects...)
	case w.Op == OpInsert && w.Table == record.Tasks:
		return store.InsertTasks(ctx, w.Tasks...)
	case w.Op == OpUpdate && w.Table == record.Projects:
		return store.UpdateProject(ctx, w.ID, w.Fields)
	case w.Op == OpUpdate && w.Table == record.Tasks:
		return store.UpdateTask(ctx, w.ID, w.Fields)
	case w.Op == OpDelete && w.Table == record.Projects:
		return store.DeleteProject(ctx, w.ID)
	case w.Op == OpDelete && w.Table == record.Tasks:
		return store.DeleteTask(ctx, w.ID)
	default:
		return fmt.Errorf("unsupported write %s", w)
	}
}

// Plan returns the remote writes that mirror tr. It is pure: targets are
// looked up in tr.Prev (updates, deletes) or tr.Next (inserts, toggles), and
// an action that missed its target yields nothing. Selection and expansion
// are view state and are never written.
func Plan(tr tree.Transition, userID string) []Write {
	prev, next := tr.Prev, tr.Next

	switch a := tr.Action.(type) {
	case tree.AddProject:
		p, ok := next.Project(a.ID)
		if !ok || a.ID == "" {
			return nil
		}
		return []Write{{Op: OpInsert, Table: record.Projects, Projects: []record.ProjectRow{
			{ID: p.ID, Title: p.Title, UserID: userID},
		}}}

	case tree.UpdateProject:
		if _, ok := prev.Project(a.ID); !ok {
			return nil
		}
		return []Write{update(record.Projects, a.ID, map[string]any{"title": a.Title})}

	case tree.DeleteProject:
		if _, ok := prev.Project(a.ID); !ok {
			return nil
		}
		return []Write{{Op: OpDelete, Table: record.Projects, ID: a.ID}}

	case tree.AddMainTask:
		t, ok := mainTask(next, a.ProjectID, a.ID)
		if !ok || a.ID == "" {
			return nil
		}
		return []Write{{Op: OpInsert, Table: record.Tasks, Tasks: []record.TaskRow{
			mainTaskRow(t, a.ProjectID, userID),
		}}}

	case tree.UpdateMainTask:
		if _, ok := mainTask(prev, a.ProjectID, a.TaskID); !ok {
			return nil
		}
		return []Write{update(record.Tasks, a.TaskID, map[string]any{"title": a.Title})}

	case tree.DeleteMainTask:
		if _, ok := mainTask(prev, a.ProjectID, a.TaskID); !ok {
			return nil
		}
		return []Write{{Op: OpDelete, Table: record.Tasks, ID: a.TaskID}}

	case tree.AddSubtask:
		st, ok := subtask(next, a.ProjectID, a.TaskID, a.ID)
		if !ok || a.ID == "" {
			return nil
		}
		return []Write{{Op: OpInsert, Table: record.Tasks, Tasks: []record.TaskRow{
			subtaskRow(st, a.ProjectID, a.TaskID, userID),
		}}}

	case tree.UpdateSubtask:
		if _, ok := subtask(prev, a.ProjectID, a.TaskID, a.SubtaskID); !ok {
			return nil
		}
		return []Write{update(record.Tasks, a.SubtaskID, map[string]any{
			"title":          a.Title,
			"estimated_time": a.EstimatedTime,
		})}

	case tree.DeleteSubtask:
		if _, ok := subtask(prev, a.ProjectID, a.TaskID, a.SubtaskID); !ok {
			return nil
		}
		return []Write{{Op: OpDelete, Table: record.Tasks, ID: a.SubtaskID}}

	case tree.ToggleSubtaskComplete:
		st, ok := subtask(next, a.ProjectID, a.TaskID, a.SubtaskID)
		if !ok {
			return nil
		}
		return []Write{update(record.Tasks, a.SubtaskID, map[string]any{"completed": st.Completed})}

	case tree.DuplicateMainTask:
		t, ok := mainTask(next, a.ProjectID, a.NewTaskID)
		if !ok || a.NewTaskID == "" {
			return nil
		}
		rows := make([]record.TaskRow, 0, len(t.Subtasks)+1)
		rows = append(rows, mainTaskRow(t, a.ProjectID, userID))
		for _, st := range t.Subtasks {
			rows = append(rows, subtaskRow(st, a.ProjectID, t.ID, userID))
		}
		return []Write{{Op: OpInsert, Table: record.Tasks, Tasks: rows}}

	default:
		// InitProjects, SetSelectedProject, ToggleProjectExpand, ToggleMainTaskExpand
		return nil
	}
}

func update(table, id string, fields map[string]any) Write {
	return Write{Op: OpUpdate, Table: table, ID: id, Fields: fields}
}

func mainTaskRow(t tree.MainTask, projectID, userID string) record.TaskRow {
	return record.TaskRow{ID: t.ID, Title: t.Title, ProjectID: projectID, UserID: userID}
}

func subtaskRow(st tree.Subtask, projectID, taskID, userID string) record.TaskRow {
	parent := taskID
	return record.TaskRow{
		ID:            st.ID,
		Title:         st.Title,
		EstimatedTime: st.EstimatedTime,
		Completed:     st.Completed,
		ParentTask:    &parent,
		ProjectID:     projectID,
		UserID:        userID,
	}
}

func mainTask(s tree.State, projectID, taskID string) (tree.MainTask, bool) {
	p, ok := s.Project(projectID)
	if !ok {
		return tree.MainTask{}, false
	}
	return p.MainTask(taskID)
}

func subtask(s tree.State, projectID, taskID, subtaskID string) (tree.Subtask, bool) {
	t, ok := mainTask(s, projectID, taskID)
	if !ok {
		return tree.Subtask{}, false
	}
	return t.Subtask(subtaskID)
}
