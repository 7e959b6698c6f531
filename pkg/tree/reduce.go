package tree

import (
	"fmt"
	"slices"
)

// CopySuffix is appended to the title of a duplicated main task.
const CopySuffix = " (copy)"

// Reduce returns the state that results from applying a to s. It never
// mutates s: changed levels of the tree are copied, untouched levels are
// shared. An action whose ids match nothing returns s unchanged.
//
// Actions that create nodes must carry their ids already (see Prepare);
// an unprepared create is a no-op.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case nil:
		return s

	case InitProjects:
		s.Projects = a.Projects
		if _, ok := s.Project(s.SelectedProjectID); !ok {
			s.SelectedProjectID = ""
		}
		return s

	case SetSelectedProject:
		if a.ID == "" {
			s.SelectedProjectID = ""
			return s
		}
		if _, ok := s.Project(a.ID); !ok {
			return s
		}
		s.SelectedProjectID = a.ID
		return s

	case AddProject:
		if a.ID == "" {
			return s
		}
		s.Projects = append(slices.Clip(s.Projects), Project{
			ID:         a.ID,
			Title:      a.Title,
			MainTasks:  []MainTask{},
			IsExpanded: true,
		})
		s.SelectedProjectID = a.ID
		return s

	case UpdateProject:
		return s.withProject(a.ID, func(p Project) (Project, bool) {
			p.Title = a.Title
			return p, true
		})

	case DeleteProject:
		projects, ok := without(s.Projects, func(p Project) bool { return p.ID == a.ID })
		if !ok {
			return s
		}
		s.Projects = projects
		if s.SelectedProjectID == a.ID {
			s.SelectedProjectID = ""
		}
		return s

	case ToggleProjectExpand:
		return s.withProject(a.ID, func(p Project) (Project, bool) {
			p.IsExpanded = !p.IsExpanded
			return p, true
		})

	case AddMainTask:
		if a.ID == "" {
			return s
		}
		return s.withProject(a.ProjectID, func(p Project) (Project, bool) {
			p.MainTasks = append(slices.Clip(p.MainTasks), MainTask{
				ID:         a.ID,
				Title:      a.Title,
				Subtasks:   []Subtask{},
				IsExpanded: true,
			})
			return p, true
		})

	case UpdateMainTask:
		return s.withMainTask(a.ProjectID, a.TaskID, func(t MainTask) (MainTask, bool) {
			t.Title = a.Title
			return t, true
		})

	case DeleteMainTask:
		return s.withProject(a.ProjectID, func(p Project) (Project, bool) {
			tasks, ok := without(p.MainTasks, func(t MainTask) bool { return t.ID == a.TaskID })
			p.MainTasks = tasks
			return p, ok
		})

	case ToggleMainTaskExpand:
		return s.withMainTask(a.ProjectID, a.TaskID, func(t MainTask) (MainTask, bool) {
			t.IsExpanded = !t.IsExpanded
			return t, true
		})

	case AddSubtask:
		if a.ID == "" {
			return s
		}
		return s.withMainTask(a.ProjectID, a.TaskID, func(t MainTask) (MainTask, bool) {
			t.Subtasks = append(slices.Clip(t.Subtasks), Subtask{
				ID:            a.ID,
				Title:         a.Title,
				EstimatedTime: a.EstimatedTime,
			})
			return t, true
		})

	case UpdateSubtask:
		return s.withSubtask(a.ProjectID, a.TaskID, a.SubtaskID, func(st Subtask) Subtask {
			st.Title = a.Title
			st.EstimatedTime = a.EstimatedTime
			return st
		})

	case DeleteSubtask:
		return s.withMainTask(a.ProjectID, a.TaskID, func(t MainTask) (MainTask, bool) {
			subtasks, ok := without(t.Subtasks, func(st Subtask) bool { return st.ID == a.SubtaskID })
			t.Subtasks = subtasks
			return t, ok
		})

	case ToggleSubtaskComplete:
		return s.withSubtask(a.ProjectID, a.TaskID, a.SubtaskID, func(st Subtask) Subtask {
			st.Completed = !st.Completed
			return st
		})

	case DuplicateMainTask:
		clone, ok := duplicate(a)
		if !ok {
			return s
		}
		return s.withProject(a.ProjectID, func(p Project) (Project, bool) {
			p.MainTasks = append(slices.Clip(p.MainTasks), clone)
			return p, true
		})

	default:
		panic(fmt.Sprintf("tree: unhandled action %T", a))
	}
}

// duplicate builds the copy described by a. It reports false when a has not
// been prepared with enough ids.
func duplicate(a DuplicateMainTask) (MainTask, bool) {
	if a.NewTaskID == "" || len(a.NewSubtaskIDs) < len(a.Task.Subtasks) {
		return MainTask{}, false
	}
	subtasks := make([]Subtask, len(a.Task.Subtasks))
	for i, st := range a.Task.Subtasks {
		subtasks[i] = Subtask{
			ID:            a.NewSubtaskIDs[i],
			Title:         st.Title,
			EstimatedTime: st.EstimatedTime,
		}
	}
	return MainTask{
		ID:         a.NewTaskID,
		Title:      a.Task.Title + CopySuffix,
		Subtasks:   subtasks,
		IsExpanded: true,
	}, true
}

// withProject replaces the project with the given id by fn's result. When the
// project is missing or fn reports no change, s is returned as is.
func (s State) withProject(id string, fn func(Project) (Project, bool)) State {
	i := slices.IndexFunc(s.Projects, func(p Project) bool { return p.ID == id })
	if i < 0 {
		return s
	}
	p, changed := fn(s.Projects[i])
	if !changed {
		return s
	}
	projects := slices.Clone(s.Projects)
	projects[i] = p
	s.Projects = projects
	return s
}

func (s State) withMainTask(projectID, taskID string, fn func(MainTask) (MainTask, bool)) State {
	return s.withProject(projectID, func(p Project) (Project, bool) {
		i := slices.IndexFunc(p.MainTasks, func(t MainTask) bool { return t.ID == taskID })
		if i < 0 {
			return p, false
		}
		t, changed := fn(p.MainTasks[i])
		if !changed {
			return p, false
		}
		tasks := slices.Clone(p.MainTasks)
		tasks[i] = t
		p.MainTasks = tasks
		return p, true
	})
}

func (s State) withSubtask(projectID, taskID, subtaskID string, fn func(Subtask) Subtask) State {
	return s.withMainTask(projectID, taskID, func(t MainTask) (MainTask, bool) {
		i := slices.IndexFunc(t.Subtasks, func(st Subtask) bool { return st.ID == subtaskID })
		if i < 0 {
			return t, false
		}
		subtasks := slices.Clone(t.Subtasks)
		subtasks[i] = fn(subtasks[i])
		t.Subtasks = subtasks
		return t, true
	})
}

// without returns a copy of items minus those matching drop, and whether
// anything was dropped. When nothing matches, items itself is returned.
func without[T any](items []T, drop func(T) bool) ([]T, bool) {
	if !slices.ContainsFunc(items, drop) {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out, true
}
