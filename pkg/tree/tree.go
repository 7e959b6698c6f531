// Package tree owns the in-memory project hierarchy: projects hold main
// tasks, main tasks hold subtasks, and nothing nests deeper than that.
//
// All mutation goes through Reduce, a pure transition over State. Store wraps
// Reduce with id allocation, serialized dispatch and change notification.
package tree

import "slices"

// Subtask is a leaf work item.
type Subtask struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Completed     bool   `json:"completed"`
	EstimatedTime int    `json:"estimatedTime"` // minutes, never negative
}

// MainTask owns an ordered list of subtasks.
type MainTask struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subtasks   []Subtask `json:"subtasks"`
	IsExpanded bool      `json:"isExpanded"`
}

// Project owns an ordered list of main tasks.
type Project struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	MainTasks  []MainTask `json:"mainTasks"`
	IsExpanded bool       `json:"isExpanded"`
}

// State is the whole tree plus the selected project pointer.
// SelectedProjectID is empty when nothing is selected.
type State struct {
	Projects          []Project `json:"projects"`
	SelectedProjectID string    `json:"selectedProjectId,omitempty"`
}

// Project returns the project with the given id.
func (s State) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// SelectedProject returns the currently selected project, if any.
func (s State) SelectedProject() (Project, bool) {
	if s.SelectedProjectID == "" {
		return Project{}, false
	}
	return s.Project(s.SelectedProjectID)
}

// MainTask returns the main task with the given id.
func (p Project) MainTask(id string) (MainTask, bool) {
	for _, t := range p.MainTasks {
		if t.ID == id {
			return t, true
		}
	}
	return MainTask{}, false
}

// Subtask returns the subtask with the given id.
func (t MainTask) Subtask(id string) (Subtask, bool) {
	for _, s := range t.Subtasks {
		if s.ID == id {
			return s, true
		}
	}
	return Subtask{}, false
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	out := State{SelectedProjectID: s.SelectedProjectID}
	if s.Projects != nil {
		out.Projects = make([]Project, len(s.Projects))
		for i, p := range s.Projects {
			out.Projects[i] = p.clone()
		}
	}
	return out
}

func (p Project) clone() Project {
	if p.MainTasks != nil {
		tasks := make([]MainTask, len(p.MainTasks))
		for i, t := range p.MainTasks {
			t.Subtasks = slices.Clone(t.Subtasks)
			tasks[i] = t
		}
		p.MainTasks = tasks
	}
	return p
}

// IDs returns every id in the tree, in tree order.
func (s State) IDs() []string {
	var ids []string
	for _, p := range s.Projects {
		ids = append(ids, p.ID)
		for _, t := range p.MainTasks {
			ids = append(ids, t.IDs()...)
		}
	}
	return ids
}

// IDs returns the main task id followed by its subtask ids.
func (t MainTask) IDs() []string {
	ids := make([]string, 0, len(t.Subtasks)+1)
	ids = append(ids, t.ID)
	for _, s := range t.Subtasks {
		ids = append(ids, s.ID)
	}
	return ids
}
