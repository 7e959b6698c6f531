package record

import "tasktree/pkg/tree"

// Rebuild assembles the project tree from flat rows. Main tasks are grouped
// under their project_id and subtasks under their parent_task; rows pointing
// at a parent that is not in the result are dropped. Every node comes back
// expanded, since expansion is never stored.
func Rebuild(projects []ProjectRow, tasks []TaskRow) []tree.Project {
	mains := make(map[string][]TaskRow)
	subs := make(map[string][]TaskRow)
	for _, t := range tasks {
		if t.IsMainTask() {
			mains[t.ProjectID] = append(mains[t.ProjectID], t)
		} else {
			subs[*t.ParentTask] = append(subs[*t.ParentTask], t)
		}
	}

	out := make([]tree.Project, 0, len(projects))
	for _, p := range projects {
		project := tree.Project{
			ID:         p.ID,
			Title:      p.Title,
			MainTasks:  make([]tree.MainTask, 0, len(mains[p.ID])),
			IsExpanded: true,
		}
		for _, m := range mains[p.ID] {
			task := tree.MainTask{
				ID:         m.ID,
				Title:      m.Title,
				Subtasks:   make([]tree.Subtask, 0, len(subs[m.ID])),
				IsExpanded: true,
			}
			for _, s := range subs[m.ID] {
				task.Subtasks = append(task.Subtasks, tree.Subtask{
					ID:            s.ID,
					Title:         s.Title,
					Completed:     s.Completed,
					EstimatedTime: s.EstimatedTime,
				})
			}
			project.MainTasks = append(project.MainTasks, task)
		}
		out = append(out, project)
	}
	return out
}
