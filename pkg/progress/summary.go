package progress

import "tasktree/pkg/tree"

// Summary is a project with its derived numbers filled in, ready for display.
type Summary struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Progress int           `json:"progress"`
	Minutes  int           `json:"minutes"`
	Duration string        `json:"duration"`
	Tasks    []TaskSummary `json:"tasks"`
}

type TaskSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Progress  int    `json:"progress"`
	Minutes   int    `json:"minutes"`
	Duration  string `json:"duration"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Summarize computes the Summary of p.
func Summarize(p tree.Project) Summary {
	minutes := ProjectTime(p)
	s := Summary{
		ID:       p.ID,
		Title:    p.Title,
		Progress: ProjectProgress(p),
		Minutes:  minutes,
		Duration: FormatTime(minutes),
		Tasks:    make([]TaskSummary, 0, len(p.MainTasks)),
	}
	for _, t := range p.MainTasks {
		done := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				done++
			}
		}
		m := MainTaskTime(t)
		s.Tasks = append(s.Tasks, TaskSummary{
			ID:        t.ID,
			Title:     t.Title,
			Progress:  MainTaskProgress(t),
			Minutes:   m,
			Duration:  FormatTime(m),
			Completed: done,
			Total:     len(t.Subtasks),
		})
	}
	return s
}
