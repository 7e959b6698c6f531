// Package progress derives completion percentages and time totals from the
// project tree. Nothing here is cached; callers recompute on demand.
//
// Main task progress is weighted by estimated time: a 90 minute subtask
// counts three times as much as a 30 minute one.
package progress

import (
	"fmt"
	"math"

	"tasktree/pkg/tree"
)

// MainTaskProgress returns the completed share of the task's estimated time,
// as a rounded percentage. A task with no estimated time is at 0.
func MainTaskProgress(t tree.MainTask) int {
	total := MainTaskTime(t)
	if total == 0 {
		return 0
	}
	done := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			done += s.EstimatedTime
		}
	}
	return percent(float64(done) / float64(total))
}

// MainTaskTime returns the summed estimated minutes of the task's subtasks.
func MainTaskTime(t tree.MainTask) int {
	total := 0
	for _, s := range t.Subtasks {
		total += s.EstimatedTime
	}
	return total
}

// ProjectProgress returns the mean progress of the project's main tasks,
// rounded. A project with no main tasks is at 0.
func ProjectProgress(p tree.Project) int {
	if len(p.MainTasks) == 0 {
		return 0
	}
	sum := 0
	for _, t := range p.MainTasks {
		sum += MainTaskProgress(t)
	}
	return int(math.Round(float64(sum) / float64(len(p.MainTasks))))
}

// ProjectTime returns the summed estimated minutes of the whole project.
func ProjectTime(p tree.Project) int {
	total := 0
	for _, t := range p.MainTasks {
		total += MainTaskTime(t)
	}
	return total
}

// FormatTime renders minutes as "45m", "2h" or "1h 5m".
func FormatTime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}
