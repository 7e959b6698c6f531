package tree

import "tasktree/pkg/ident"

// Prepare fills in the ids a creating action needs, leaving ids that are
// already set alone. Other actions are returned unchanged.
func Prepare(a Action, alloc ident.Allocator) Action {
	switch a := a.(type) {
	case AddProject:
		if a.ID == "" {
			a.ID = alloc.NewID()
		}
		return a
	case AddMainTask:
		if a.ID == "" {
			a.ID = alloc.NewID()
		}
		return a
	case AddSubtask:
		if a.ID == "" {
			a.ID = alloc.NewID()
		}
		return a
	case DuplicateMainTask:
		if a.NewTaskID == "" {
			a.NewTaskID = alloc.NewID()
		}
		ids := make([]string, len(a.Task.Subtasks))
		n := copy(ids, a.NewSubtaskIDs)
		for i := n; i < len(ids); i++ {
			ids[i] = alloc.NewID()
		}
		a.NewSubtaskIDs = ids
		return a
	default:
		return a
	}
}
