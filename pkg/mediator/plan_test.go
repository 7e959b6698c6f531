package mediator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktree/pkg/ident"
	"tasktree/pkg/record"
	"tasktree/pkg/tree"
)

// seeded returns a store holding P1 > T1 > [S1 (30m, done), S2 (90m)].
func seeded(t *testing.T) *tree.Store {
	t.Helper()
	s := tree.NewStore(ident.NewSequence("n"), tree.State{
		Projects: []tree.Project{{
			ID: "P1", Title: "Website", IsExpanded: true,
			MainTasks: []tree.MainTask{{
				ID: "T1", Title: "Design", IsExpanded: true,
				Subtasks: []tree.Subtask{
					{ID: "S1", Title: "Wireframes", Completed: true, EstimatedTime: 30},
					{ID: "S2", Title: "Mockups", EstimatedTime: 90},
				},
			}},
		}},
		SelectedProjectID: "P1",
	})
	return s
}

func ptr(s string) *string { return &s }

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		action tree.Action
		want   []Write
	}{
		{
			"add project",
			tree.AddProject{Title: "Garden"},
			[]Write{{Op: OpInsert, Table: record.Projects, Projects: []record.ProjectRow{{ID: "n-1", Title: "Garden", UserID: "u"}}}},
		},
		{
			"update project",
			tree.UpdateProject{ID: "P1", Title: "Site"},
			[]Write{{Op: OpUpdate, Table: record.Projects, ID: "P1", Fields: map[string]any{"title": "Site"}}},
		},
		{
			"delete project",
			tree.DeleteProject{ID: "P1"},
			[]Write{{Op: OpDelete, Table: record.Projects, ID: "P1"}},
		},
		{
			"add main task",
			tree.AddMainTask{ProjectID: "P1", Title: "Build"},
			[]Write{{Op: OpInsert, Table: record.Tasks, Tasks: []record.TaskRow{{ID: "n-1", Title: "Build", ProjectID: "P1", UserID: "u"}}}},
		},
		{
			"update main task",
			tree.UpdateMainTask{ProjectID: "P1", TaskID: "T1", Title: "Plan"},
			[]Write{{Op: OpUpdate, Table: record.Tasks, ID: "T1", Fields: map[string]any{"title": "Plan"}}},
		},
		{
			"delete main task",
			tree.DeleteMainTask{ProjectID: "P1", TaskID: "T1"},
			[]Write{{Op: OpDelete, Table: record.Tasks, ID: "T1"}},
		},
		{
			"add subtask",
			tree.AddSubtask{ProjectID: "P1", TaskID: "T1", Title: "Review", EstimatedTime: 20},
			[]Write{{Op: OpInsert, Table: record.Tasks, Tasks: []record.TaskRow{
				{ID: "n-1", Title: "Review", EstimatedTime: 20, ParentTask: ptr("T1"), ProjectID: "P1", UserID: "u"},
			}}},
		},
		{
			"update subtask",
			tree.UpdateSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S2", Title: "Hi-fi", EstimatedTime: 120},
			[]Write{{Op: OpUpdate, Table: record.Tasks, ID: "S2", Fields: map[string]any{"title": "Hi-fi", "estimated_time": 120}}},
		},
		{
			"delete subtask",
			tree.DeleteSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S2"},
			[]Write{{Op: OpDelete, Table: record.Tasks, ID: "S2"}},
		},
		{
			"toggle subtask writes the new value",
			tree.ToggleSubtaskComplete{ProjectID: "P1", TaskID: "T1", SubtaskID: "S1"},
			[]Write{{Op: OpUpdate, Table: record.Tasks, ID: "S1", Fields: map[string]any{"completed": false}}},
		},
		{"select is not persisted", tree.SetSelectedProject{ID: "P1"}, nil},
		{"project expand is not persisted", tree.ToggleProjectExpand{ID: "P1"}, nil},
		{"task expand is not persisted", tree.ToggleMainTaskExpand{ProjectID: "P1", TaskID: "T1"}, nil},
		{"init is not persisted", tree.InitProjects{}, nil},
		{"missing project", tree.UpdateProject{ID: "X", Title: "x"}, nil},
		{"missing delete", tree.DeleteProject{ID: "X"}, nil},
		{"missing parent for add", tree.AddMainTask{ProjectID: "X", Title: "x"}, nil},
		{"missing task", tree.DeleteMainTask{ProjectID: "P1", TaskID: "X"}, nil},
		{"missing subtask", tree.ToggleSubtaskComplete{ProjectID: "P1", TaskID: "T1", SubtaskID: "X"}, nil},
		{"missing subtask parent", tree.AddSubtask{ProjectID: "P1", TaskID: "X", Title: "x"}, nil},
		{"missing subtask update", tree.UpdateSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "X", Title: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := seeded(t).Apply(tt.action)
			assert.Equal(t, tt.want, Plan(tr, "u"))
		})
	}
}

func TestPlanDuplicateMirrorsClone(t *testing.T) {
	store := seeded(t)
	src, _ := store.State().Projects[0].MainTask("T1")

	tr := store.Apply(tree.DuplicateMainTask{ProjectID: "P1", Task: src})
	writes := Plan(tr, "u")

	require.Len(t, writes, 1)
	w := writes[0]
	assert.Equal(t, OpInsert, w.Op)
	assert.Equal(t, record.Tasks, w.Table)
	assert.Equal(t, []record.TaskRow{
		{ID: "n-1", Title: "Design (copy)", ProjectID: "P1", UserID: "u"},
		{ID: "n-2", Title: "Wireframes", EstimatedTime: 30, ParentTask: ptr("n-1"), ProjectID: "P1", UserID: "u"},
		{ID: "n-3", Title: "Mockups", EstimatedTime: 90, ParentTask: ptr("n-1"), ProjectID: "P1", UserID: "u"},
	}, w.Tasks)

	dup, ok := tr.Next.Projects[0].MainTask("n-1")
	require.True(t, ok)
	for i, st := range dup.Subtasks {
		assert.Equal(t, st.ID, w.Tasks[i+1].ID)
		assert.False(t, w.Tasks[i+1].Completed)
	}
}

func TestWriteString(t *testing.T) {
	assert.Equal(t, "insert tasks (2 rows)", Write{Op: OpInsert, Table: record.Tasks, Tasks: make([]record.TaskRow, 2)}.String())
	assert.Equal(t, "delete projects P1", Write{Op: OpDelete, Table: record.Projects, ID: "P1"}.String())
}
