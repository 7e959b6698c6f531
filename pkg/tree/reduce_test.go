package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktree/pkg/ident"
)

// fixture returns a small tree:
//
//	P1 "Website"
//	  T1 "Design" [S1 done 30m, S2 todo 90m]
//	  T2 "Build"  []
//	P2 "Garden"
func fixture() State {
	return State{
		Projects: []Project{
			{
				ID: "P1", Title: "Website", IsExpanded: true,
				MainTasks: []MainTask{
					{
						ID: "T1", Title: "Design", IsExpanded: true,
						Subtasks: []Subtask{
							{ID: "S1", Title: "Wireframes", Completed: true, EstimatedTime: 30},
							{ID: "S2", Title: "Mockups", EstimatedTime: 90},
						},
					},
					{ID: "T2", Title: "Build", IsExpanded: true, Subtasks: []Subtask{}},
				},
			},
			{ID: "P2", Title: "Garden", IsExpanded: true, MainTasks: []MainTask{}},
		},
		SelectedProjectID: "P1",
	}
}

func TestInitProjectsReplacesTree(t *testing.T) {
	s := fixture()
	next := Reduce(s, InitProjects{Projects: []Project{{ID: "P9", Title: "Only"}}})

	require.Len(t, next.Projects, 1)
	assert.Equal(t, "P9", next.Projects[0].ID)
	assert.Empty(t, next.SelectedProjectID, "selection pointing at a vanished project is cleared")

	kept := Reduce(s, InitProjects{Projects: s.Projects[:1]})
	assert.Equal(t, "P1", kept.SelectedProjectID)
}

func TestSetSelectedProject(t *testing.T) {
	s := fixture()

	assert.Equal(t, "P2", Reduce(s, SetSelectedProject{ID: "P2"}).SelectedProjectID)
	assert.Empty(t, Reduce(s, SetSelectedProject{}).SelectedProjectID)
	assert.Equal(t, s, Reduce(s, SetSelectedProject{ID: "nope"}))
}

func TestAddProjectAppendsAndSelects(t *testing.T) {
	s := fixture()
	next := Reduce(s, AddProject{ID: "P3", Title: "Taxes"})

	require.Len(t, next.Projects, 3)
	p := next.Projects[2]
	assert.Equal(t, Project{ID: "P3", Title: "Taxes", MainTasks: []MainTask{}, IsExpanded: true}, p)
	assert.Equal(t, "P3", next.SelectedProjectID)
	assert.Len(t, s.Projects, 2)
}

func TestUnpreparedCreatesAreNoOps(t *testing.T) {
	s := fixture()
	for _, a := range []Action{
		AddProject{Title: "x"},
		AddMainTask{ProjectID: "P1", Title: "x"},
		AddSubtask{ProjectID: "P1", TaskID: "T1", Title: "x"},
		DuplicateMainTask{ProjectID: "P1", Task: s.Projects[0].MainTasks[0]},
	} {
		assert.Equal(t, s, Reduce(s, a), a.Kind())
	}
}

func TestUpdateAndToggleProject(t *testing.T) {
	s := fixture()

	next := Reduce(s, UpdateProject{ID: "P2", Title: "Allotment"})
	assert.Equal(t, "Allotment", next.Projects[1].Title)
	assert.Equal(t, "Garden", s.Projects[1].Title)

	next = Reduce(s, ToggleProjectExpand{ID: "P1"})
	assert.False(t, next.Projects[0].IsExpanded)
	assert.True(t, Reduce(next, ToggleProjectExpand{ID: "P1"}).Projects[0].IsExpanded)
}

func TestDeleteProjectCascadesAndClearsSelection(t *testing.T) {
	s := fixture()
	next := Reduce(s, DeleteProject{ID: "P1"})

	require.Len(t, next.Projects, 1)
	assert.Equal(t, "P2", next.Projects[0].ID)
	assert.Empty(t, next.SelectedProjectID)
	assert.NotContains(t, next.IDs(), "T1")
	assert.NotContains(t, next.IDs(), "S1")

	other := Reduce(s, DeleteProject{ID: "P2"})
	assert.Equal(t, "P1", other.SelectedProjectID)
}

func TestMainTaskActions(t *testing.T) {
	s := fixture()

	next := Reduce(s, AddMainTask{ProjectID: "P2", ID: "T3", Title: "Dig"})
	require.Len(t, next.Projects[1].MainTasks, 1)
	assert.Equal(t, MainTask{ID: "T3", Title: "Dig", Subtasks: []Subtask{}, IsExpanded: true}, next.Projects[1].MainTasks[0])

	next = Reduce(s, UpdateMainTask{ProjectID: "P1", TaskID: "T2", Title: "Ship"})
	assert.Equal(t, "Ship", next.Projects[0].MainTasks[1].Title)

	next = Reduce(s, ToggleMainTaskExpand{ProjectID: "P1", TaskID: "T1"})
	assert.False(t, next.Projects[0].MainTasks[0].IsExpanded)

	next = Reduce(s, DeleteMainTask{ProjectID: "P1", TaskID: "T1"})
	require.Len(t, next.Projects[0].MainTasks, 1)
	assert.Equal(t, "T2", next.Projects[0].MainTasks[0].ID)
	assert.NotContains(t, next.IDs(), "S1")
}

func TestSubtaskActions(t *testing.T) {
	s := fixture()

	next := Reduce(s, AddSubtask{ProjectID: "P1", TaskID: "T2", ID: "S3", Title: "Deploy", EstimatedTime: 15})
	assert.Equal(t, []Subtask{{ID: "S3", Title: "Deploy", EstimatedTime: 15}}, next.Projects[0].MainTasks[1].Subtasks)

	next = Reduce(s, UpdateSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S2", Title: "Hi-fi mockups", EstimatedTime: 120})
	st := next.Projects[0].MainTasks[0].Subtasks[1]
	assert.Equal(t, "Hi-fi mockups", st.Title)
	assert.Equal(t, 120, st.EstimatedTime)
	assert.False(t, st.Completed)

	next = Reduce(s, DeleteSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S1"})
	assert.Equal(t, []string{"T1", "S2"}, next.Projects[0].MainTasks[0].IDs())
}

func TestToggleSubtaskTwiceRestores(t *testing.T) {
	s := fixture()
	for _, id := range []string{"S1", "S2"} {
		a := ToggleSubtaskComplete{ProjectID: "P1", TaskID: "T1", SubtaskID: id}
		once := Reduce(s, a)
		twice := Reduce(once, a)

		before, _ := s.Projects[0].MainTasks[0].Subtask(id)
		mid, _ := once.Projects[0].MainTasks[0].Subtask(id)
		after, _ := twice.Projects[0].MainTasks[0].Subtask(id)
		assert.Equal(t, !before.Completed, mid.Completed)
		assert.Equal(t, before.Completed, after.Completed)
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	s := fixture()
	actions := []Action{
		UpdateProject{ID: "X", Title: "x"},
		DeleteProject{ID: "X"},
		ToggleProjectExpand{ID: "X"},
		AddMainTask{ProjectID: "X", ID: "T9", Title: "x"},
		UpdateMainTask{ProjectID: "P1", TaskID: "X", Title: "x"},
		UpdateMainTask{ProjectID: "X", TaskID: "T1", Title: "x"},
		DeleteMainTask{ProjectID: "P1", TaskID: "X"},
		ToggleMainTaskExpand{ProjectID: "P2", TaskID: "T1"},
		AddSubtask{ProjectID: "P1", TaskID: "X", ID: "S9", Title: "x"},
		UpdateSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "X", Title: "x"},
		DeleteSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "X"},
		DeleteSubtask{ProjectID: "P1", TaskID: "T2", SubtaskID: "S1"},
		ToggleSubtaskComplete{ProjectID: "P1", TaskID: "T1", SubtaskID: "X"},
		DuplicateMainTask{ProjectID: "X", Task: s.Projects[0].MainTasks[0], NewTaskID: "T9", NewSubtaskIDs: []string{"a", "b"}},
		nil,
	}
	for _, a := range actions {
		next := Reduce(s, a)
		assert.Equal(t, s, next, "%T", a)
		assert.Equal(t, fixture(), s, "input mutated by %T", a)
	}
}

func TestReduceNeverMutatesInput(t *testing.T) {
	s := fixture()
	snapshot := s.Clone()
	alloc := ident.NewSequence("n")

	actions := []Action{
		AddProject{Title: "A"},
		UpdateProject{ID: "P1", Title: "B"},
		ToggleProjectExpand{ID: "P1"},
		AddMainTask{ProjectID: "P1", Title: "C"},
		UpdateMainTask{ProjectID: "P1", TaskID: "T1", Title: "D"},
		ToggleMainTaskExpand{ProjectID: "P1", TaskID: "T1"},
		AddSubtask{ProjectID: "P1", TaskID: "T1", Title: "E", EstimatedTime: 5},
		UpdateSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S1", Title: "F", EstimatedTime: 1},
		ToggleSubtaskComplete{ProjectID: "P1", TaskID: "T1", SubtaskID: "S2"},
		DeleteSubtask{ProjectID: "P1", TaskID: "T1", SubtaskID: "S1"},
		DuplicateMainTask{ProjectID: "P1", Task: s.Projects[0].MainTasks[0]},
		DeleteMainTask{ProjectID: "P1", TaskID: "T1"},
		DeleteProject{ID: "P1"},
	}
	for _, a := range actions {
		Reduce(s, Prepare(a, alloc))
		require.Equal(t, snapshot, s, "%T mutated its input", a)
	}
}

func TestDuplicateMainTask(t *testing.T) {
	s := fixture()
	src := s.Projects[0].MainTasks[0]
	a := Prepare(DuplicateMainTask{ProjectID: "P1", Task: src}, ident.NewSequence("d")).(DuplicateMainTask)

	next := Reduce(s, a)
	require.Len(t, next.Projects[0].MainTasks, 3)
	dup := next.Projects[0].MainTasks[2]

	assert.Equal(t, "Design (copy)", dup.Title)
	assert.True(t, dup.IsExpanded)
	require.Len(t, dup.Subtasks, len(src.Subtasks))
	for i, st := range dup.Subtasks {
		assert.False(t, st.Completed)
		assert.Equal(t, src.Subtasks[i].Title, st.Title)
		assert.Equal(t, src.Subtasks[i].EstimatedTime, st.EstimatedTime)
	}

	srcIDs := src.IDs()
	for _, id := range dup.IDs() {
		assert.NotContains(t, srcIDs, id)
	}
	assert.Equal(t, []string{"d-1", "d-2", "d-3"}, dup.IDs())

	orig, _ := next.Projects[0].MainTask("T1")
	assert.True(t, orig.Subtasks[0].Completed, "source task keeps its completion state")
}

func TestIDsStayUniqueAcrossDispatches(t *testing.T) {
	store := NewStore(ident.UUID{}, State{})
	p := store.Dispatch(AddProject{Title: "P"}).SelectedProjectID
	store.Dispatch(AddMainTask{ProjectID: p, Title: "T"})
	task := store.State().Projects[0].MainTasks[0]
	for i := 0; i < 5; i++ {
		store.Dispatch(AddSubtask{ProjectID: p, TaskID: task.ID, Title: "S", EstimatedTime: i})
	}
	task = store.State().Projects[0].MainTasks[0]
	store.Dispatch(DuplicateMainTask{ProjectID: p, Task: task})
	store.Dispatch(DuplicateMainTask{ProjectID: p, Task: task})

	ids := store.State().IDs()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, ids, 1+3*6)
}
