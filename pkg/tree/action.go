package tree

// Wire names of the actions, as used by the JSON codec.
const (
	KindInitProjects          = "INIT_PROJECTS"
	KindSetSelectedProject    = "SET_SELECTED_PROJECT"
	KindAddProject            = "ADD_PROJECT"
	KindUpdateProject         = "UPDATE_PROJECT"
	KindDeleteProject         = "DELETE_PROJECT"
	KindToggleProjectExpand   = "TOGGLE_PROJECT_EXPAND"
	KindAddMainTask           = "ADD_MAIN_TASK"
	KindUpdateMainTask        = "UPDATE_MAIN_TASK"
	KindDeleteMainTask        = "DELETE_MAIN_TASK"
	KindToggleMainTaskExpand  = "TOGGLE_MAIN_TASK_EXPAND"
	KindAddSubtask            = "ADD_SUBTASK"
	KindUpdateSubtask         = "UPDATE_SUBTASK"
	KindDeleteSubtask         = "DELETE_SUBTASK"
	KindToggleSubtaskComplete = "TOGGLE_SUBTASK_COMPLETE"
	KindDuplicateMainTask     = "DUPLICATE_MAIN_TASK"
)

// Action is one of the closed set of tree transitions defined in this package.
type Action interface {
	Kind() string
	isAction()
}

// InitProjects replaces the whole project list. Used once after the initial load.
type InitProjects struct {
	Projects []Project
}

// SetSelectedProject sets or (with an empty ID) clears the selection.
type SetSelectedProject struct {
	ID string
}

// AddProject appends a new project and selects it. ID is filled by Prepare.
type AddProject struct {
	ID    string `json:"-"`
	Title string `json:"title"`
}

type UpdateProject struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type DeleteProject struct {
	ID string
}

type ToggleProjectExpand struct {
	ID string
}

// AddMainTask appends a main task to a project. ID is filled by Prepare.
type AddMainTask struct {
	ProjectID string `json:"projectId"`
	ID        string `json:"-"`
	Title     string `json:"title"`
}

type UpdateMainTask struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
}

type DeleteMainTask struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
}

type ToggleMainTaskExpand struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
}

// AddSubtask appends an incomplete subtask. ID is filled by Prepare.
type AddSubtask struct {
	ProjectID     string `json:"projectId"`
	TaskID        string `json:"taskId"`
	ID            string `json:"-"`
	Title         string `json:"title"`
	EstimatedTime int    `json:"estimatedTime"`
}

type UpdateSubtask struct {
	ProjectID     string `json:"projectId"`
	TaskID        string `json:"taskId"`
	SubtaskID     string `json:"subtaskId"`
	Title         string `json:"title"`
	EstimatedTime int    `json:"estimatedTime"`
}

type DeleteSubtask struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

type ToggleSubtaskComplete struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
	SubtaskID string `json:"subtaskId"`
}

// DuplicateMainTask appends a deep copy of Task to the project. The copy gets
// NewTaskID and, positionally, NewSubtaskIDs; Prepare fills both.
type DuplicateMainTask struct {
	ProjectID     string   `json:"projectId"`
	Task          MainTask `json:"task"`
	NewTaskID     string   `json:"-"`
	NewSubtaskIDs []string `json:"-"`
}

func (InitProjects) Kind() string          { return KindInitProjects }
func (SetSelectedProject) Kind() string    { return KindSetSelectedProject }
func (AddProject) Kind() string            { return KindAddProject }
func (UpdateProject) Kind() string         { return KindUpdateProject }
func (DeleteProject) Kind() string         { return KindDeleteProject }
func (ToggleProjectExpand) Kind() string   { return KindToggleProjectExpand }
func (AddMainTask) Kind() string           { return KindAddMainTask }
func (UpdateMainTask) Kind() string        { return KindUpdateMainTask }
func (DeleteMainTask) Kind() string        { return KindDeleteMainTask }
func (ToggleMainTaskExpand) Kind() string  { return KindToggleMainTaskExpand }
func (AddSubtask) Kind() string            { return KindAddSubtask }
func (UpdateSubtask) Kind() string         { return KindUpdateSubtask }
func (DeleteSubtask) Kind() string         { return KindDeleteSubtask }
func (ToggleSubtaskComplete) Kind() string { return KindToggleSubtaskComplete }
func (DuplicateMainTask) Kind() string     { return KindDuplicateMainTask }

func (InitProjects) isAction()          {}
func (SetSelectedProject) isAction()    {}
func (AddProject) isAction()            {}
func (UpdateProject) isAction()         {}
func (DeleteProject) isAction()         {}
func (ToggleProjectExpand) isAction()   {}
func (AddMainTask) isAction()           {}
func (UpdateMainTask) isAction()        {}
func (DeleteMainTask) isAction()        {}
func (ToggleMainTaskExpand) isAction()  {}
func (AddSubtask) isAction()            {}
func (UpdateSubtask) isAction()         {}
func (DeleteSubtask) isAction()         {}
func (ToggleSubtaskComplete) isAction() {}
func (DuplicateMainTask) isAction()     {}
