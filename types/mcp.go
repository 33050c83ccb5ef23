package types

// MCP Tool Parameter Types

// SetupProjectParams for creating or replacing the active project on a branch.
type SetupProjectParams struct {
	Name   string `json:"name" mcp:"Project name (required)"`
	Goal   string `json:"goal,omitempty" mcp:"What the project is trying to achieve"`
	Scope  string `json:"scope,omitempty" mcp:"What is in and out of scope"`
	Branch string `json:"branch,omitempty" mcp:"Git branch to scope the project to (auto-detected if omitted)"`
}

// GetProjectParams for retrieving the active project.
type GetProjectParams struct {
	Branch string `json:"branch,omitempty" mcp:"Git branch (auto-detected if omitted)"`
}

// ClearProjectParams for deleting a project and everything it owns.
type ClearProjectParams struct {
	ProjectID string `json:"projectId" mcp:"Project ID to delete (required)"`
}

// AddTaskParams for creating a new task.
type AddTaskParams struct {
	Title        string `json:"title" mcp:"Task title (required)"`
	Description  string `json:"description,omitempty" mcp:"Task description"`
	Priority     string `json:"priority,omitempty" mcp:"Task priority: low, medium, high"`
	Assignee     string `json:"assignee,omitempty" mcp:"Who the task is assigned to"`
	Notes        string `json:"notes,omitempty" mcp:"Free-form notes"`
	ParentTaskID string `json:"parentTaskId,omitempty" mcp:"Parent task ID for informational grouping"`
}

// UpdateTaskParams for updating an existing task. Only provided fields change.
type UpdateTaskParams struct {
	ID           string `json:"id" mcp:"Task ID to update (required)"`
	Title        string `json:"title,omitempty" mcp:"New task title"`
	Description  string `json:"description,omitempty" mcp:"New task description"`
	Status       string `json:"status,omitempty" mcp:"New status: todo, in-progress, blocked, completed"`
	Priority     string `json:"priority,omitempty" mcp:"New priority: low, medium, high"`
	Assignee     string `json:"assignee,omitempty" mcp:"New assignee"`
	Notes        string `json:"notes,omitempty" mcp:"New notes"`
	ParentTaskID string `json:"parentTaskId,omitempty" mcp:"New parent task ID"`
}

// CompleteTaskParams for marking a task completed (subject to the dependency
// and blocker gates).
type CompleteTaskParams struct {
	ID    string `json:"id" mcp:"Task ID to complete (required)"`
	Notes string `json:"notes,omitempty" mcp:"Completion notes"`
}

// DeleteTaskParams for deleting a task.
type DeleteTaskParams struct {
	ID string `json:"id" mcp:"Task ID to delete (required)"`
}

// GetTaskParams for retrieving a specific task.
type GetTaskParams struct {
	ID string `json:"id" mcp:"Task ID to retrieve (required)"`
}

// ListTasksParams for listing and filtering tasks.
type ListTasksParams struct {
	Status   string `json:"status,omitempty" mcp:"Filter by status: todo, in-progress, blocked, completed"`
	Priority string `json:"priority,omitempty" mcp:"Filter by priority: low, medium, high"`
	Assignee string `json:"assignee,omitempty" mcp:"Filter by assignee"`
	Search   string `json:"search,omitempty" mcp:"Search in title and description"`
}

// AddDependencyParams for linking two tasks in the dependency graph.
type AddDependencyParams struct {
	ParentTaskID string `json:"parentTaskId" mcp:"Task that must resolve first (required)"`
	ChildTaskID  string `json:"childTaskId" mcp:"Task that is gated (required)"`
	Type         string `json:"dependencyType,omitempty" mcp:"Edge type: blocks, subtask, prerequisite (default blocks)"`
}

// RemoveDependencyParams for unlinking two tasks.
type RemoveDependencyParams struct {
	ParentTaskID string `json:"parentTaskId" mcp:"Parent side of the edge (required)"`
	ChildTaskID  string `json:"childTaskId" mcp:"Child side of the edge (required)"`
	Type         string `json:"dependencyType,omitempty" mcp:"Edge type to remove; all types if omitted"`
}

// QueryDependenciesParams for listing a task's edges in both directions.
type QueryDependenciesParams struct {
	TaskID string `json:"taskId" mcp:"Task ID to inspect (required)"`
}

// CheckCircularParams for asking whether a prospective edge would close a cycle.
type CheckCircularParams struct {
	ParentTaskID string `json:"parentTaskId" mcp:"Prospective parent (required)"`
	ChildTaskID  string `json:"childTaskId" mcp:"Prospective child (required)"`
}

// CreateBlockerParams for recording an impediment.
type CreateBlockerParams struct {
	Title       string `json:"title" mcp:"Blocker title (required)"`
	Description string `json:"description,omitempty" mcp:"What is blocked and why"`
	Type        string `json:"blockerType,omitempty" mcp:"Type: external, resource, technical, decision, dependency (default external)"`
	Severity    string `json:"severity,omitempty" mcp:"Severity: low, medium, high, critical (default medium)"`
	Owner       string `json:"owner,omitempty" mcp:"Who is driving resolution"`
	ExternalRef string `json:"externalRef,omitempty" mcp:"External ticket or link"`
}

// UpdateBlockerParams for changing a blocker. Setting status to resolved
// stamps the resolution time.
type UpdateBlockerParams struct {
	ID              string `json:"id" mcp:"Blocker ID to update (required)"`
	Title           string `json:"title,omitempty" mcp:"New title"`
	Description     string `json:"description,omitempty" mcp:"New description"`
	Type            string `json:"blockerType,omitempty" mcp:"New type"`
	Severity        string `json:"severity,omitempty" mcp:"New severity"`
	Status          string `json:"status,omitempty" mcp:"New status: open, in-progress, resolved, closed"`
	Owner           string `json:"owner,omitempty" mcp:"New owner"`
	ExternalRef     string `json:"externalRef,omitempty" mcp:"New external reference"`
	ResolutionNotes string `json:"resolutionNotes,omitempty" mcp:"How it was resolved"`
}

// DeleteBlockerParams for deleting a blocker and its impact links.
type DeleteBlockerParams struct {
	ID string `json:"id" mcp:"Blocker ID to delete (required)"`
}

// ListBlockersParams for listing blockers.
type ListBlockersParams struct {
	Status   string `json:"status,omitempty" mcp:"Filter by status: open, in-progress, resolved, closed"`
	Severity string `json:"severity,omitempty" mcp:"Filter by severity: low, medium, high, critical"`
}

// AddImpactParams for linking a blocker to a task.
type AddImpactParams struct {
	BlockerID           string `json:"blockerId" mcp:"Blocker ID (required)"`
	TaskID              string `json:"taskId" mcp:"Task ID (required)"`
	Type                string `json:"impactType,omitempty" mcp:"Impact type: blocks, delays, affects (default blocks)"`
	Description         string `json:"description,omitempty" mcp:"How the blocker touches the task"`
	EstimatedDelayHours int    `json:"estimatedDelayHours,omitempty" mcp:"Estimated delay in hours; omit or 0 when unknown"`
}

// RemoveImpactParams for unlinking a blocker from a task.
type RemoveImpactParams struct {
	BlockerID string `json:"blockerId" mcp:"Blocker ID (required)"`
	TaskID    string `json:"taskId" mcp:"Task ID (required)"`
	Type      string `json:"impactType,omitempty" mcp:"Impact type to remove; all types if omitted"`
}

// ListBlockedTasksParams for the blocked-work report.
type ListBlockedTasksParams struct{}

// RecordDecisionParams for recording a decision.
type RecordDecisionParams struct {
	Title        string `json:"title" mcp:"Decision title (required)"`
	Description  string `json:"description,omitempty" mcp:"What was decided"`
	Rationale    string `json:"rationale,omitempty" mcp:"Why this option won"`
	Alternatives string `json:"alternatives,omitempty" mcp:"What else was considered"`
}

// ListDecisionsParams for listing decisions.
type ListDecisionsParams struct{}

// MapFileParams for recording what a file is for.
type MapFileParams struct {
	FilePath  string `json:"filePath" mcp:"File path relative to the repository root (required)"`
	Purpose   string `json:"purpose,omitempty" mcp:"What the file does"`
	Component string `json:"component,omitempty" mcp:"Which component it belongs to"`
	Notes     string `json:"notes,omitempty" mcp:"Free-form notes"`
}

// ListFileMappingsParams for listing file knowledge.
type ListFileMappingsParams struct {
	Component string `json:"component,omitempty" mcp:"Filter by component"`
}

// MCP Response Types

// ProjectResponse is the structured shape of a project.
type ProjectResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Goal         string `json:"goal,omitempty"`
	Scope        string `json:"scope,omitempty"`
	Branch       string `json:"branch"`
	Status       string `json:"status"`
	TaskCount    int    `json:"taskCount"`
	BlockerCount int    `json:"blockerCount"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// TaskResponse is the structured shape of a task.
type TaskResponse struct {
	ID           string  `json:"id"`
	ProjectID    string  `json:"projectId"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	Assignee     string  `json:"assignee,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	ParentTaskID *string `json:"parentTaskId,omitempty"`
	CompletedAt  string  `json:"completedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// CompleteTaskResponse reports a successful completion with the gate snapshot
// that allowed it.
type CompleteTaskResponse struct {
	Task            TaskResponse `json:"task"`
	CompletedAt     string       `json:"completedAt"`
	DependencyCheck interface{}  `json:"dependencyCheck"`
}

// DeleteResponse reports a deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// DependencyResponse reports a created edge.
type DependencyResponse struct {
	EdgeID       int64  `json:"edgeId"`
	ParentTaskID string `json:"parentTaskId"`
	ChildTaskID  string `json:"childTaskId"`
	Type         string `json:"dependencyType"`
}

// RemovedResponse reports how many rows a removal matched. Zero is success.
type RemovedResponse struct {
	Removed int64 `json:"removed"`
}

// CheckCircularResponse answers a cycle probe.
type CheckCircularResponse struct {
	WouldCreateCycle bool `json:"wouldCreateCycle"`
}

// BlockerResponse is the structured shape of a blocker.
type BlockerResponse struct {
	ID              string `json:"id"`
	ProjectID       string `json:"projectId"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"blockerType"`
	Severity        string `json:"severity"`
	Status          string `json:"status"`
	Owner           string `json:"owner,omitempty"`
	ExternalRef     string `json:"externalRef,omitempty"`
	ResolutionNotes string `json:"resolutionNotes,omitempty"`
	ResolvedAt      string `json:"resolvedAt,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// BlockerListResponse wraps a list of blockers.
type BlockerListResponse struct {
	Blockers []BlockerResponse `json:"blockers"`
	Count    int               `json:"count"`
}

// ImpactResponse reports a created blocker impact.
type ImpactResponse struct {
	ImpactID  int64  `json:"impactId"`
	BlockerID string `json:"blockerId"`
	TaskID    string `json:"taskId"`
	Type      string `json:"impactType"`
}

// BlockedTaskResponse is one row of the blocked-work report.
type BlockedTaskResponse struct {
	Task          TaskResponse `json:"task"`
	BlockerCount  int          `json:"blockerCount"`
	BlockerTitles []string     `json:"blockerTitles"`
}

// BlockedTasksResponse wraps the blocked-work report.
type BlockedTasksResponse struct {
	Tasks []BlockedTaskResponse `json:"tasks"`
	Count int                   `json:"count"`
}

// DecisionResponse is the structured shape of a decision.
type DecisionResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Rationale    string `json:"rationale,omitempty"`
	Alternatives string `json:"alternatives,omitempty"`
	DecidedAt    string `json:"decidedAt"`
}

// DecisionListResponse wraps a list of decisions.
type DecisionListResponse struct {
	Decisions []DecisionResponse `json:"decisions"`
	Count     int                `json:"count"`
}

// FileMappingResponse is the structured shape of a file mapping.
type FileMappingResponse struct {
	ID        string `json:"id"`
	FilePath  string `json:"filePath"`
	Purpose   string `json:"purpose,omitempty"`
	Component string `json:"component,omitempty"`
	Notes     string `json:"notes,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

// FileMappingListResponse wraps a list of file mappings.
type FileMappingListResponse struct {
	Mappings []FileMappingResponse `json:"mappings"`
	Count    int                   `json:"count"`
}
