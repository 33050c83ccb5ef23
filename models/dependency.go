package models

import "time"

// DependencyType categorizes a directed task relationship. Edges of type
// blocks and prerequisite gate completion of the child; subtask edges are
// informational only.
type DependencyType string

const (
	DepBlocks       DependencyType = "blocks"
	DepSubtask      DependencyType = "subtask"
	DepPrerequisite DependencyType = "prerequisite"
)

// ValidDependencyType reports whether t is a known dependency type.
func ValidDependencyType(t string) bool {
	switch DependencyType(t) {
	case DepBlocks, DepSubtask, DepPrerequisite:
		return true
	}
	return false
}

// Gating reports whether an edge of this type blocks completion of its child.
func (t DependencyType) Gating() bool {
	return t == DepBlocks || t == DepPrerequisite
}

// DependencyEdge is a directed edge parent -> child meaning the child cannot
// complete until the parent is resolved (for gating types). The edge set per
// project must stay acyclic.
type DependencyEdge struct {
	ID           int64          `json:"id"`
	ProjectID    string         `json:"projectId"`
	ParentTaskID string         `json:"parentTaskId"`
	ChildTaskID  string         `json:"childTaskId"`
	Type         DependencyType `json:"dependencyType"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// DependencyLink is one edge joined with the task on the far end.
type DependencyLink struct {
	EdgeID int64          `json:"edgeId"`
	Type   DependencyType `json:"dependencyType"`
	Task   TaskRef        `json:"task"`
}

// DependencyLinks groups a task's edges by direction: DependsOn are edges
// where the task is the child, Blocks where it is the parent.
type DependencyLinks struct {
	DependsOn []DependencyLink `json:"dependsOn"`
	Blocks    []DependencyLink `json:"blocks"`
}
