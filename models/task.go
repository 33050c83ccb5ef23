package models

import (
	"time"
)

// TaskStatus represents the possible statuses of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the priority levels of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidTaskStatus reports whether s is one of the known task statuses.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case StatusTodo, StatusInProgress, StatusBlocked, StatusCompleted:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is one of the known priorities.
func ValidTaskPriority(p string) bool {
	switch TaskPriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work owned by a project.
type Task struct {
	ID           string       `json:"id" validate:"required"`
	ProjectID    string       `json:"projectId" validate:"required"`
	Title        string       `json:"title" validate:"required,min=1,max=255"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status" validate:"required,oneof=todo in-progress blocked completed"`
	Priority     TaskPriority `json:"priority" validate:"required,oneof=low medium high"`
	Assignee     string       `json:"assignee,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	ParentTaskID *string      `json:"parentTaskId,omitempty"` // informational grouping, not part of the dependency graph
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" validate:"required"`
	UpdatedAt    time.Time    `json:"updatedAt" validate:"required"`
}

// TaskUpdate carries the fields an update may change. Nil pointers mean
// "leave as is", so the set of writable fields is checked at compile time
// instead of flowing through an untyped map.
type TaskUpdate struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Status       *TaskStatus   `json:"status,omitempty"`
	Priority     *TaskPriority `json:"priority,omitempty"`
	Assignee     *string       `json:"assignee,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	ParentTaskID *string       `json:"parentTaskId,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Assignee == nil && u.Notes == nil && u.ParentTaskID == nil
}

// NewTask returns a task with defaults applied (status todo, medium priority).
func NewTask(id, projectID, title string) Task {
	now := time.Now().UTC()
	return Task{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DependencyCheck is the snapshot returned by a completion attempt: what, if
// anything, still gates the task. Both slices empty means the task may complete.
type DependencyCheck struct {
	UnsatisfiedDependencies []TaskRef    `json:"unsatisfiedDependencies,omitempty"`
	OpenBlockers            []BlockerRef `json:"openBlockers,omitempty"`
}

// Satisfied reports whether nothing gates completion.
func (c DependencyCheck) Satisfied() bool {
	return len(c.UnsatisfiedDependencies) == 0 && len(c.OpenBlockers) == 0
}

// TaskRef is a lightweight task reference used in dependency listings.
type TaskRef struct {
	ID     string     `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// BlockerRef is a lightweight blocker reference used in gate results.
type BlockerRef struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Status   BlockerStatus `json:"status"`
	Severity Severity      `json:"severity"`
}
