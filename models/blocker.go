package models

import "time"

// BlockerType categorizes the origin of an impediment.
type BlockerType string

const (
	BlockerExternal   BlockerType = "external"
	BlockerResource   BlockerType = "resource"
	BlockerTechnical  BlockerType = "technical"
	BlockerDecision   BlockerType = "decision"
	BlockerDependency BlockerType = "dependency"
)

// Severity grades how badly a blocker hurts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// BlockerStatus is the lifecycle state of a blocker, independent of any task.
type BlockerStatus string

const (
	BlockerOpen       BlockerStatus = "open"
	BlockerInProgress BlockerStatus = "in-progress"
	BlockerResolved   BlockerStatus = "resolved"
	BlockerClosed     BlockerStatus = "closed"
)

// ValidBlockerType reports whether t is a known blocker type.
func ValidBlockerType(t string) bool {
	switch BlockerType(t) {
	case BlockerExternal, BlockerResource, BlockerTechnical, BlockerDecision, BlockerDependency:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ValidBlockerStatus reports whether s is a known blocker status.
func ValidBlockerStatus(s string) bool {
	switch BlockerStatus(s) {
	case BlockerOpen, BlockerInProgress, BlockerResolved, BlockerClosed:
		return true
	}
	return false
}

// Blocker is an impediment tracked outside the task dependency graph. It may
// affect zero or more tasks through BlockerImpact links.
type Blocker struct {
	ID              string        `json:"id" validate:"required"`
	ProjectID       string        `json:"projectId" validate:"required"`
	Title           string        `json:"title" validate:"required,min=1,max=255"`
	Description     string        `json:"description,omitempty"`
	Type            BlockerType   `json:"blockerType" validate:"required,oneof=external resource technical decision dependency"`
	Severity        Severity      `json:"severity" validate:"required,oneof=low medium high critical"`
	Status          BlockerStatus `json:"status" validate:"required,oneof=open in-progress resolved closed"`
	Owner           string        `json:"owner,omitempty"`
	ExternalRef     string        `json:"externalRef,omitempty"`
	ResolutionNotes string        `json:"resolutionNotes,omitempty"`
	ResolvedAt      *time.Time    `json:"resolvedAt,omitempty"`
	CreatedAt       time.Time     `json:"createdAt" validate:"required"`
	UpdatedAt       time.Time     `json:"updatedAt" validate:"required"`
}

// BlockerUpdate carries optional blocker field changes. Setting Status to
// resolved stamps ResolvedAt in the store.
type BlockerUpdate struct {
	Title           *string        `json:"title,omitempty"`
	Description     *string        `json:"description,omitempty"`
	Type            *BlockerType   `json:"blockerType,omitempty"`
	Severity        *Severity      `json:"severity,omitempty"`
	Status          *BlockerStatus `json:"status,omitempty"`
	Owner           *string        `json:"owner,omitempty"`
	ExternalRef     *string        `json:"externalRef,omitempty"`
	ResolutionNotes *string        `json:"resolutionNotes,omitempty"`
}

// IsEmpty reports whether the update would change nothing.
func (u BlockerUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Type == nil && u.Severity == nil &&
		u.Status == nil && u.Owner == nil && u.ExternalRef == nil && u.ResolutionNotes == nil
}

// NewBlocker returns a blocker with defaults applied (external, medium, open).
func NewBlocker(id, projectID, title string) Blocker {
	now := time.Now().UTC()
	return Blocker{
		ID:        id,
		ProjectID: projectID,
		Title:     title,
		Type:      BlockerExternal,
		Severity:  SeverityMedium,
		Status:    BlockerOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ImpactType categorizes how a blocker touches a task. Only "blocks" gates
// task completion; "delays" and "affects" are informational.
type ImpactType string

const (
	ImpactBlocks  ImpactType = "blocks"
	ImpactDelays  ImpactType = "delays"
	ImpactAffects ImpactType = "affects"
)

// ValidImpactType reports whether t is a known impact type.
func ValidImpactType(t string) bool {
	switch ImpactType(t) {
	case ImpactBlocks, ImpactDelays, ImpactAffects:
		return true
	}
	return false
}

// BlockerImpact links a blocker to a task. Unique per
// (blocker, task, impact type) triple.
type BlockerImpact struct {
	ID                  int64      `json:"id"`
	BlockerID           string     `json:"blockerId"`
	TaskID              string     `json:"taskId"`
	Type                ImpactType `json:"impactType"`
	Description         string     `json:"description,omitempty"`
	EstimatedDelayHours *int       `json:"estimatedDelayHours,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// BlockedTask is one row of the blocked-work report: a task together with how
// many open blockers gate or touch it.
type BlockedTask struct {
	Task          Task     `json:"task"`
	BlockerCount  int      `json:"blockerCount"`
	BlockerTitles []string `json:"blockerTitles"`
}
