package models

import "time"

// Decision is a flat record of a choice made during the project. No graph
// relationships; stored and queried by project.
type Decision struct {
	ID           string    `json:"id" validate:"required"`
	ProjectID    string    `json:"projectId" validate:"required"`
	Title        string    `json:"title" validate:"required,min=1,max=255"`
	Description  string    `json:"description,omitempty"`
	Rationale    string    `json:"rationale,omitempty"`
	Alternatives string    `json:"alternatives,omitempty"`
	DecidedAt    time.Time `json:"decidedAt"`
	CreatedAt    time.Time `json:"createdAt" validate:"required"`
}

// FileMapping records what a file is for. Unique per (project, path);
// re-mapping the same path overwrites the previous record.
type FileMapping struct {
	ID        string    `json:"id" validate:"required"`
	ProjectID string    `json:"projectId" validate:"required"`
	FilePath  string    `json:"filePath" validate:"required"`
	Purpose   string    `json:"purpose,omitempty"`
	Component string    `json:"component,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	UpdatedAt time.Time `json:"updatedAt" validate:"required"`
}
