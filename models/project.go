package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Project anchors every other entity. Projects are isolated per git branch;
// at most one project per branch should be active at a time.
type Project struct {
	ID        string        `json:"id" validate:"required"`
	Name      string        `json:"name" validate:"required,min=1,max=255"`
	Goal      string        `json:"goal,omitempty"`
	Scope     string        `json:"scope,omitempty"`
	Branch    string        `json:"branch" validate:"required"`
	Status    ProjectStatus `json:"status" validate:"required,oneof=active archived"`
	CreatedAt time.Time     `json:"createdAt" validate:"required"`
	UpdatedAt time.Time     `json:"updatedAt" validate:"required"`
}

// ProjectUpdate carries optional project field changes.
type ProjectUpdate struct {
	Name   *string        `json:"name,omitempty"`
	Goal   *string        `json:"goal,omitempty"`
	Scope  *string        `json:"scope,omitempty"`
	Status *ProjectStatus `json:"status,omitempty"`
}

// NewProject returns an active project for the given branch.
func NewProject(id, name, branch string) Project {
	now := time.Now().UTC()
	return Project{
		ID:        id,
		Name:      name,
		Branch:    branch,
		Status:    ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// global validator instance
var validate = validator.New()

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var msgs []string
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
