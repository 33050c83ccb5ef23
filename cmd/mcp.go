package cmd

import (
	"log"
	"time"

	"github.com/spf13/viper"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

// MCP logging helpers. stdout carries the protocol, so everything goes to the
// default log writer (stderr) and only when verbose is on.

func logError(err error) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP ERROR] %v", err)
	}
}

func logInfo(msg string) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP INFO] %s", msg)
	}
}

func logToolCall(toolName string, params interface{}) {
	if viper.GetBool("verbose") {
		log.Printf("[MCP TOOL] %s called with params: %+v", toolName, params)
	}
}

// activeProject resolves the project a tool call operates on: the explicit
// branch when provided, the current checkout's branch otherwise.
func activeProject(s *store.Store, branch string) (*models.Project, error) {
	if branch == "" {
		branch = CurrentBranch()
	}
	return s.ActiveProject(branch)
}

// === model -> response converters ===

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func projectToResponse(p *models.Project, taskCount, blockerCount int) types.ProjectResponse {
	return types.ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Goal:         p.Goal,
		Scope:        p.Scope,
		Branch:       p.Branch,
		Status:       string(p.Status),
		TaskCount:    taskCount,
		BlockerCount: blockerCount,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
}

func taskToResponse(t models.Task) types.TaskResponse {
	resp := types.TaskResponse{
		ID:           t.ID,
		ProjectID:    t.ProjectID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Assignee:     t.Assignee,
		Notes:        t.Notes,
		ParentTaskID: t.ParentTaskID,
		CreatedAt:    formatTime(t.CreatedAt),
		UpdatedAt:    formatTime(t.UpdatedAt),
	}
	if t.CompletedAt != nil {
		resp.CompletedAt = formatTime(*t.CompletedAt)
	}
	return resp
}

func taskListToResponse(tasks []models.Task) types.TaskListResponse {
	resp := types.TaskListResponse{Tasks: make([]types.TaskResponse, 0, len(tasks)), Count: len(tasks)}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, taskToResponse(t))
	}
	return resp
}

func blockerToResponse(b *models.Blocker) types.BlockerResponse {
	resp := types.BlockerResponse{
		ID:              b.ID,
		ProjectID:       b.ProjectID,
		Title:           b.Title,
		Description:     b.Description,
		Type:            string(b.Type),
		Severity:        string(b.Severity),
		Status:          string(b.Status),
		Owner:           b.Owner,
		ExternalRef:     b.ExternalRef,
		ResolutionNotes: b.ResolutionNotes,
		CreatedAt:       formatTime(b.CreatedAt),
		UpdatedAt:       formatTime(b.UpdatedAt),
	}
	if b.ResolvedAt != nil {
		resp.ResolvedAt = formatTime(*b.ResolvedAt)
	}
	return resp
}

func decisionToResponse(d models.Decision) types.DecisionResponse {
	return types.DecisionResponse{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Rationale:    d.Rationale,
		Alternatives: d.Alternatives,
		DecidedAt:    formatTime(d.DecidedAt),
	}
}

func fileMappingToResponse(m models.FileMapping) types.FileMappingResponse {
	return types.FileMappingResponse{
		ID:        m.ID,
		FilePath:  m.FilePath,
		Purpose:   m.Purpose,
		Component: m.Component,
		Notes:     m.Notes,
		UpdatedAt: formatTime(m.UpdatedAt),
	}
}
