package cmd

// Project tools: setup-project, get-project, clear-project

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

// toolResult wraps a structured payload in an MCP tool result with a short
// human-readable line for clients that only render text.
func toolResult[T any](text string, payload T) *mcp.CallToolResultFor[T] {
	return &mcp.CallToolResultFor[T]{
		Content:           []mcp.Content{&mcp.TextContent{Text: text}},
		StructuredContent: payload,
	}
}

func setupProjectHandler(s *store.Store) mcp.ToolHandlerFor[types.SetupProjectParams, types.ProjectResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.SetupProjectParams]) (*mcp.CallToolResultFor[types.ProjectResponse], error) {
		args := params.Arguments
		logToolCall("setup-project", args)

		if strings.TrimSpace(args.Name) == "" {
			return nil, types.InvalidArgument("project name is required")
		}

		branch := args.Branch
		if branch == "" {
			branch = CurrentBranch()
		}

		p := models.NewProject(util.NewID("proj"), strings.TrimSpace(args.Name), branch)
		p.Goal = strings.TrimSpace(args.Goal)
		p.Scope = strings.TrimSpace(args.Scope)

		if err := s.CreateProject(&p); err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Created project %s on branch %s", p.ID, branch))
		return toolResult(
			fmt.Sprintf("Created project '%s' (%s) on branch %s", p.Name, p.ID, branch),
			projectToResponse(&p, 0, 0),
		), nil
	}
}

func getProjectHandler(s *store.Store) mcp.ToolHandlerFor[types.GetProjectParams, types.ProjectResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.GetProjectParams]) (*mcp.CallToolResultFor[types.ProjectResponse], error) {
		args := params.Arguments
		logToolCall("get-project", args)

		p, err := activeProject(s, args.Branch)
		if err != nil {
			return nil, err
		}
		taskCount, blockerCount, err := s.ProjectCounts(p.ID)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Project '%s' (%s): %d tasks, %d blockers", p.Name, p.ID, taskCount, blockerCount),
			projectToResponse(p, taskCount, blockerCount),
		), nil
	}
}

func clearProjectHandler(s *store.Store) mcp.ToolHandlerFor[types.ClearProjectParams, types.DeleteResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ClearProjectParams]) (*mcp.CallToolResultFor[types.DeleteResponse], error) {
		args := params.Arguments
		logToolCall("clear-project", args)

		if args.ProjectID == "" {
			return nil, types.InvalidArgument("projectId is required")
		}

		if err := s.DeleteProject(args.ProjectID); err != nil {
			return nil, err
		}

		logInfo(fmt.Sprintf("Deleted project %s", args.ProjectID))
		return toolResult(
			fmt.Sprintf("Deleted project %s and all of its state", args.ProjectID),
			types.DeleteResponse{Success: true, ID: args.ProjectID, Message: "project and all owned entities deleted"},
		), nil
	}
}
