package cmd

// Blocker tools: create, update, delete, list, impacts, blocked report

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

func createBlockerHandler(s *store.Store) mcp.ToolHandlerFor[types.CreateBlockerParams, types.BlockerResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.CreateBlockerParams]) (*mcp.CallToolResultFor[types.BlockerResponse], error) {
		args := params.Arguments
		logToolCall("create-blocker", args)

		if strings.TrimSpace(args.Title) == "" {
			return nil, types.InvalidArgument("blocker title is required")
		}
		if args.Type != "" && !models.ValidBlockerType(args.Type) {
			return nil, types.InvalidArgument("unknown blocker type: %s", args.Type)
		}
		if args.Severity != "" && !models.ValidSeverity(args.Severity) {
			return nil, types.InvalidArgument("unknown severity: %s", args.Severity)
		}

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		b := models.NewBlocker(util.NewID("blk"), p.ID, strings.TrimSpace(args.Title))
		b.Description = strings.TrimSpace(args.Description)
		b.Owner = strings.TrimSpace(args.Owner)
		b.ExternalRef = strings.TrimSpace(args.ExternalRef)
		if args.Type != "" {
			b.Type = models.BlockerType(args.Type)
		}
		if args.Severity != "" {
			b.Severity = models.Severity(args.Severity)
		}

		if err := s.CreateBlocker(&b); err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Created blocker %s", b.ID))
		return toolResult(
			fmt.Sprintf("Created %s blocker '%s' with ID: %s", b.Severity, b.Title, b.ID),
			blockerToResponse(&b),
		), nil
	}
}

func updateBlockerHandler(s *store.Store) mcp.ToolHandlerFor[types.UpdateBlockerParams, types.BlockerResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.UpdateBlockerParams]) (*mcp.CallToolResultFor[types.BlockerResponse], error) {
		args := params.Arguments
		logToolCall("update-blocker", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("blocker id is required")
		}

		var u models.BlockerUpdate
		if args.Title != "" {
			v := args.Title
			u.Title = &v
		}
		if args.Description != "" {
			v := args.Description
			u.Description = &v
		}
		if args.Type != "" {
			v := models.BlockerType(args.Type)
			u.Type = &v
		}
		if args.Severity != "" {
			v := models.Severity(args.Severity)
			u.Severity = &v
		}
		if args.Status != "" {
			v := models.BlockerStatus(args.Status)
			u.Status = &v
		}
		if args.Owner != "" {
			v := args.Owner
			u.Owner = &v
		}
		if args.ExternalRef != "" {
			v := args.ExternalRef
			u.ExternalRef = &v
		}
		if args.ResolutionNotes != "" {
			v := args.ResolutionNotes
			u.ResolutionNotes = &v
		}

		b, err := s.UpdateBlocker(args.ID, u)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Updated blocker %s (status: %s)", b.ID, b.Status),
			blockerToResponse(b),
		), nil
	}
}

func deleteBlockerHandler(s *store.Store) mcp.ToolHandlerFor[types.DeleteBlockerParams, types.DeleteResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.DeleteBlockerParams]) (*mcp.CallToolResultFor[types.DeleteResponse], error) {
		args := params.Arguments
		logToolCall("delete-blocker", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("blocker id is required")
		}
		if err := s.DeleteBlocker(args.ID); err != nil {
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Deleted blocker %s", args.ID),
			types.DeleteResponse{Success: true, ID: args.ID},
		), nil
	}
}

func listBlockersHandler(s *store.Store) mcp.ToolHandlerFor[types.ListBlockersParams, types.BlockerListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListBlockersParams]) (*mcp.CallToolResultFor[types.BlockerListResponse], error) {
		args := params.Arguments
		logToolCall("list-blockers", args)

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		blockers, err := s.ListBlockers(p.ID, store.BlockerFilter{
			Status:   args.Status,
			Severity: args.Severity,
		})
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := types.BlockerListResponse{
			Blockers: make([]types.BlockerResponse, 0, len(blockers)),
			Count:    len(blockers),
		}
		for i := range blockers {
			resp.Blockers = append(resp.Blockers, blockerToResponse(&blockers[i]))
		}
		return toolResult(fmt.Sprintf("Found %d blockers", resp.Count), resp), nil
	}
}

func addImpactHandler(s *store.Store) mcp.ToolHandlerFor[types.AddImpactParams, types.ImpactResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.AddImpactParams]) (*mcp.CallToolResultFor[types.ImpactResponse], error) {
		args := params.Arguments
		logToolCall("add-blocker-impact", args)

		if args.BlockerID == "" || args.TaskID == "" {
			return nil, types.InvalidArgument("blockerId and taskId are required")
		}
		impactType := models.ImpactBlocks
		if args.Type != "" {
			impactType = models.ImpactType(args.Type)
		}
		if args.EstimatedDelayHours < 0 {
			return nil, types.InvalidArgument("estimatedDelayHours cannot be negative: %d", args.EstimatedDelayHours)
		}
		var delay *int
		if args.EstimatedDelayHours > 0 {
			v := args.EstimatedDelayHours
			delay = &v
		}

		imp, err := s.AddImpact(args.BlockerID, args.TaskID, impactType, args.Description, delay)
		if err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Linked blocker %s to task %s (%s)", imp.BlockerID, imp.TaskID, imp.Type))
		return toolResult(
			fmt.Sprintf("Blocker %s now %s task %s", imp.BlockerID, imp.Type, imp.TaskID),
			types.ImpactResponse{
				ImpactID:  imp.ID,
				BlockerID: imp.BlockerID,
				TaskID:    imp.TaskID,
				Type:      string(imp.Type),
			},
		), nil
	}
}

func removeImpactHandler(s *store.Store) mcp.ToolHandlerFor[types.RemoveImpactParams, types.RemovedResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.RemoveImpactParams]) (*mcp.CallToolResultFor[types.RemovedResponse], error) {
		args := params.Arguments
		logToolCall("remove-blocker-impact", args)

		if args.BlockerID == "" || args.TaskID == "" {
			return nil, types.InvalidArgument("blockerId and taskId are required")
		}

		removed, err := s.RemoveImpact(args.BlockerID, args.TaskID, args.Type)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Removed %d impact link(s) between %s and %s", removed, args.BlockerID, args.TaskID),
			types.RemovedResponse{Removed: removed},
		), nil
	}
}

func listBlockedTasksHandler(s *store.Store) mcp.ToolHandlerFor[types.ListBlockedTasksParams, types.BlockedTasksResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListBlockedTasksParams]) (*mcp.CallToolResultFor[types.BlockedTasksResponse], error) {
		logToolCall("list-blocked-tasks", params.Arguments)

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		blocked, err := s.BlockedTasks(p.ID)
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := types.BlockedTasksResponse{
			Tasks: make([]types.BlockedTaskResponse, 0, len(blocked)),
			Count: len(blocked),
		}
		for _, bt := range blocked {
			resp.Tasks = append(resp.Tasks, types.BlockedTaskResponse{
				Task:          taskToResponse(bt.Task),
				BlockerCount:  bt.BlockerCount,
				BlockerTitles: bt.BlockerTitles,
			})
		}
		return toolResult(fmt.Sprintf("%d task(s) are touched by open blockers", resp.Count), resp), nil
	}
}
