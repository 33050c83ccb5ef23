package cmd

// Dependency graph tools: add, remove, query, check-circular

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

func addDependencyHandler(s *store.Store) mcp.ToolHandlerFor[types.AddDependencyParams, types.DependencyResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.AddDependencyParams]) (*mcp.CallToolResultFor[types.DependencyResponse], error) {
		args := params.Arguments
		logToolCall("add-dependency", args)

		if args.ParentTaskID == "" || args.ChildTaskID == "" {
			return nil, types.InvalidArgument("parentTaskId and childTaskId are required")
		}
		depType := models.DepBlocks
		if args.Type != "" {
			depType = models.DependencyType(args.Type)
		}

		parent, err := s.GetTask(args.ParentTaskID)
		if err != nil {
			return nil, err
		}

		edge, err := s.AddDependency(parent.ProjectID, args.ParentTaskID, args.ChildTaskID, depType)
		if err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Added dependency %s -> %s (%s)", edge.ParentTaskID, edge.ChildTaskID, edge.Type))
		return toolResult(
			fmt.Sprintf("Added %s dependency: %s must resolve before %s", edge.Type, edge.ParentTaskID, edge.ChildTaskID),
			types.DependencyResponse{
				EdgeID:       edge.ID,
				ParentTaskID: edge.ParentTaskID,
				ChildTaskID:  edge.ChildTaskID,
				Type:         string(edge.Type),
			},
		), nil
	}
}

func removeDependencyHandler(s *store.Store) mcp.ToolHandlerFor[types.RemoveDependencyParams, types.RemovedResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.RemoveDependencyParams]) (*mcp.CallToolResultFor[types.RemovedResponse], error) {
		args := params.Arguments
		logToolCall("remove-dependency", args)

		if args.ParentTaskID == "" || args.ChildTaskID == "" {
			return nil, types.InvalidArgument("parentTaskId and childTaskId are required")
		}

		removed, err := s.RemoveDependency(args.ParentTaskID, args.ChildTaskID, args.Type)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Removed %d dependency edge(s) between %s and %s", removed, args.ParentTaskID, args.ChildTaskID),
			types.RemovedResponse{Removed: removed},
		), nil
	}
}

func queryDependenciesHandler(s *store.Store) mcp.ToolHandlerFor[types.QueryDependenciesParams, models.DependencyLinks] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.QueryDependenciesParams]) (*mcp.CallToolResultFor[models.DependencyLinks], error) {
		args := params.Arguments
		logToolCall("query-dependencies", args)

		if args.TaskID == "" {
			return nil, types.InvalidArgument("taskId is required")
		}

		links, err := s.TaskDependencies(args.TaskID)
		if err != nil {
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Task %s depends on %d task(s) and blocks %d task(s)",
				args.TaskID, len(links.DependsOn), len(links.Blocks)),
			*links,
		), nil
	}
}

func checkCircularHandler(s *store.Store) mcp.ToolHandlerFor[types.CheckCircularParams, types.CheckCircularResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.CheckCircularParams]) (*mcp.CallToolResultFor[types.CheckCircularResponse], error) {
		args := params.Arguments
		logToolCall("check-circular", args)

		if args.ParentTaskID == "" || args.ChildTaskID == "" {
			return nil, types.InvalidArgument("parentTaskId and childTaskId are required")
		}

		parent, err := s.GetTask(args.ParentTaskID)
		if err != nil {
			return nil, err
		}

		would, err := s.WouldCreateCycle(parent.ProjectID, args.ParentTaskID, args.ChildTaskID)
		if err != nil {
			logError(err)
			return nil, err
		}

		text := fmt.Sprintf("Edge %s -> %s is safe to add", args.ParentTaskID, args.ChildTaskID)
		if would {
			text = fmt.Sprintf("Edge %s -> %s would create a cycle", args.ParentTaskID, args.ChildTaskID)
		}
		return toolResult(text, types.CheckCircularResponse{WouldCreateCycle: would}), nil
	}
}
