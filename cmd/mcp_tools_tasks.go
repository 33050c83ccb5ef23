package cmd

// Task tools: add, update, complete, delete, get, list

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

func addTaskHandler(s *store.Store) mcp.ToolHandlerFor[types.AddTaskParams, types.TaskResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.AddTaskParams]) (*mcp.CallToolResultFor[types.TaskResponse], error) {
		args := params.Arguments
		logToolCall("add-task", args)

		if strings.TrimSpace(args.Title) == "" {
			return nil, types.InvalidArgument("task title is required")
		}
		if args.Priority != "" && !models.ValidTaskPriority(args.Priority) {
			return nil, types.InvalidArgument("unknown task priority: %s", args.Priority)
		}

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		t := models.NewTask(util.NewID("task"), p.ID, strings.TrimSpace(args.Title))
		t.Description = strings.TrimSpace(args.Description)
		t.Assignee = strings.TrimSpace(args.Assignee)
		t.Notes = args.Notes
		if args.Priority != "" {
			t.Priority = models.TaskPriority(args.Priority)
		}
		if args.ParentTaskID != "" {
			parent := args.ParentTaskID
			t.ParentTaskID = &parent
		}

		if err := s.CreateTask(&t); err != nil {
			logError(err)
			return nil, err
		}

		logInfo(fmt.Sprintf("Created task %s", t.ID))
		return toolResult(
			fmt.Sprintf("Created task '%s' with ID: %s", t.Title, t.ID),
			taskToResponse(t),
		), nil
	}
}

func updateTaskHandler(s *store.Store) mcp.ToolHandlerFor[types.UpdateTaskParams, types.TaskResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.UpdateTaskParams]) (*mcp.CallToolResultFor[types.TaskResponse], error) {
		args := params.Arguments
		logToolCall("update-task", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("task id is required")
		}

		var u models.TaskUpdate
		if args.Title != "" {
			v := args.Title
			u.Title = &v
		}
		if args.Description != "" {
			v := args.Description
			u.Description = &v
		}
		if args.Status != "" {
			v := models.TaskStatus(args.Status)
			u.Status = &v
		}
		if args.Priority != "" {
			v := models.TaskPriority(args.Priority)
			u.Priority = &v
		}
		if args.Assignee != "" {
			v := args.Assignee
			u.Assignee = &v
		}
		if args.Notes != "" {
			v := args.Notes
			u.Notes = &v
		}
		if args.ParentTaskID != "" {
			v := args.ParentTaskID
			u.ParentTaskID = &v
		}

		t, err := s.UpdateTask(args.ID, u)
		if err != nil {
			logError(err)
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Updated task %s (status: %s)", t.ID, t.Status),
			taskToResponse(*t),
		), nil
	}
}

func completeTaskHandler(s *store.Store) mcp.ToolHandlerFor[types.CompleteTaskParams, types.CompleteTaskResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.CompleteTaskParams]) (*mcp.CallToolResultFor[types.CompleteTaskResponse], error) {
		args := params.Arguments
		logToolCall("complete-task", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("task id is required")
		}

		t, check, err := s.CompleteTask(args.ID, args.Notes)
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := types.CompleteTaskResponse{
			Task:            taskToResponse(*t),
			CompletedAt:     formatTime(*t.CompletedAt),
			DependencyCheck: check,
		}
		logInfo(fmt.Sprintf("Completed task %s", t.ID))
		return toolResult(
			fmt.Sprintf("Completed task '%s' (%s)", t.Title, t.ID),
			resp,
		), nil
	}
}

func deleteTaskHandler(s *store.Store) mcp.ToolHandlerFor[types.DeleteTaskParams, types.DeleteResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.DeleteTaskParams]) (*mcp.CallToolResultFor[types.DeleteResponse], error) {
		args := params.Arguments
		logToolCall("delete-task", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("task id is required")
		}
		if err := s.DeleteTask(args.ID); err != nil {
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Deleted task %s", args.ID),
			types.DeleteResponse{Success: true, ID: args.ID},
		), nil
	}
}

func getTaskHandler(s *store.Store) mcp.ToolHandlerFor[types.GetTaskParams, types.TaskResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.GetTaskParams]) (*mcp.CallToolResultFor[types.TaskResponse], error) {
		args := params.Arguments
		logToolCall("get-task", args)

		if args.ID == "" {
			return nil, types.InvalidArgument("task id is required")
		}
		t, err := s.GetTask(args.ID)
		if err != nil {
			return nil, err
		}

		return toolResult(
			fmt.Sprintf("Task '%s' (%s): %s / %s", t.Title, t.ID, t.Status, t.Priority),
			taskToResponse(*t),
		), nil
	}
}

func listTasksHandler(s *store.Store) mcp.ToolHandlerFor[types.ListTasksParams, types.TaskListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListTasksParams]) (*mcp.CallToolResultFor[types.TaskListResponse], error) {
		args := params.Arguments
		logToolCall("list-tasks", args)

		p, err := activeProject(s, "")
		if err != nil {
			return nil, err
		}

		tasks, err := s.ListTasks(p.ID, store.TaskFilter{
			Status:   args.Status,
			Priority: args.Priority,
			Assignee: args.Assignee,
			Search:   args.Search,
		})
		if err != nil {
			logError(err)
			return nil, err
		}

		resp := taskListToResponse(tasks)
		return toolResult(
			fmt.Sprintf("Found %d tasks", resp.Count),
			resp,
		), nil
	}
}
