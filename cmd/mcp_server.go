package cmd

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/projmem/projmem/store"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so AI tools like Claude Code
and Cursor can read and update project memory.

The server runs over stdin/stdout and exposes tools for projects, tasks,
the dependency graph, blockers, decisions and file knowledge. It runs until
the client disconnects.

Example usage:
  projmem mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	// Stdio is the only transport; the verbose flag is inherited from root.
}

func runMCPServer(ctx context.Context) error {
	s, err := GetStore()
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() { _ = s.Close() }()

	impl := &mcp.Implementation{
		Name:    "projmem",
		Version: version,
	}
	server := mcp.NewServer(impl, &mcp.ServerOptions{})

	registerMCPTools(server, s)

	logInfo("MCP server starting on stdio")
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

func registerMCPTools(server *mcp.Server, s *store.Store) {
	// Project tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "setup-project",
		Description: "Create the active project for the current git branch. Any existing active project on the branch is archived first, so a branch never has two active projects.",
	}, setupProjectHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get-project",
		Description: "Get the active project for the current git branch, with task and blocker counts. Branch detection can be overridden with the branch parameter.",
	}, getProjectHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear-project",
		Description: "Delete a project and everything it owns: tasks, dependencies, blockers, impacts, decisions and file mappings. This cannot be undone.",
	}, clearProjectHandler(s))

	// Task tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add-task",
		Description: "Create a new task in the active project. Returns the created task with its unique ID. New tasks start as todo with medium priority unless stated otherwise.",
	}, addTaskHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update-task",
		Description: "Update properties of an existing task. Supports partial updates - only provide the fields you want to change. Setting status to completed runs the same dependency and blocker checks as complete-task.",
	}, updateTaskHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete-task",
		Description: "Mark a task as completed. Refused with a BLOCKED error while the task has incomplete dependency parents or open blockers with a blocking impact; the error lists exactly what stands in the way.",
	}, completeTaskHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete-task",
		Description: "Delete a task by ID. Its dependency edges and blocker impacts are removed with it; subtasks survive and lose their parent reference.",
	}, deleteTaskHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get-task",
		Description: "Retrieve full details of a specific task including status, priority, assignee and timestamps.",
	}, getTaskHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-tasks",
		Description: "List the active project's tasks. Supports filtering by status, priority and assignee, and text search over title and description.",
	}, listTasksHandler(s))

	// Dependency graph tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add-dependency",
		Description: "Link two tasks: the parent must resolve before the child can complete. Edge types are blocks, prerequisite (both gating) and subtask (informational). Edges that would create a cycle are refused with CYCLE_DETECTED.",
	}, addDependencyHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove-dependency",
		Description: "Remove the dependency between two tasks. Removing an edge that does not exist succeeds with a zero count.",
	}, removeDependencyHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query-dependencies",
		Description: "List a task's dependency edges in both directions: what it depends on, and what it blocks.",
	}, queryDependenciesHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check-circular",
		Description: "Check whether a prospective dependency edge would create a cycle, without adding it.",
	}, checkCircularHandler(s))

	// Blocker tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "create-blocker",
		Description: "Record an impediment in the active project. Blockers exist independently of tasks and are linked to them through impacts.",
	}, createBlockerHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update-blocker",
		Description: "Update a blocker. Supports partial updates. Setting status to resolved stamps the resolution time; reopening clears it.",
	}, updateBlockerHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete-blocker",
		Description: "Delete a blocker and all of its task impacts.",
	}, deleteBlockerHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-blockers",
		Description: "List the active project's blockers, most severe first. Supports filtering by status and severity.",
	}, listBlockersHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add-blocker-impact",
		Description: "Link a blocker to a task. An impact of type blocks gates the task's completion while the blocker is open; delays and affects are informational.",
	}, addImpactHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove-blocker-impact",
		Description: "Unlink a blocker from a task. Removing an absent link succeeds with a zero count.",
	}, removeImpactHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-blocked-tasks",
		Description: "Report the tasks touched by open blockers, worst hit first: blocker count, then task priority.",
	}, listBlockedTasksHandler(s))

	// Record tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "record-decision",
		Description: "Record a decision made during the project, with optional rationale and the alternatives that were considered.",
	}, recordDecisionHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-decisions",
		Description: "List the active project's recorded decisions, newest first.",
	}, listDecisionsHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "map-file",
		Description: "Record what a file is for. Mapping a path that is already mapped overwrites the previous record.",
	}, mapFileHandler(s))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-file-mappings",
		Description: "List the active project's file knowledge, optionally filtered by component.",
	}, listFileMappingsHandler(s))
}
