package cmd

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projmem/projmem/store"
	"github.com/projmem/projmem/types"
)

func newHandlerStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// Pin the branch so handlers don't consult git.
	GlobalAppConfig.Project.Branch = "handler-test"
	t.Cleanup(func() { GlobalAppConfig.Project.Branch = "" })
	return s
}

func callSetupProject(t *testing.T, s *store.Store, name string) types.ProjectResponse {
	t.Helper()
	res, err := setupProjectHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.SetupProjectParams]{
			Arguments: types.SetupProjectParams{Name: name},
		})
	require.NoError(t, err)
	return res.StructuredContent
}

func callAddTask(t *testing.T, s *store.Store, title string) types.TaskResponse {
	t.Helper()
	res, err := addTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.AddTaskParams]{
			Arguments: types.AddTaskParams{Title: title},
		})
	require.NoError(t, err)
	return res.StructuredContent
}

func TestSetupAndGetProjectHandlers(t *testing.T) {
	s := newHandlerStore(t)

	created := callSetupProject(t, s, "Search rewrite")
	assert.Equal(t, "handler-test", created.Branch)
	assert.Equal(t, "active", created.Status)

	res, err := getProjectHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.GetProjectParams]{})
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.StructuredContent.ID)

	// Missing name is refused.
	_, err = setupProjectHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.SetupProjectParams]{
			Arguments: types.SetupProjectParams{Name: "  "},
		})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestGetProjectHandlerNoActiveProject(t *testing.T) {
	s := newHandlerStore(t)

	_, err := getProjectHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.GetProjectParams]{})
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
}

func TestTaskHandlersLifecycle(t *testing.T) {
	s := newHandlerStore(t)
	callSetupProject(t, s, "Project")

	created := callAddTask(t, s, "Implement importer")
	assert.Equal(t, "todo", created.Status)
	assert.Equal(t, "medium", created.Priority)

	// Partial update via handler.
	res, err := updateTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.UpdateTaskParams]{
			Arguments: types.UpdateTaskParams{ID: created.ID, Status: "in-progress"},
		})
	require.NoError(t, err)
	assert.Equal(t, "in-progress", res.StructuredContent.Status)
	assert.Equal(t, "Implement importer", res.StructuredContent.Title)

	list, err := listTasksHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.ListTasksParams]{
			Arguments: types.ListTasksParams{Status: "in-progress"},
		})
	require.NoError(t, err)
	assert.Equal(t, 1, list.StructuredContent.Count)

	done, err := completeTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{ID: created.ID},
		})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.StructuredContent.Task.Status)
	assert.NotEmpty(t, done.StructuredContent.CompletedAt)

	del, err := deleteTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.DeleteTaskParams]{
			Arguments: types.DeleteTaskParams{ID: created.ID},
		})
	require.NoError(t, err)
	assert.True(t, del.StructuredContent.Success)

	_, err = getTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.GetTaskParams]{
			Arguments: types.GetTaskParams{ID: created.ID},
		})
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
}

func TestDependencyHandlersRejectCycle(t *testing.T) {
	s := newHandlerStore(t)
	callSetupProject(t, s, "Project")
	a := callAddTask(t, s, "A")
	b := callAddTask(t, s, "B")

	_, err := addDependencyHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.AddDependencyParams]{
			Arguments: types.AddDependencyParams{ParentTaskID: a.ID, ChildTaskID: b.ID},
		})
	require.NoError(t, err)

	probe, err := checkCircularHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.CheckCircularParams]{
			Arguments: types.CheckCircularParams{ParentTaskID: b.ID, ChildTaskID: a.ID},
		})
	require.NoError(t, err)
	assert.True(t, probe.StructuredContent.WouldCreateCycle)

	_, err = addDependencyHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.AddDependencyParams]{
			Arguments: types.AddDependencyParams{ParentTaskID: b.ID, ChildTaskID: a.ID},
		})
	assert.Equal(t, types.CodeCycleDetected, types.CodeOf(err))

	// Completion is gated through the handler too.
	_, err = completeTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{ID: b.ID},
		})
	assert.Equal(t, types.CodeBlocked, types.CodeOf(err))

	links, err := queryDependenciesHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.QueryDependenciesParams]{
			Arguments: types.QueryDependenciesParams{TaskID: b.ID},
		})
	require.NoError(t, err)
	assert.Len(t, links.StructuredContent.DependsOn, 1)
}

func TestBlockerHandlers(t *testing.T) {
	s := newHandlerStore(t)
	callSetupProject(t, s, "Project")
	tk := callAddTask(t, s, "Gated work")

	blk, err := createBlockerHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.CreateBlockerParams]{
			Arguments: types.CreateBlockerParams{Title: "Waiting on credentials", Severity: "high"},
		})
	require.NoError(t, err)
	assert.Equal(t, "high", blk.StructuredContent.Severity)

	// A negative delay estimate is refused outright.
	_, err = addImpactHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.AddImpactParams]{
			Arguments: types.AddImpactParams{BlockerID: blk.StructuredContent.ID, TaskID: tk.ID, EstimatedDelayHours: -4},
		})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))

	_, err = addImpactHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.AddImpactParams]{
			Arguments: types.AddImpactParams{BlockerID: blk.StructuredContent.ID, TaskID: tk.ID},
		})
	require.NoError(t, err)

	report, err := listBlockedTasksHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.ListBlockedTasksParams]{})
	require.NoError(t, err)
	require.Equal(t, 1, report.StructuredContent.Count)
	assert.Equal(t, tk.ID, report.StructuredContent.Tasks[0].Task.ID)

	// Resolving the blocker empties the report and opens the gate.
	_, err = updateBlockerHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.UpdateBlockerParams]{
			Arguments: types.UpdateBlockerParams{ID: blk.StructuredContent.ID, Status: "resolved"},
		})
	require.NoError(t, err)

	report, err = listBlockedTasksHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.ListBlockedTasksParams]{})
	require.NoError(t, err)
	assert.Zero(t, report.StructuredContent.Count)

	_, err = completeTaskHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.CompleteTaskParams]{
			Arguments: types.CompleteTaskParams{ID: tk.ID},
		})
	require.NoError(t, err)
}

func TestRecordHandlers(t *testing.T) {
	s := newHandlerStore(t)
	callSetupProject(t, s, "Project")

	_, err := recordDecisionHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.RecordDecisionParams]{
			Arguments: types.RecordDecisionParams{
				Title:     "Keep the graph in SQLite",
				Rationale: "One storage engine for everything",
			},
		})
	require.NoError(t, err)

	decisions, err := listDecisionsHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.ListDecisionsParams]{})
	require.NoError(t, err)
	assert.Equal(t, 1, decisions.StructuredContent.Count)

	first, err := mapFileHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.MapFileParams]{
			Arguments: types.MapFileParams{FilePath: "store/graph.go", Purpose: "cycle detection", Component: "store"},
		})
	require.NoError(t, err)

	// Re-mapping the same path overwrites instead of duplicating.
	second, err := mapFileHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.MapFileParams]{
			Arguments: types.MapFileParams{FilePath: "store/graph.go", Purpose: "cycle detection and gating", Component: "store"},
		})
	require.NoError(t, err)
	assert.Equal(t, first.StructuredContent.ID, second.StructuredContent.ID)

	mappings, err := listFileMappingsHandler(s)(context.Background(), nil,
		&mcp.CallToolParamsFor[types.ListFileMappingsParams]{
			Arguments: types.ListFileMappingsParams{Component: "store"},
		})
	require.NoError(t, err)
	require.Equal(t, 1, mappings.StructuredContent.Count)
	assert.Equal(t, "cycle detection and gating", mappings.StructuredContent.Mappings[0].Purpose)
}
