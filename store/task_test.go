package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projmem/projmem/internal/util"
	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

func TestCreateTaskDefaultsAndGet(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	tk := models.NewTask("task-11111111", p.ID, "Write the parser")
	require.NoError(t, s.CreateTask(&tk))

	got, err := s.GetTask("task-11111111")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, got.Status)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Nil(t, got.ParentTaskID)
	assert.Nil(t, got.CompletedAt)
}

func TestCreateTaskUnknownProject(t *testing.T) {
	s := newTestStore(t)

	tk := models.NewTask(util.NewID("task"), "proj-missing", "Orphan")
	err := s.CreateTask(&tk)
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
}

func TestCreateTaskParentMustShareProject(t *testing.T) {
	s := newTestStore(t)
	p1 := seedProject(t, s, "main")
	p2 := seedProject(t, s, "other")
	foreign := seedTask(t, s, p2.ID, "Foreign parent")

	tk := models.NewTask(util.NewID("task"), p1.ID, "Child")
	tk.ParentTaskID = &foreign.ID
	err := s.CreateTask(&tk)
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestUpdateTaskPartial(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	tk := seedTask(t, s, p.ID, "Original title")

	status := models.StatusInProgress
	assignee := "mira"
	got, err := s.UpdateTask(tk.ID, models.TaskUpdate{Status: &status, Assignee: &assignee})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "mira", got.Assignee)
	// Untouched fields survive the partial update.
	assert.Equal(t, "Original title", got.Title)
	assert.Equal(t, models.PriorityMedium, got.Priority)

	_, err = s.UpdateTask(tk.ID, models.TaskUpdate{})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))

	bad := models.TaskStatus("bogus")
	_, err = s.UpdateTask(tk.ID, models.TaskUpdate{Status: &bad})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestUpdateTaskOwnParentRejected(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	tk := seedTask(t, s, p.ID, "Self")

	_, err := s.UpdateTask(tk.ID, models.TaskUpdate{ParentTaskID: &tk.ID})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestCompleteTaskNoGates(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	tk := seedTask(t, s, p.ID, "Free task")

	got, check, err := s.CompleteTask(tk.ID, "done early")
	require.NoError(t, err)
	assert.True(t, check.Satisfied())
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, "done early", got.Notes)

	// Persisted, not just returned.
	stored, err := s.GetTask(tk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
}

func TestCompleteTaskGatedByDependency(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	parent := seedTask(t, s, p.ID, "Parent")
	child := seedTask(t, s, p.ID, "Child")
	_, err := s.AddDependency(p.ID, parent.ID, child.ID, models.DepBlocks)
	require.NoError(t, err)

	_, check, err := s.CompleteTask(child.ID, "")
	require.Error(t, err)
	assert.Equal(t, types.CodeBlocked, types.CodeOf(err))
	require.Len(t, check.UnsatisfiedDependencies, 1)
	assert.Equal(t, parent.ID, check.UnsatisfiedDependencies[0].ID)

	// The task is untouched by the refused attempt.
	stored, err := s.GetTask(child.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, stored.Status)

	// Completing the parent opens the gate.
	_, _, err = s.CompleteTask(parent.ID, "")
	require.NoError(t, err)
	_, check, err = s.CompleteTask(child.ID, "")
	require.NoError(t, err)
	assert.True(t, check.Satisfied())
}

func TestCompleteTaskSubtaskEdgeDoesNotGate(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	parent := seedTask(t, s, p.ID, "Epic")
	child := seedTask(t, s, p.ID, "Piece")
	_, err := s.AddDependency(p.ID, parent.ID, child.ID, models.DepSubtask)
	require.NoError(t, err)

	_, _, err = s.CompleteTask(child.ID, "")
	require.NoError(t, err)
}

func TestCompleteTaskGatedByBlocker(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	tk := seedTask(t, s, p.ID, "Ship it")

	blk := models.NewBlocker(util.NewID("blk"), p.ID, "Legal review pending")
	require.NoError(t, s.CreateBlocker(&blk))
	_, err := s.AddImpact(blk.ID, tk.ID, models.ImpactBlocks, "", nil)
	require.NoError(t, err)

	_, check, err := s.CompleteTask(tk.ID, "")
	assert.Equal(t, types.CodeBlocked, types.CodeOf(err))
	require.Len(t, check.OpenBlockers, 1)
	assert.Equal(t, blk.ID, check.OpenBlockers[0].ID)

	// A delays impact never gates.
	other := seedTask(t, s, p.ID, "Parallel work")
	_, err = s.AddImpact(blk.ID, other.ID, models.ImpactDelays, "", nil)
	require.NoError(t, err)
	_, _, err = s.CompleteTask(other.ID, "")
	require.NoError(t, err)

	// Resolving the blocker opens the gate.
	status := models.BlockerResolved
	_, err = s.UpdateBlocker(blk.ID, models.BlockerUpdate{Status: &status})
	require.NoError(t, err)
	_, _, err = s.CompleteTask(tk.ID, "")
	require.NoError(t, err)
}

func TestUpdateTaskToCompletedRunsGate(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	parent := seedTask(t, s, p.ID, "Parent")
	child := seedTask(t, s, p.ID, "Child")
	_, err := s.AddDependency(p.ID, parent.ID, child.ID, models.DepPrerequisite)
	require.NoError(t, err)

	done := models.StatusCompleted
	_, err = s.UpdateTask(child.ID, models.TaskUpdate{Status: &done})
	assert.Equal(t, types.CodeBlocked, types.CodeOf(err))

	// Reopening a completed task clears the completion stamp.
	_, _, err = s.CompleteTask(parent.ID, "")
	require.NoError(t, err)
	todo := models.StatusTodo
	got, err := s.UpdateTask(parent.ID, models.TaskUpdate{Status: &todo})
	require.NoError(t, err)
	assert.Nil(t, got.CompletedAt)
}

func TestDeleteTaskDetachesSubtasks(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	parent := seedTask(t, s, p.ID, "Parent")

	child := models.NewTask(util.NewID("task"), p.ID, "Child")
	child.ParentTaskID = &parent.ID
	require.NoError(t, s.CreateTask(&child))

	require.NoError(t, s.DeleteTask(parent.ID))

	got, err := s.GetTask(child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentTaskID)

	assert.Equal(t, types.CodeNotFound, types.CodeOf(s.DeleteTask(parent.ID)))
}

func TestDeleteTaskCascadesEdgesAndImpacts(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	doomed := seedTask(t, s, p.ID, "Doomed")
	upstream := seedTask(t, s, p.ID, "Upstream")
	downstream := seedTask(t, s, p.ID, "Downstream")

	// Edges on both sides of the task, plus a blocker impact on it.
	_, err := s.AddDependency(p.ID, upstream.ID, doomed.ID, models.DepBlocks)
	require.NoError(t, err)
	_, err = s.AddDependency(p.ID, doomed.ID, downstream.ID, models.DepPrerequisite)
	require.NoError(t, err)

	blk := models.NewBlocker(util.NewID("blk"), p.ID, "Vendor outage")
	require.NoError(t, s.CreateBlocker(&blk))
	_, err = s.AddImpact(blk.ID, doomed.ID, models.ImpactBlocks, "", nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(doomed.ID))

	var edges, impacts int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM task_dependencies`).Scan(&edges))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM blocker_impacts`).Scan(&impacts))
	assert.Zero(t, edges)
	assert.Zero(t, impacts)

	// The blocker itself survives; only its link to the task goes.
	_, err = s.GetBlocker(blk.ID)
	require.NoError(t, err)

	_, err = s.TaskDependencies(doomed.ID)
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))

	// With its gating parent gone, the downstream task can complete.
	_, _, err = s.CompleteTask(downstream.ID, "")
	require.NoError(t, err)
}

func TestListTasksFilters(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	a := models.NewTask(util.NewID("task"), p.ID, "Fix login flow")
	a.Priority = models.PriorityHigh
	a.Assignee = "mira"
	require.NoError(t, s.CreateTask(&a))

	b := models.NewTask(util.NewID("task"), p.ID, "Write docs")
	require.NoError(t, s.CreateTask(&b))
	_, _, err := s.CompleteTask(b.ID, "")
	require.NoError(t, err)

	all, err := s.ListTasks(p.ID, TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	todo, err := s.ListTasks(p.ID, TaskFilter{Status: "todo"})
	require.NoError(t, err)
	require.Len(t, todo, 1)
	assert.Equal(t, a.ID, todo[0].ID)

	high, err := s.ListTasks(p.ID, TaskFilter{Priority: "high", Assignee: "mira"})
	require.NoError(t, err)
	require.Len(t, high, 1)

	search, err := s.ListTasks(p.ID, TaskFilter{Search: "login"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, a.ID, search[0].ID)

	_, err = s.ListTasks(p.ID, TaskFilter{Status: "bogus"})
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}
