package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projmem/projmem/models"
	"github.com/projmem/projmem/types"
)

func TestAddDependencyAndQuery(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")

	edge, err := s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	require.NoError(t, err)
	assert.NotZero(t, edge.ID)
	assert.Equal(t, a.ID, edge.ParentTaskID)
	assert.Equal(t, b.ID, edge.ChildTaskID)

	links, err := s.TaskDependencies(b.ID)
	require.NoError(t, err)
	require.Len(t, links.DependsOn, 1)
	assert.Equal(t, a.ID, links.DependsOn[0].Task.ID)
	assert.Empty(t, links.Blocks)

	links, err = s.TaskDependencies(a.ID)
	require.NoError(t, err)
	require.Len(t, links.Blocks, 1)
	assert.Equal(t, b.ID, links.Blocks[0].Task.ID)
	assert.Empty(t, links.DependsOn)

	_, err = s.TaskDependencies("task-missing")
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
}

func TestAddDependencyRejectsCycle(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")
	c := seedTask(t, s, p.ID, "C")

	_, err := s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	require.NoError(t, err)
	_, err = s.AddDependency(p.ID, b.ID, c.ID, models.DepBlocks)
	require.NoError(t, err)

	// C -> A would close A -> B -> C -> A.
	_, err = s.AddDependency(p.ID, c.ID, a.ID, models.DepBlocks)
	require.Error(t, err)
	assert.Equal(t, types.CodeCycleDetected, types.CodeOf(err))

	// The refused edge left nothing behind.
	would, err := s.WouldCreateCycle(p.ID, a.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, would)
}

func TestAddDependencySelfLoop(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")

	_, err := s.AddDependency(p.ID, a.ID, a.ID, models.DepBlocks)
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestAddDependencyCycleAcrossTypes(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")

	// A subtask edge still counts for acyclicity.
	_, err := s.AddDependency(p.ID, a.ID, b.ID, models.DepSubtask)
	require.NoError(t, err)
	_, err = s.AddDependency(p.ID, b.ID, a.ID, models.DepPrerequisite)
	assert.Equal(t, types.CodeCycleDetected, types.CodeOf(err))
}

func TestAddDependencyDuplicate(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")

	_, err := s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	require.NoError(t, err)

	_, err = s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	assert.Equal(t, types.CodeAlreadyExists, types.CodeOf(err))

	// A different type between the same pair is a distinct edge.
	_, err = s.AddDependency(p.ID, a.ID, b.ID, models.DepSubtask)
	require.NoError(t, err)
}

func TestAddDependencyUnknownTaskOrType(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")

	_, err := s.AddDependency(p.ID, a.ID, "task-missing", models.DepBlocks)
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))

	b := seedTask(t, s, p.ID, "B")
	_, err = s.AddDependency(p.ID, a.ID, b.ID, models.DependencyType("bogus"))
	assert.Equal(t, types.CodeInvalidArgument, types.CodeOf(err))
}

func TestRemoveDependencyIdempotent(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")

	_, err := s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	require.NoError(t, err)
	_, err = s.AddDependency(p.ID, a.ID, b.ID, models.DepSubtask)
	require.NoError(t, err)

	// Typed removal only touches that edge.
	removed, err := s.RemoveDependency(a.ID, b.ID, "blocks")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// Removing again is not an error; zero rows matched.
	removed, err = s.RemoveDependency(a.ID, b.ID, "blocks")
	require.NoError(t, err)
	assert.Zero(t, removed)

	// Untyped removal sweeps the rest.
	removed, err = s.RemoveDependency(a.ID, b.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestWouldCreateCycleProbe(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")
	a := seedTask(t, s, p.ID, "A")
	b := seedTask(t, s, p.ID, "B")

	would, err := s.WouldCreateCycle(p.ID, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, would)

	would, err = s.WouldCreateCycle(p.ID, a.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, would)

	_, err = s.AddDependency(p.ID, a.ID, b.ID, models.DepBlocks)
	require.NoError(t, err)

	would, err = s.WouldCreateCycle(p.ID, b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, would)

	// Unknown endpoints are NotFound, not a "no cycle" answer.
	_, err = s.WouldCreateCycle(p.ID, a.ID, "task-missing")
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
	_, err = s.WouldCreateCycle(p.ID, "task-missing", b.ID)
	assert.Equal(t, types.CodeNotFound, types.CodeOf(err))
}

func TestDependencyChainStaysAcyclicUnderLoad(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s, "main")

	// A long chain; every back edge must be refused.
	const n = 25
	ids := make([]string, n)
	for i := range ids {
		ids[i] = seedTask(t, s, p.ID, fmt.Sprintf("Step %d", i)).ID
	}
	for i := 0; i < n-1; i++ {
		_, err := s.AddDependency(p.ID, ids[i], ids[i+1], models.DepPrerequisite)
		require.NoError(t, err)
	}
	for i := 5; i < n; i += 5 {
		_, err := s.AddDependency(p.ID, ids[i], ids[i-5], models.DepBlocks)
		assert.Equal(t, types.CodeCycleDetected, types.CodeOf(err))
	}
}
