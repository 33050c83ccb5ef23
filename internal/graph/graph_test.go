package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachableEmptyGraph(t *testing.T) {
	g := New()
	assert.False(t, g.Reachable("a", "b"))
	assert.True(t, g.Reachable("a", "a"), "every node reaches itself")
}

func TestReachableChain(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "d")

	assert.True(t, g.Reachable("a", "d"))
	assert.True(t, g.Reachable("b", "d"))
	assert.False(t, g.Reachable("d", "a"), "edges are directed")
}

func TestReachableDisconnected(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("x", "y")

	assert.False(t, g.Reachable("a", "y"))
	assert.False(t, g.Reachable("y", "b"))
}

func TestReachableDiamond(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d: two paths to d, visited set must not
	// enqueue d twice or miss it.
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")

	assert.True(t, g.Reachable("a", "d"))
	assert.False(t, g.Reachable("d", "a"))
}

func TestWouldCreateCycle(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	assert.True(t, g.WouldCreateCycle("c", "a"), "c->a closes a->b->c->a")
	assert.True(t, g.WouldCreateCycle("b", "a"))
	assert.False(t, g.WouldCreateCycle("a", "c"), "forward edge along existing order is fine")
	assert.True(t, g.WouldCreateCycle("a", "a"), "self loop is always a cycle")
}

func TestTraversalTerminatesOnDenseGraph(t *testing.T) {
	// Fully connected 50-node graph; without a visited set this would blow up.
	g := New()
	for i := 0; i < 50; i++ {
		for j := 0; j < 50; j++ {
			if i != j {
				g.AddEdge(node(i), node(j))
			}
		}
	}
	assert.True(t, g.Reachable(node(0), node(49)))
	assert.False(t, g.Reachable(node(0), "outside"))
}

func node(i int) string { return fmt.Sprintf("n%d", i) }
