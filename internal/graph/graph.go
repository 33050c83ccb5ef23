// Package graph implements the reachability checks behind dependency
// validation. A Graph is an adjacency structure over task IDs; it never
// touches storage, which keeps the traversal logic trivially testable.
package graph

// Graph is a directed graph keyed by task ID. Edges point parent -> child:
// the child is gated on the parent.
type Graph struct {
	children map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{children: make(map[string][]string)}
}

// AddEdge records a parent -> child edge. Duplicate edges are harmless; the
// visited set below deduplicates during traversal.
func (g *Graph) AddEdge(parent, child string) {
	g.children[parent] = append(g.children[parent], child)
}

// Reachable reports whether `to` can be reached from `from` by following
// edges forward. BFS with a visited set: each node is enqueued at most once,
// so the walk is O(V+E) and terminates on any finite graph, cyclic or not.
func (g *Graph) Reachable(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.children[current] {
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding parent -> child would close a
// cycle: true iff parent is already reachable from child.
func (g *Graph) WouldCreateCycle(parent, child string) bool {
	if parent == child {
		return true
	}
	return g.Reachable(child, parent)
}
