// Package dag provides a small directed graph with deterministic topological
// ordering. Module build order is computed on top of it.
package dag

import (
	"fmt"
	"strings"
)

// CycleError indicates that the graph contains a cycle, preventing topological ordering
type CycleError struct {
	// Nodes left with unresolved incoming edges once ordering stalls. Every
	// cycle in the graph is contained in this set.
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Cycle, ", "))
}

// Graph is a directed graph keyed by string. An edge from A to B means
// A must come before B.
type Graph struct {
	adjacency map[string][]string
	edgeSet   map[[2]string]bool
	nodes     []string // insertion order
	nodeSet   map[string]bool
}

// New creates an empty Graph
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		edgeSet:   make(map[[2]string]bool),
		nodeSet:   make(map[string]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, adding both nodes if needed.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Nodes returns all nodes in insertion order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Successors returns the nodes reachable by one edge from name, in insertion order
func (g *Graph) Successors(name string) []string {
	out := make([]string, len(g.adjacency[name]))
	copy(out, g.adjacency[name])
	return out
}

// HasNode reports whether name is part of the graph
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// TopologicalSort returns an order in which every edge points forward,
// using Kahn's algorithm. Nodes that become ready at the same time keep
// their insertion order. A cycle yields *CycleError.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var stuck []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				stuck = append(stuck, node)
			}
		}
		return nil, &CycleError{Cycle: stuck}
	}

	return result, nil
}
