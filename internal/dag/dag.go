// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for topological sorting
// and cycle detection. It is used by the build graph resolver to order module
// compilation so that every module follows the modules it depends on.
package dag

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes of the cycle in traversal order. The first node is
		// repeated at the end, so A -> B -> A is reported as [A B A].
		Cycle []string
	}

	// Graph is a directed graph for topological sorting.
	// Nodes are identified by string keys. Edges represent "must build before" relationships:
	// an edge from A to B means A must be built before B.
	Graph struct {
		// successors maps each node to the nodes that depend on it.
		successors map[string][]string
		// predecessors maps each node to the nodes it depends on, in edge insertion order.
		predecessors map[string][]string
		// nodes tracks all nodes in insertion order. The insertion index is the
		// node's priority when several nodes are ready at the same time.
		nodes []string
		// index provides O(1) lookup of a node's insertion position.
		index map[string]int
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
		index:        make(map[string]int),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" must be built before "to".
// Both nodes are implicitly added if they don't exist. Repeated edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	if slices.Contains(g.successors[from], to) {
		return
	}
	g.successors[from] = append(g.successors[from], to)
	g.predecessors[to] = append(g.predecessors[to], from)
}

// FindCycle walks the graph depth-first, following edges from each node to the
// nodes it depends on, and returns the first back-edge it meets as a CycleError.
// Nodes are visited in insertion order so the reported cycle is deterministic.
// It returns nil for an acyclic graph.
func (g *Graph) FindCycle() *CycleError {
	const (
		unvisited = iota
		visiting
		done
	)

	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(node string) *CycleError
	visit = func(node string) *CycleError {
		state[node] = visiting
		stack = append(stack, node)

		for _, dep := range g.predecessors[node] {
			switch state[dep] {
			case visiting:
				start := slices.Index(stack, dep)
				cycle := slices.Clone(stack[start:])
				return &CycleError{Cycle: append(cycle, dep)}
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = done
		return nil
	}

	for _, node := range g.nodes {
		if state[node] != unvisited {
			continue
		}
		if err := visit(node); err != nil {
			return err
		}
	}
	return nil
}

// TopologicalSort returns a valid build order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: whenever several nodes are ready, the one
// inserted first is emitted first.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	if cycle := g.FindCycle(); cycle != nil {
		return nil, cycle
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.predecessors[node])
	}

	// ready holds insertion indexes, kept sorted ascending.
	var ready []int
	for i, node := range g.nodes {
		if inDegree[node] == 0 {
			ready = append(ready, i)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := g.nodes[ready[0]]
		ready = ready[1:]
		result = append(result, node)

		for _, next := range g.successors[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				idx := g.index[next]
				pos, _ := slices.BinarySearch(ready, idx)
				ready = slices.Insert(ready, pos, idx)
			}
		}
	}

	return result, nil
}
