// This file contains thin wrappers around the graph module
// for managing graph structures in the simulation data.
package internal

import (
	"iter"
	"slices"

	"github.com/dominikbraun/graph"
)

// The edge attribute that names the progression path
// an edge represents.
const PathAttribute = "path"

// An IdSource hands out node ids that are unique within
// one simulation run.
type IdSource struct {
	next int
}

func (s *IdSource) NextId() int {
	id := s.next
	s.next += 1
	return id
}

type GraphNode interface {
	// A unique ID that is used as the node hash
	Id() int
}

func getNodeId[T GraphNode](node T) int {
	return node.Id()
}

type DependencyGraph[T GraphNode] struct {
	graph.Graph[int, T]
	adjancencyMap map[int]map[int]graph.Edge[int]
}

// Creates an empty directed graph that refuses edges
// which would close a cycle.
func NewDependencyGraph[T GraphNode]() DependencyGraph[T] {
	return DependencyGraph[T]{
		Graph: graph.New(getNodeId[T], graph.Directed(), graph.PreventCycles()),
	}
}

// Adds an edge that is labelled with the given path.
func (g *DependencyGraph[T]) AddEdge(source, target T, path string) error {
	g.adjancencyMap = nil
	return g.Graph.AddEdge(source.Id(), target.Id(), graph.EdgeAttribute(PathAttribute, path))
}

// Visits the nodes reachable from start in breadth-first order.
// The start node has depth 0 and every other node the length of
// the shortest path leading to it.
func (g *DependencyGraph[T]) BreadthSearchIter(start T) iter.Seq2[T, int] {
	iterator := func(yield func(v T, depth int) bool) {
		visited := map[int]bool{start.Id(): true}
		queue := []T{start}
		depths := []int{0}
		for len(queue) > 0 {
			node, depth := queue[0], depths[0]
			queue, depths = queue[1:], depths[1:]
			if !yield(node, depth) {
				return
			}
			for _, dependant := range g.GetDependants(node) {
				if visited[dependant.Id()] {
					continue
				}
				visited[dependant.Id()] = true
				queue = append(queue, dependant)
				depths = append(depths, depth+1)
			}
		}
	}
	return iterator
}

// Returns the nodes that are on the outgoing edges of the given
// source node (the dependants) ordered by id.
func (g *DependencyGraph[T]) GetDependants(source T) []T {
	return g.dependants(source, func(graph.Edge[int]) bool { return true })
}

// Like GetDependants but only follows edges labelled with the path.
func (g *DependencyGraph[T]) GetPathDependants(source T, path string) []T {
	return g.dependants(source, func(e graph.Edge[int]) bool {
		return e.Properties.Attributes[PathAttribute] == path
	})
}

func (g *DependencyGraph[T]) dependants(source T, follow func(graph.Edge[int]) bool) []T {
	if g.adjancencyMap == nil {
		// The map is cached until the next edge is added
		g.adjancencyMap, _ = g.Graph.AdjacencyMap()
	}

	outEdges := g.adjancencyMap[source.Id()]
	keys := make([]int, 0, len(outEdges))
	for k, e := range outEdges {
		if follow(e) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	dependants := make([]T, 0, len(keys))
	for _, k := range keys {
		dependant, _ := g.Vertex(k)
		dependants = append(dependants, dependant)
	}

	return dependants
}

// Returns all nodes in a topological order. Ties in the order
// are broken by node id.
func (g *DependencyGraph[T]) TopologicalOrder() ([]T, error) {
	keys, err := graph.StableTopologicalSort(g.Graph, func(a, b int) bool { return a < b })
	if err != nil {
		return nil, err
	}

	nodes := make([]T, 0, len(keys))
	for _, k := range keys {
		node, _ := g.Vertex(k)
		nodes = append(nodes, node)
	}
	return nodes, nil
}
