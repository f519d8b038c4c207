package trace

import (
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CycleError reports the strongly connected groups of nodes that make the IN
// hierarchy cyclic. It unwraps to ErrHierarchyCycle.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = "[" + strings.Join(c, " ") + "]"
	}
	return fmt.Sprintf("%s: %s", ErrHierarchyCycle, strings.Join(parts, ", "))
}

func (e *CycleError) Unwrap() error { return ErrHierarchyCycle }

// Validate checks graph integrity and returns nil if the graph is well formed.
//
// It verifies that every edge endpoint names a node in the graph (returning
// ErrInvalidEdgeEndpoint otherwise) and that the IN edges form a DAG
// (returning a *CycleError otherwise). Loaders treat a cycle as a warning:
// the graph is still usable, since every traversal in this package stops
// on a revisit.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		_, okS := g.nodes[e.Source]
		_, okD := g.nodes[e.Dest]
		if !okS || !okD {
			return fmt.Errorf("%w: edge %d %s->%s", ErrInvalidEdgeEndpoint, e.ID, e.Source, e.Dest)
		}
	}
	if cycles := g.HierarchyCycles(); len(cycles) > 0 {
		return &CycleError{Cycles: cycles}
	}
	return nil
}

// HierarchyCycles returns every group of nodes that lie on a common IN
// cycle, each group sorted by ID. A self-contained node (an IN edge from a
// node to itself) is reported as a group of one. Returns nil for a DAG.
//
// Strongly connected components are found with Tarjan's algorithm in
// O(V + E) time.
func (g *Graph) HierarchyCycles() [][]string {
	dg := simple.NewDirectedGraph()
	idOf := make(map[string]int64, len(g.nodeOrder))
	nameOf := make(map[int64]string, len(g.nodeOrder))
	for i, n := range g.nodeOrder {
		idOf[n.ID] = int64(i)
		nameOf[int64(i)] = n.ID
		dg.AddNode(simple.Node(int64(i)))
	}

	selfContained := NodeSet{}
	for _, e := range g.edges {
		if e.Relation != RelationIn {
			continue
		}
		if e.IsSelfLoop() {
			// simple.DirectedGraph panics on self edges.
			selfContained.Add(e.Source)
			continue
		}
		dg.SetEdge(simple.Edge{F: simple.Node(idOf[e.Source]), T: simple.Node(idOf[e.Dest])})
	}

	var cycles [][]string
	for _, id := range selfContained.Sorted() {
		cycles = append(cycles, []string{id})
	}
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]string, len(scc))
		for i, n := range scc {
			ids[i] = nameOf[n.ID()]
		}
		slices.Sort(ids)
		cycles = append(cycles, ids)
	}
	slices.SortFunc(cycles, func(a, b []string) int { return slices.Compare(a, b) })
	return cycles
}
