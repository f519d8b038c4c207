package trace

import (
	"fmt"
	"slices"
)

// Graph is one trace: an ordered collection of nodes and an ordered
// collection of edges, plus an adjacency index from node ID to incident
// edge IDs.
//
// Nodes are added once while the trace is being loaded and are never
// removed. Edges may be added and removed at any time; in practice only
// COLLAPSED_FOLLOWS edges change after load.
//
// The zero value is not usable - use New to create a valid Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	Index       int     // 1-based trace number within its trace set
	Mark        Mark    // User mark on the trace
	Probability float64 // Trace probability reported by the generator

	nodes     map[string]*Node
	nodeOrder []*Node
	edges     []*Edge
	byID      map[EdgeID]*Edge
	incident  map[string][]EdgeID // nodeID -> IDs of edges touching it
	nextEdge  EdgeID
}

// New creates an empty, unmarked graph.
func New() *Graph {
	return &Graph{
		Mark:     MarkUnmarked,
		nodes:    make(map[string]*Node),
		byID:     make(map[EdgeID]*Edge),
		incident: make(map[string][]EdgeID),
	}
}

// AddNode adds a copy of n to the graph. It returns ErrInvalidNodeID if the
// ID is empty, ErrDuplicateNodeID if the ID is taken, or ErrUnknownKind if
// n.Kind is out of range.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if !n.Kind.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(n.Kind))
	}
	node := &n
	g.nodes[node.ID] = node
	g.nodeOrder = append(g.nodeOrder, node)
	return nil
}

// AddEdge adds an edge between two existing nodes and returns the ID it was
// assigned. Any ID already set on e is ignored. Control points on e are kept,
// so edges read back from a saved project keep their geometry.
//
// Multiple edges between the same two nodes are allowed; the graph is a
// multigraph.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if _, ok := g.nodes[e.Source]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSourceNode, e.Source)
	}
	if _, ok := g.nodes[e.Dest]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTargetNode, e.Dest)
	}
	if !e.Relation.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRelation, int(e.Relation))
	}
	g.nextEdge++
	e.ID = g.nextEdge
	if e.Control != nil {
		c := *e.Control
		e.Control = &c
	}
	edge := &e
	g.edges = append(g.edges, edge)
	g.byID[edge.ID] = edge
	g.incident[edge.Source] = append(g.incident[edge.Source], edge.ID)
	if edge.Dest != edge.Source {
		g.incident[edge.Dest] = append(g.incident[edge.Dest], edge.ID)
	}
	return edge.ID, nil
}

// RemoveEdge removes the edge with the given ID from the edge collection and
// from both endpoint adjacency lists. It reports whether the edge existed.
func (g *Graph) RemoveEdge(id EdgeID) bool {
	e, ok := g.byID[id]
	if !ok {
		return false
	}
	delete(g.byID, id)
	g.edges = slices.DeleteFunc(g.edges, func(x *Edge) bool { return x.ID == id })
	drop := func(s EdgeID) bool { return s == id }
	g.incident[e.Source] = slices.DeleteFunc(g.incident[e.Source], drop)
	g.incident[e.Dest] = slices.DeleteFunc(g.incident[e.Dest], drop)
	return true
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the node stored in the graph, so
// flag changes through it affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// MustNode is like Node but panics if id is not in the graph. Fold and
// bridge operations use it: they assume a graph whose edges were checked by
// AddEdge, so a miss is a caller bug rather than a data error.
func (g *Graph) MustNode(id string) *Node {
	n, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("trace: node %q not in graph", id))
	}
	return n
}

// Nodes returns all nodes in insertion order. The slice is a copy, but the
// node pointers refer to the graph's nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodeOrder) }

// Edges returns all edges in insertion order. The slice is a copy, but the
// edge pointers refer to the graph's edges.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID and true, or nil and false.
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	e, ok := g.byID[id]
	return e, ok
}

// EdgesOf returns the edges incident to the node, in the order they were
// added. Self loops appear once.
func (g *Graph) EdgesOf(id string) []*Edge {
	ids := g.incident[id]
	out := make([]*Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, g.byID[eid])
	}
	return out
}

// EdgesWithRelation returns the edges of relation r in insertion order.
func (g *Graph) EdgesWithRelation(r Relation) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Relation == r {
			out = append(out, e)
		}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesOfKind returns the nodes of kind k in insertion order.
func (g *Graph) NodesOfKind(k Kind) []*Node {
	var out []*Node
	for _, n := range g.nodeOrder {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of g. Edge IDs are preserved, so diffs computed
// on the clone can be applied to the clone.
func (g *Graph) Clone() *Graph {
	c := New()
	c.Index, c.Mark, c.Probability = g.Index, g.Mark, g.Probability
	for _, n := range g.nodeOrder {
		_ = c.AddNode(*n)
	}
	for _, e := range g.edges {
		cp := *e
		if e.Control != nil {
			ctl := *e.Control
			cp.Control = &ctl
		}
		edge := &cp
		c.edges = append(c.edges, edge)
		c.byID[edge.ID] = edge
		c.incident[edge.Source] = append(c.incident[edge.Source], edge.ID)
		if edge.Dest != edge.Source {
			c.incident[edge.Dest] = append(c.incident[edge.Dest], edge.ID)
		}
	}
	c.nextEdge = g.nextEdge
	return c
}
