package trace

import (
	"maps"
	"slices"
)

// NodeSet is a set of node IDs.
type NodeSet map[string]struct{}

// Has reports whether id is in the set.
func (s NodeSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s NodeSet) Add(id string) { s[id] = struct{}{} }

// Sorted returns the members in ascending order.
func (s NodeSet) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// ParentsIn returns the IN-parents of the node: the containers it is part
// of. The hierarchy is a DAG, so there may be more than one. IDs are
// deduplicated and returned in edge insertion order.
func (g *Graph) ParentsIn(id string) []string {
	var parents []string
	for _, eid := range g.incident[id] {
		e := g.byID[eid]
		if e.Relation == RelationIn && e.Dest == id && !slices.Contains(parents, e.Source) {
			parents = append(parents, e.Source)
		}
	}
	return parents
}

// ChildrenIn returns the IN-children of the node: the events it contains.
// IDs are deduplicated and returned in edge insertion order.
func (g *Graph) ChildrenIn(id string) []string {
	var children []string
	for _, eid := range g.incident[id] {
		e := g.byID[eid]
		if e.Relation == RelationIn && e.Source == id && !slices.Contains(children, e.Dest) {
			children = append(children, e.Dest)
		}
	}
	return children
}

// DescendantsIn returns the node and everything below it in the IN
// hierarchy. A node reached twice, through a second parent or through a
// malformed cycle, is not descended into again.
func (g *Graph) DescendantsIn(id string) NodeSet {
	seen := NodeSet{}
	var dfs func(string)
	dfs = func(n string) {
		if seen.Has(n) {
			return
		}
		seen.Add(n)
		for _, c := range g.ChildrenIn(n) {
			dfs(c)
		}
	}
	dfs(id)
	return seen
}

// VisibleAncestorsIn returns the nearest visible stand-ins for the node.
// A visible node stands for itself. A collapsed node is replaced by each of
// its visible parents, and by the visible ancestors of each collapsed
// parent. Because a node can have several parents, one collapsed node may
// map to several visible ancestors.
//
// The walk keeps a visited set so a cyclic hierarchy cannot loop forever.
// A collapsed node with no parents has no visible ancestor and yields an
// empty set.
func (g *Graph) VisibleAncestorsIn(id string) NodeSet {
	out := NodeSet{}
	if !g.MustNode(id).Collapse {
		out.Add(id)
		return out
	}
	visited := NodeSet{id: {}}
	var up func(string)
	up = func(n string) {
		for _, p := range g.ParentsIn(n) {
			if !g.nodes[p].Collapse {
				out.Add(p)
				continue
			}
			if visited.Has(p) {
				continue
			}
			visited.Add(p)
			up(p)
		}
	}
	up(id)
	return out
}

// Roots returns the nodes that have no IN parent, in insertion order.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, n := range g.nodeOrder {
		if len(g.ParentsIn(n.ID)) == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}
