package fold

import (
	"github.com/matzehuels/tracefold/pkg/trace"
)

// Result describes what a fold operation changed.
type Result struct {
	// Changed lists the nodes whose Collapse or CollapseBelow flag changed,
	// in the order they were first changed.
	Changed []string

	// Revisits lists nodes that were reached again while already on the
	// current descent path. This only happens when the IN hierarchy has a
	// cycle; descent stops at such a node.
	Revisits []string
}

// Empty reports whether nothing changed.
func (r Result) Empty() bool { return len(r.Changed) == 0 }

type tracker struct {
	g        *trace.Graph
	changed  trace.NodeSet
	revisits trace.NodeSet
	res      Result
}

func newTracker(g *trace.Graph) *tracker {
	return &tracker{g: g, changed: trace.NodeSet{}, revisits: trace.NodeSet{}}
}

func (t *tracker) mark(id string) {
	if t.changed.Has(id) {
		return
	}
	t.changed.Add(id)
	t.res.Changed = append(t.res.Changed, id)
}

func (t *tracker) revisit(id string) {
	if t.revisits.Has(id) {
		return
	}
	t.revisits.Add(id)
	t.res.Revisits = append(t.res.Revisits, id)
}

// CollapseBelow folds the subtree under the node.
//
// A root or composite node gets CollapseBelow set. Each IN-child is then
// hidden (Collapse set) and folded in turn, unless the child still has a
// root or composite parent that is not folded: such a child stays reachable
// from an open branch and must remain visible. The check runs again at every
// level, and every child of every newly hidden node is revisited even when
// it was already reached through another parent.
//
// Folding is not symmetric with [UncollapseBelow]. Folding two parents of a
// shared child in two separate calls hides the child only on the second
// call, once both parents are folded.
func CollapseBelow(g *trace.Graph, id string) Result {
	t := newTracker(g)
	t.collapseBelow(id, trace.NodeSet{})
	return t.res
}

func (t *tracker) collapseBelow(id string, path trace.NodeSet) {
	n := t.g.MustNode(id)
	if n.Kind.Foldable() && !n.CollapseBelow {
		n.CollapseBelow = true
		t.mark(id)
	}

	path.Add(id)
	defer delete(path, id)

	for _, c := range t.g.ChildrenIn(id) {
		if !t.admissible(c) {
			continue
		}
		child := t.g.MustNode(c)
		if !child.Collapse {
			child.Collapse = true
			t.mark(c)
		}
		if path.Has(c) {
			t.revisit(c)
			continue
		}
		t.collapseBelow(c, path)
	}
}

// admissible reports whether every root or composite parent of the node has
// its subtree folded.
func (t *tracker) admissible(id string) bool {
	for _, p := range t.g.ParentsIn(id) {
		parent := t.g.MustNode(p)
		if parent.Kind.Foldable() && !parent.CollapseBelow {
			return false
		}
	}
	return true
}

// UncollapseBelow expands the node and everything below it. Collapse and
// CollapseBelow are cleared on the node and on its entire IN closure,
// regardless of other parents: expanding always wins.
func UncollapseBelow(g *trace.Graph, id string) Result {
	t := newTracker(g)
	t.uncollapseBelow(id, trace.NodeSet{})
	return t.res
}

func (t *tracker) uncollapseBelow(id string, seen trace.NodeSet) {
	if seen.Has(id) {
		return
	}
	seen.Add(id)

	n := t.g.MustNode(id)
	if n.Collapse || n.CollapseBelow {
		n.Collapse = false
		n.CollapseBelow = false
		t.mark(id)
	}
	for _, c := range t.g.ChildrenIn(id) {
		t.uncollapseBelow(c, seen)
	}
}

// UncollapseKind expands every node of the given kind, in graph order.
// Passing [trace.KindRoot] expands the whole trace when every event hangs
// under a root.
func UncollapseKind(g *trace.Graph, k trace.Kind) Result {
	t := newTracker(g)
	seen := trace.NodeSet{}
	for _, n := range g.NodesOfKind(k) {
		t.uncollapseBelow(n.ID, seen)
	}
	return t.res
}

// CanCollapse reports whether a fold action should be offered for the node.
func CanCollapse(n *trace.Node) bool { return n.Kind.Foldable() && !n.CollapseBelow }

// CanExpand reports whether an expand action should be offered for the node.
func CanExpand(n *trace.Node) bool { return n.Kind.Foldable() && n.CollapseBelow }

// SetHide sets the user hide flag on the node and reports whether it
// changed. Hiding is independent of folding and never needs a bridge pass.
func SetHide(g *trace.Graph, id string, hide bool) bool {
	n := g.MustNode(id)
	if n.Hide == hide {
		return false
	}
	n.Hide = hide
	return true
}
