package bridge

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/tracefold/pkg/trace"
)

// Diff is the change needed to bring the bridge edges of a graph in line
// with its fold state.
type Diff struct {
	Remove []trace.EdgeID // Stale or duplicate COLLAPSED_FOLLOWS edges, ascending
	Add    []trace.Pair   // Missing bridges, sorted by Source then Dest
}

// Empty reports whether the diff has nothing to do.
func (d Diff) Empty() bool { return len(d.Remove) == 0 && len(d.Add) == 0 }

// Placer assigns control points to a new edge before it is inserted, and is
// told about every bridge removed so its per-pair counts match the graph.
// [placement.Placer] implements it.
//
// [placement.Placer]: github.com/matzehuels/tracefold/pkg/trace/placement
type Placer interface {
	Place(g *trace.Graph, e *trace.Edge)
	Release(e *trace.Edge)
}

// Required returns the set of bridge pairs the current fold state calls for.
//
// For every FOLLOWS edge with at least one collapsed endpoint, each visible
// ancestor of the source is paired with each visible ancestor of the
// destination. Pairs that would join a node to itself are dropped.
func Required(g *trace.Graph) map[trace.Pair]struct{} {
	required := make(map[trace.Pair]struct{})
	for _, e := range g.EdgesWithRelation(trace.RelationFollows) {
		if g.MustNode(e.Source).Visible() && g.MustNode(e.Dest).Visible() {
			continue
		}
		dests := g.VisibleAncestorsIn(e.Dest)
		for s := range g.VisibleAncestorsIn(e.Source) {
			for d := range dests {
				if s != d {
					required[trace.Pair{Source: s, Dest: d}] = struct{}{}
				}
			}
		}
	}
	return required
}

// Reconcile computes the bridge diff for g without modifying it.
//
// Every COLLAPSED_FOLLOWS edge whose pair is no longer required is removed.
// When several bridge edges share one pair, all but the lowest ID are
// removed too. Every required pair without an edge is added.
func Reconcile(g *trace.Graph) Diff {
	existing := make(map[trace.Pair][]trace.EdgeID)
	for _, e := range g.EdgesWithRelation(trace.RelationCollapsedFollows) {
		existing[e.Pair()] = append(existing[e.Pair()], e.ID)
	}
	required := Required(g)

	var diff Diff
	for pair, ids := range existing {
		if _, ok := required[pair]; ok {
			diff.Remove = append(diff.Remove, ids[1:]...)
			continue
		}
		diff.Remove = append(diff.Remove, ids...)
	}
	for pair := range required {
		if _, ok := existing[pair]; !ok {
			diff.Add = append(diff.Add, pair)
		}
	}

	slices.Sort(diff.Remove)
	slices.SortFunc(diff.Add, comparePairs)
	return diff
}

func comparePairs(a, b trace.Pair) int {
	return cmp.Or(cmp.Compare(a.Source, b.Source), cmp.Compare(a.Dest, b.Dest))
}

// Apply removes the edges listed in diff.Remove and inserts one
// COLLAPSED_FOLLOWS edge per pair in diff.Add, placing each with p before
// insertion. Removed edges are released from p first, so a bridge that is
// removed and later re-created gets the same control points. p may be nil,
// which leaves the new edges unplaced.
//
// It returns the IDs of the inserted edges in diff.Add order. An edge ID in
// diff.Remove that is not in the graph is skipped. The only error is an
// added pair naming a node that is not in the graph.
func Apply(g *trace.Graph, diff Diff, p Placer) ([]trace.EdgeID, error) {
	for _, id := range diff.Remove {
		e, ok := g.Edge(id)
		if !ok {
			continue
		}
		if p != nil {
			p.Release(e)
		}
		g.RemoveEdge(id)
	}
	added := make([]trace.EdgeID, 0, len(diff.Add))
	for _, pair := range diff.Add {
		e := &trace.Edge{Source: pair.Source, Dest: pair.Dest, Relation: trace.RelationCollapsedFollows}
		if _, ok := g.Node(pair.Source); !ok {
			return added, fmt.Errorf("bridge %s->%s: %w", pair.Source, pair.Dest, trace.ErrUnknownSourceNode)
		}
		if _, ok := g.Node(pair.Dest); !ok {
			return added, fmt.Errorf("bridge %s->%s: %w", pair.Source, pair.Dest, trace.ErrUnknownTargetNode)
		}
		if p != nil {
			p.Place(g, e)
		}
		id, err := g.AddEdge(*e)
		if err != nil {
			return added, err
		}
		added = append(added, id)
	}
	return added, nil
}

// Refresh runs Reconcile and Apply in one step and returns the diff applied.
func Refresh(g *trace.Graph, p Placer) (Diff, error) {
	diff := Reconcile(g)
	if diff.Empty() {
		return diff, nil
	}
	_, err := Apply(g, diff, p)
	return diff, err
}
