// Package bridge keeps COLLAPSED_FOLLOWS edges consistent with the fold
// state of a trace.
//
// When a FOLLOWS edge has an endpoint inside a folded subtree, the ordering
// it carries would disappear from view. A bridge edge re-routes it between
// the nearest visible ancestors of each endpoint. Because the IN hierarchy
// is a DAG, an endpoint may have several visible ancestors and one FOLLOWS
// edge may need several bridges.
//
// Bridges are derived data. [Reconcile] recomputes the full required set
// from scratch and diffs it against the bridges present in the graph; it
// never patches incrementally. [Apply] carries out the diff. Running the
// pair again without any fold change is a no-op:
//
//	diff := bridge.Reconcile(g)
//	added, err := bridge.Apply(g, diff, placer)
//
// Bridges never connect a node to itself. Two events folded into the same
// composite do not produce a bridge between them.
package bridge
