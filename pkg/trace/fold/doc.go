// Package fold implements the fold state machine for trace graphs.
//
// # Overview
//
// Folding hides the subtree below a root or composite event so a large trace
// can be read at a coarser level. Two flags on [trace.Node] carry the state:
//
//   - CollapseBelow marks a root or composite whose subtree is folded
//   - Collapse marks a node hidden because some ancestor is folded
//
// [CollapseBelow] sets the flags and [UncollapseBelow] clears them. Neither
// touches edges. After any change the caller must run the bridge reconciler
// so FOLLOWS edges that vanished into a fold are re-routed:
//
//	res := fold.CollapseBelow(g, "12")
//	if !res.Empty() {
//	    diff := bridge.Reconcile(g)
//	    bridge.Apply(g, diff, placer)
//	}
//
// # Shared Children
//
// The IN hierarchy is a DAG. A child with several root or composite parents
// is hidden only when every one of those parents is folded. Parents of other
// kinds do not count. Expanding is unconditional: [UncollapseBelow] clears
// the whole descendant closure even where another parent is still folded.
//
// # Malformed Hierarchies
//
// Every walk in this package terminates on a cyclic hierarchy. Nodes reached
// again on the current descent path are listed in [Result.Revisits] so the
// caller can surface a warning.
package fold
