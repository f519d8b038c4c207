// Package trace provides the in-memory graph model for execution traces
// produced by a behavior-model compiler.
//
// # Overview
//
// A trace is a directed multigraph that mixes two structures over the same
// set of events:
//
//   - a containment hierarchy built from IN edges (an event is part of a
//     larger event), and
//   - a temporal ordering built from FOLLOWS edges.
//
// User-defined named relations ride along as USER_DEFINED edges. A fourth
// relation, COLLAPSED_FOLLOWS, is derived: it bridges FOLLOWS edges whose
// endpoints are hidden inside a folded subtree. Derived edges are owned by
// the [bridge] package and are never authoritative.
//
// # Hierarchy Direction
//
// An IN edge points from the container to the contained event: its Source
// is the parent and its Dest is the child. [Graph.ParentsIn] and
// [Graph.ChildrenIn] both follow this convention. The hierarchy is a DAG,
// not a tree, so a node may have several parents.
//
// # Basic Usage
//
//	g := trace.New()
//	g.AddNode(trace.Node{ID: "1", Kind: trace.KindRoot})
//	g.AddNode(trace.Node{ID: "2", Kind: trace.KindAtomic})
//	g.AddEdge(trace.Edge{Source: "1", Dest: "2", Relation: trace.RelationIn})
//
// Query the hierarchy with [Graph.ParentsIn], [Graph.ChildrenIn],
// [Graph.DescendantsIn] and [Graph.VisibleAncestorsIn]. Use [Graph.Validate]
// after loading to detect a cyclic hierarchy.
//
// # Adjacency Index
//
// The graph owns an index from node ID to incident edge IDs. Nodes and edges
// never hold references to each other; every lookup goes through the graph.
// The index is updated on every [Graph.AddEdge] and [Graph.RemoveEdge].
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The fold and bridge
// operations assume a single writer with no concurrent readers.
//
// # Related Packages
//
//   - [fold]: collapse and expand subtrees
//   - [bridge]: recompute COLLAPSED_FOLLOWS edges after a fold change
//   - [placement]: deterministic curve control points for new edges
//
// [fold]: github.com/matzehuels/tracefold/pkg/trace/fold
// [bridge]: github.com/matzehuels/tracefold/pkg/trace/bridge
// [placement]: github.com/matzehuels/tracefold/pkg/trace/placement
package trace
