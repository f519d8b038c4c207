package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the edge's
	// Source does not name a node in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the edge's
	// Dest does not name a node in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownKind is returned when a node kind tag is not one of the
	// recognized event kinds.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrUnknownRelation is returned when an edge relation tag is not one of
	// the recognized relations.
	ErrUnknownRelation = errors.New("unknown edge relation")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrHierarchyCycle is returned by [Graph.Validate] when the IN edges do
	// not form a DAG. Fold and bridge operations still terminate on such a
	// graph, but the result is not meaningful.
	ErrHierarchyCycle = errors.New("IN hierarchy contains a cycle")
)

// Kind is the event kind of a node. Only [KindRoot] and [KindComposite]
// nodes take part in fold propagation; every other kind is a leaf with
// respect to folding.
type Kind int

const (
	// KindRoot is a top-level event of the schema.
	KindRoot Kind = iota
	// KindComposite is an event that contains other events.
	KindComposite
	// KindAtomic is an indivisible event.
	KindAtomic
	// KindSchema is the schema node itself.
	KindSchema
	// KindSay is a SAY annotation attached to the trace.
	KindSay
)

var kindTags = [...]string{
	KindRoot:      "R",
	KindComposite: "C",
	KindAtomic:    "A",
	KindSchema:    "S",
	KindSay:       "T",
}

var kindNames = [...]string{
	KindRoot:      "root",
	KindComposite: "composite",
	KindAtomic:    "atomic",
	KindSchema:    "schema",
	KindSay:       "say",
}

// ParseKind converts a single-letter wire tag ("R", "C", "A", "S", "T")
// to a Kind. It returns ErrUnknownKind for anything else.
func ParseKind(tag string) (Kind, error) {
	for k, t := range kindTags {
		if t == tag {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Tag returns the single-letter wire tag for k.
func (k Kind) Tag() string {
	if !k.valid() {
		return "?"
	}
	return kindTags[k]
}

// String returns the lower-case name of k.
func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Foldable reports whether nodes of this kind can fold their subtree.
func (k Kind) Foldable() bool { return k == KindRoot || k == KindComposite }

func (k Kind) valid() bool { return k >= KindRoot && k <= KindSay }

// Relation is the type of an edge.
type Relation int

const (
	// RelationIn is hierarchical containment. The edge's Source is the
	// container and its Dest is the contained event.
	RelationIn Relation = iota
	// RelationFollows is temporal ordering: Dest happens after Source.
	RelationFollows
	// RelationCollapsedFollows is a derived ordering edge that bridges a
	// FOLLOWS edge across a folded region. It is owned by the bridge
	// reconciler and is always safe to discard and regenerate.
	RelationCollapsedFollows
	// RelationUserDefined is a named relation from the model, unaffected by
	// folding.
	RelationUserDefined
)

var relationTags = [...]string{
	RelationIn:               "IN",
	RelationFollows:          "FOLLOWS",
	RelationCollapsedFollows: "COLLAPSED_FOLLOWS",
	RelationUserDefined:      "USER_DEFINED",
}

// ParseRelation converts a wire tag such as "FOLLOWS" to a Relation.
// It returns ErrUnknownRelation for anything else.
func ParseRelation(tag string) (Relation, error) {
	for r, t := range relationTags {
		if t == tag {
			return Relation(r), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRelation, tag)
}

// String returns the wire tag of r.
func (r Relation) String() string {
	if !r.valid() {
		return fmt.Sprintf("relation(%d)", int(r))
	}
	return relationTags[r]
}

func (r Relation) valid() bool { return r >= RelationIn && r <= RelationUserDefined }

// Mark is the user's mark on a whole trace.
type Mark string

const (
	MarkUnmarked Mark = "U"
	MarkMarked   Mark = "M"
)

// Point is a position in scene coordinates. Y grows downward.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p*f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

// Controls holds the two inner points of the cubic Bézier curve drawn for an
// edge. The outer points are the endpoint node positions.
type Controls struct {
	CP1, CP2 Point
}

// Node is one event of a trace.
//
// Collapse and CollapseBelow are independent: a folded node has
// CollapseBelow set but stays visible itself, while its hidden descendants
// have Collapse set. Hide is a separate user toggle that only affects
// rendering.
type Node struct {
	ID    string // Unique identifier, stable across save and load
	Kind  Kind
	Label string
	Pos   Point

	Hide          bool // User-hidden (drawn faded), orthogonal to folding
	Collapse      bool // Hidden because an ancestor's subtree is folded
	CollapseBelow bool // This node's subtree is folded (root/composite only)
}

// Visible reports whether the node is a visible member of the folded graph.
// Hidden nodes are still visible in this sense; they are only drawn faded.
func (n *Node) Visible() bool { return !n.Collapse }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// EdgeID identifies an edge within one graph. IDs are assigned by
// [Graph.AddEdge] in increasing order and never reused.
type EdgeID int

// Edge is a directed relation between two nodes of the same graph.
type Edge struct {
	ID       EdgeID
	Source   string
	Dest     string
	Relation Relation
	Label    string    // Relation name for user-defined edges
	Control  *Controls // Curve control points; nil until placed
}

// IsSelfLoop reports whether both endpoints are the same node.
func (e *Edge) IsSelfLoop() bool { return e.Source == e.Dest }

// Pair is an ordered (source, dest) pair of node IDs.
type Pair struct {
	Source string
	Dest   string
}

// Pair returns the (Source, Dest) pair of e.
func (e *Edge) Pair() Pair { return Pair{Source: e.Source, Dest: e.Dest} }

// Unordered returns the pair with the smaller ID first. Edges in either
// direction between the same two nodes share one unordered pair.
func (p Pair) Unordered() Pair {
	if p.Dest < p.Source {
		return Pair{Source: p.Dest, Dest: p.Source}
	}
	return p
}
