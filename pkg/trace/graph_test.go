package trace

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{ID: "1", Kind: KindRoot}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	tests := []struct {
		name string
		node Node
		want error
	}{
		{"empty ID", Node{}, ErrInvalidNodeID},
		{"duplicate", Node{ID: "1"}, ErrDuplicateNodeID},
		{"bad kind", Node{ID: "2", Kind: Kind(42)}, ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddNode(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("AddNode() = %v, want %v", err, tt.want)
			}
		})
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{Source: "x", Dest: "b"}, ErrUnknownSourceNode},
		{"unknown dest", Edge{Source: "a", Dest: "x"}, ErrUnknownTargetNode},
		{"bad relation", Edge{Source: "a", Dest: "b", Relation: Relation(9)}, ErrUnknownRelation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}

	id1, _ := g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationFollows, ID: 99})
	id2, _ := g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationFollows})
	if id1 != 1 || id2 != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", id1, id2)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestAddEdge_CopiesControls(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	ctl := &Controls{CP1: Point{1, 1}}

	id, _ := g.AddEdge(Edge{Source: "a", Dest: "a", Control: ctl})
	ctl.CP1 = Point{5, 5}

	e, _ := g.Edge(id)
	if e.Control.CP1 != (Point{1, 1}) {
		t.Errorf("CP1 = %v, want {1 1}", e.Control.CP1)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	keep, _ := g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationIn})
	drop, _ := g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationCollapsedFollows})
	loop, _ := g.AddEdge(Edge{Source: "a", Dest: "a", Relation: RelationUserDefined})

	if !g.RemoveEdge(drop) {
		t.Fatal("RemoveEdge() = false, want true")
	}
	if g.RemoveEdge(drop) {
		t.Error("second RemoveEdge() = true, want false")
	}

	ids := func(es []*Edge) []EdgeID {
		var out []EdgeID
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}
	if got, want := ids(g.EdgesOf("a")), []EdgeID{keep, loop}; !slices.Equal(got, want) {
		t.Errorf("EdgesOf(a) = %v, want %v", got, want)
	}
	if got, want := ids(g.EdgesOf("b")), []EdgeID{keep}; !slices.Equal(got, want) {
		t.Errorf("EdgesOf(b) = %v, want %v", got, want)
	}
	if _, ok := g.Edge(drop); ok {
		t.Error("Edge() found removed edge")
	}
}

func TestClone(t *testing.T) {
	g := New()
	g.Index, g.Mark, g.Probability = 3, MarkMarked, 0.25
	_ = g.AddNode(Node{ID: "a", Kind: KindComposite})
	_ = g.AddNode(Node{ID: "b"})
	id, _ := g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationIn, Control: &Controls{}})
	g.RemoveEdge(id)
	id, _ = g.AddEdge(Edge{Source: "a", Dest: "b", Relation: RelationIn, Control: &Controls{}})

	c := g.Clone()
	c.MustNode("a").CollapseBelow = true
	ce, _ := c.Edge(id)
	ce.Control.CP1 = Point{7, 7}

	if g.MustNode("a").CollapseBelow {
		t.Error("clone shares nodes with original")
	}
	if e, _ := g.Edge(id); e.Control.CP1 != (Point{}) {
		t.Error("clone shares controls with original")
	}
	if c.Index != 3 || c.Mark != MarkMarked || c.Probability != 0.25 {
		t.Errorf("metadata = %d %s %v", c.Index, c.Mark, c.Probability)
	}
	if next, _ := c.AddEdge(Edge{Source: "b", Dest: "a"}); next != id+1 {
		t.Errorf("next ID = %d, want %d", next, id+1)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindRoot, KindComposite, KindAtomic, KindSchema, KindSay} {
		got, err := ParseKind(k.Tag())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", k.Tag(), got, err, k)
		}
	}
	if _, err := ParseKind("X"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(X) error = %v, want ErrUnknownKind", err)
	}
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		tag  string
		want Relation
	}{
		{"IN", RelationIn},
		{"FOLLOWS", RelationFollows},
		{"COLLAPSED_FOLLOWS", RelationCollapsedFollows},
		{"USER_DEFINED", RelationUserDefined},
	}
	for _, tt := range tests {
		got, err := ParseRelation(tt.tag)
		if err != nil || got != tt.want {
			t.Errorf("ParseRelation(%q) = %v, %v, want %v", tt.tag, got, err, tt.want)
		}
		if got.String() != tt.tag {
			t.Errorf("String() = %q, want %q", got.String(), tt.tag)
		}
	}
	if _, err := ParseRelation("follows"); !errors.Is(err, ErrUnknownRelation) {
		t.Errorf("ParseRelation(follows) error = %v, want ErrUnknownRelation", err)
	}
}

func TestPairUnordered(t *testing.T) {
	p := Pair{Source: "b", Dest: "a"}
	if got := p.Unordered(); got != (Pair{Source: "a", Dest: "b"}) {
		t.Errorf("Unordered() = %v", got)
	}
	if p.Unordered() != (Pair{Source: "a", Dest: "b"}).Unordered() {
		t.Error("Unordered() differs by direction")
	}
}
