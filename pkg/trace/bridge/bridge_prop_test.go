package bridge

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/tracefold/pkg/trace"
	"github.com/matzehuels/tracefold/pkg/trace/fold"
	"github.com/matzehuels/tracefold/pkg/trace/placement"
)

var kinds = []trace.Kind{trace.KindRoot, trace.KindComposite, trace.KindAtomic}

// genTrace draws a random trace with an acyclic IN hierarchy and arbitrary
// FOLLOWS edges, then applies a random sequence of folds.
func genTrace(t *rapid.T) *trace.Graph {
	g := trace.New()
	n := rapid.IntRange(2, 9).Draw(t, "n")
	for i := range n {
		k := rapid.SampledFrom(kinds).Draw(t, fmt.Sprintf("kind%d", i))
		_ = g.AddNode(trace.Node{ID: fmt.Sprint(i), Kind: k})
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("in%d_%d", i, j)) == 0 {
				_, _ = g.AddEdge(trace.Edge{Source: fmt.Sprint(i), Dest: fmt.Sprint(j), Relation: trace.RelationIn})
			}
		}
	}
	follows := rapid.IntRange(0, 2*n).Draw(t, "follows")
	for i := range follows {
		a := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("fa%d", i))
		b := rapid.IntRange(0, n-1).Draw(t, fmt.Sprintf("fb%d", i))
		_, _ = g.AddEdge(trace.Edge{Source: fmt.Sprint(a), Dest: fmt.Sprint(b), Relation: trace.RelationFollows})
	}

	nodes := g.Nodes()
	steps := rapid.IntRange(0, 6).Draw(t, "steps")
	for i := range steps {
		id := rapid.SampledFrom(nodes).Draw(t, fmt.Sprintf("node%d", i)).ID
		if rapid.Bool().Draw(t, fmt.Sprintf("collapse%d", i)) {
			fold.CollapseBelow(g, id)
		} else {
			fold.UncollapseBelow(g, id)
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("refresh%d", i)) {
			_, _ = Refresh(g, nil)
		}
	}
	return g
}

func TestProperty_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genTrace(t)
		if _, err := Refresh(g, placement.New()); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		if diff := Reconcile(g); !diff.Empty() {
			t.Fatalf("second Reconcile() = %+v, want empty", diff)
		}
	})
}

func TestProperty_NoSelfBridges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genTrace(t)
		for _, p := range Reconcile(g).Add {
			if p.Source == p.Dest {
				t.Fatalf("self bridge %v", p)
			}
		}
	})
}

func TestProperty_BridgesJoinVisibleNodes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genTrace(t)
		_, _ = Refresh(g, nil)
		for _, e := range g.EdgesWithRelation(trace.RelationCollapsedFollows) {
			if !g.MustNode(e.Source).Visible() || !g.MustNode(e.Dest).Visible() {
				t.Fatalf("bridge %s->%s touches a collapsed node", e.Source, e.Dest)
			}
		}
	})
}

func TestProperty_FullExpandClearsBridges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := genTrace(t)
		_, _ = Refresh(g, nil)
		for _, r := range g.Roots() {
			fold.UncollapseBelow(g, r.ID)
		}
		_, _ = Refresh(g, nil)

		for _, n := range g.Nodes() {
			if n.Collapse {
				t.Fatalf("%s still collapsed", n.ID)
			}
		}
		if got := len(g.EdgesWithRelation(trace.RelationCollapsedFollows)); got != 0 {
			t.Fatalf("%d bridges left after full expand", got)
		}
	})
}
