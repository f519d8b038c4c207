package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/trace"
	"github.com/matzehuels/tracefold/pkg/trace/bridge"
	"github.com/matzehuels/tracefold/pkg/trace/fold"
	"github.com/matzehuels/tracefold/pkg/trace/placement"
)

func TestInspect_Summary(t *testing.T) {
	path := writeSample(t, isolate(t))

	out, err := execute(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Trace", "Probability", "0.75", "0.25", "2 traces"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_Trace(t *testing.T) {
	path := writeSample(t, isolate(t))

	out, err := execute(t, "inspect", path, "--trace", "1", "--edges")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Trace 1", "unmarked", "Mission", "Launch", "Circularize", "Ordering", "Ignite → Circularize"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_TraceOutOfRange(t *testing.T) {
	path := writeSample(t, isolate(t))

	_, err := execute(t, "inspect", path, "--trace", "7")
	if !errors.Is(err, errors.ErrCodeTraceNotFound) {
		t.Errorf("err = %v, want TRACE_NOT_FOUND", err)
	}
}

func TestInspect_MissingFile(t *testing.T) {
	isolate(t)
	_, err := execute(t, "inspect", "does-not-exist.json")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func foldedGraph(t *testing.T) *trace.Graph {
	t.Helper()
	g := trace.New()
	g.Index = 4
	for _, n := range []trace.Node{
		{ID: "r", Kind: trace.KindRoot, Label: "Root"},
		{ID: "c", Kind: trace.KindComposite, Label: "Group"},
		{ID: "a", Kind: trace.KindAtomic, Label: "Step A"},
		{ID: "b", Kind: trace.KindAtomic, Label: "Step B", Hide: true},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []trace.Edge{
		{Source: "r", Dest: "c", Relation: trace.RelationIn},
		{Source: "c", Dest: "a", Relation: trace.RelationIn},
		{Source: "r", Dest: "b", Relation: trace.RelationIn},
		{Source: "a", Dest: "b", Relation: trace.RelationFollows},
	} {
		if _, err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	fold.CollapseBelow(g, "c")
	if _, err := bridge.Refresh(g, placement.New()); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestHierarchyTree(t *testing.T) {
	g := foldedGraph(t)

	full := hierarchyTree(g, false).String()
	for _, want := range []string{"trace 4", "▸ Group", "Step A", "Step B", "◌"} {
		if !strings.Contains(full, want) {
			t.Errorf("tree missing %q:\n%s", want, full)
		}
	}

	visible := hierarchyTree(g, true).String()
	if strings.Contains(visible, "Step A") {
		t.Errorf("visible tree should omit collapsed events:\n%s", visible)
	}
	if !strings.Contains(visible, "Step B") {
		t.Errorf("visible tree should keep hidden but uncollapsed events:\n%s", visible)
	}
}

func TestHierarchyTree_SharedChild(t *testing.T) {
	g := trace.New()
	for _, id := range []string{"r", "p", "q", "s", "x"} {
		k := trace.KindComposite
		if id == "x" {
			k = trace.KindAtomic
		}
		g.AddNode(trace.Node{ID: id, Kind: k})
	}
	for _, e := range [][2]string{{"r", "p"}, {"r", "q"}, {"p", "s"}, {"q", "s"}, {"s", "x"}} {
		g.AddEdge(trace.Edge{Source: e[0], Dest: e[1], Relation: trace.RelationIn})
	}

	out := hierarchyTree(g, false).String()
	if n := strings.Count(out, "(composite s)"); n != 2 {
		t.Errorf("shared child should appear under both parents, got %d:\n%s", n, out)
	}
	if n := strings.Count(out, "(atomic x)"); n != 1 {
		t.Errorf("shared subtree should be expanded once, got %d:\n%s", n, out)
	}
}

func TestPrintOrdering(t *testing.T) {
	var b strings.Builder
	printOrdering(&b, foldedGraph(t))
	if !strings.Contains(b.String(), "Group ⇢ Step B") {
		t.Errorf("ordering should list the bridge:\n%s", b.String())
	}
	if strings.Contains(b.String(), "Step A") {
		t.Errorf("ordering should not list collapsed events:\n%s", b.String())
	}
}

func TestSettingsThemeOverride(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	s, err := c.settings("navy")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := config.Theme("Navy")
	if s != want {
		t.Errorf("settings(navy) = %+v, want %+v", s, want)
	}
}

func TestInspect_BrokenProjectNamesLine(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "broken.gry")
	if err := os.WriteFile(path, []byte("{\n  \"graphs\": [}"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "inspect", path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("err = %v, want INVALID_FORMAT", err)
	}
	if msg := ErrorMessage(err); !strings.Contains(msg, path+":2:") {
		t.Errorf("ErrorMessage() = %q, want it to name %s:2", msg, path)
	}
}
