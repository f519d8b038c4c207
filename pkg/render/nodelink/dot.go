package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/observability"
	"github.com/matzehuels/tracefold/pkg/render"
	"github.com/matzehuels/tracefold/pkg/trace"
)

// Layout engines accepted by [RenderSVG].
const (
	EngineDot   = "dot"
	EngineNeato = "neato"
)

// pointsPerPixel converts scene pixels to Graphviz points.
const pointsPerPixel = 0.75

// Options configures node-link diagram rendering.
type Options struct {
	// Settings supplies colours, line styles, and node size.
	Settings config.Settings

	// Positions pins every node at its scene position. Only the neato
	// engine honours pinned positions.
	Positions bool

	// ShowIDs appends the node ID to each label.
	ShowIDs bool
}

// ToDOT converts the visible part of a trace to Graphviz DOT format.
// Nodes and edges are written in graph order, so equal graphs give equal
// output and the result can be used as a cache key.
func ToDOT(g *trace.Graph, opts Options) string {
	s := opts.Settings
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", fmt.Sprintf("trace %d", g.Index))
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontsize=12, width=%s, height=%s, fixedsize=%t];\n",
		inches(s.NodeWidth), inches(s.NodeHeight), opts.Positions)
	fmt.Fprintf(&buf, "  edge [arrowsize=%s];\n", strconv.FormatFloat(float64(s.ArrowSize)/10, 'f', -1, 64))
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if !n.Visible() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !g.MustNode(e.Source).Visible() || !g.MustNode(e.Dest).Visible() {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Dest, strings.Join(edgeAttrs(e, s), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *trace.Node, opts Options) []string {
	s := opts.Settings
	label := n.DisplayLabel()
	if opts.ShowIDs && label != n.ID {
		label += "\n" + n.ID
	}

	fill := nodeColor(n.Kind, s.Nodes)
	font := contrast(fill)
	if n.Hide {
		fill += s.Alpha()
		font += s.Alpha()
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontcolor=%q", font),
	}
	if n.Kind == trace.KindSay {
		attrs = append(attrs, "shape=note")
	}
	if s.NodeBorder {
		attrs = append(attrs, `color="#000000"`)
	} else {
		attrs = append(attrs, fmt.Sprintf("color=%q", fill))
	}
	if n.CollapseBelow {
		attrs = append(attrs, "peripheries=2", `color="#000000"`)
	}
	if opts.Positions {
		attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", points(n.Pos.X), points(-n.Pos.Y)))
	}
	return attrs
}

func edgeAttrs(e *trace.Edge, s config.Settings) []string {
	var st config.EdgeStyle
	switch e.Relation {
	case trace.RelationIn:
		st = s.Edges.In
	case trace.RelationFollows:
		st = s.Edges.Follows
	case trace.RelationCollapsedFollows:
		st = config.EdgeStyle{Color: s.Edges.Follows.Color, Style: config.StyleDashed}
	case trace.RelationUserDefined:
		st = s.Edges.UserDefined
	}
	attrs := []string{
		fmt.Sprintf("color=%q", st.Color),
		fmt.Sprintf("style=%s", lineStyle(st.Style)),
	}
	if e.Relation == trace.RelationIn {
		// Containment should not pull the ordering apart.
		attrs = append(attrs, "arrowhead=none", "weight=2")
	}
	if e.Relation == trace.RelationUserDefined && e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label), fmt.Sprintf("fontcolor=%q", st.Color))
	}
	return attrs
}

func nodeColor(k trace.Kind, c config.NodeColors) string {
	switch k {
	case trace.KindRoot:
		return c.Root
	case trace.KindComposite:
		return c.Composite
	case trace.KindSchema:
		return c.Schema
	case trace.KindSay:
		return c.Say
	default:
		return c.Atomic
	}
}

// contrast returns black or white, whichever reads better on a #rrggbb fill.
func contrast(fill string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(fill, "#"), 16, 32)
	if err != nil {
		return "#000000"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if 0.299*r+0.587*g+0.114*b < 140 {
		return "#ffffff"
	}
	return "#000000"
}

func lineStyle(s string) string {
	switch s {
	case config.StyleDashed:
		return "dashed"
	case config.StyleDotted:
		return "dotted"
	default:
		return "solid"
	}
}

func inches(px float64) string {
	return strconv.FormatFloat(px*pointsPerPixel/72, 'f', 3, 64)
}

func points(px float64) string {
	return strconv.FormatFloat(px*pointsPerPixel, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz with the given layout
// engine. Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot, engine string) (svg []byte, err error) {
	start := time.Now()
	observability.Render().OnRenderStart(ctx, "svg", strings.Count(dot, "];\n"))
	defer func() {
		observability.Render().OnRenderComplete(ctx, "svg", time.Since(start), err)
	}()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	switch engine {
	case "", EngineDot:
		gv.SetLayout(graphviz.DOT)
	case EngineNeato:
		gv.SetLayout(graphviz.NEATO)
	default:
		return nil, fmt.Errorf("unknown layout engine %q", engine)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot, engine string, opts render.Options) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg, opts)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion, zoomed by
// opts.Scale.
func RenderPNG(ctx context.Context, dot, engine string, opts render.Options) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, opts)
}
