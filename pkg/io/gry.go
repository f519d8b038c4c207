package io

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/trace"
)

// Fields are declared in key order so the output is sorted like the files
// the desktop tool writes.
type projectFile struct {
	Graphs        []graphFile `json:"graphs"`
	MPCode        string      `json:"mp_code"`
	Scale         float64     `json:"scale"`
	Scope         int         `json:"scope"`
	SelectedIndex int         `json:"selected_index"`
	XSlider       int         `json:"x_slider"`
	YSlider       int         `json:"y_slider"`
}

type graphFile struct {
	Edges       []edgeFile `json:"edges"`
	Index       int        `json:"index"`
	Mark        string     `json:"mark"`
	Nodes       []nodeFile `json:"nodes"`
	Probability float64    `json:"probability"`
}

type nodeFile struct {
	Collapse      bool    `json:"collapse"`
	CollapseBelow bool    `json:"collapse_below"`
	Hide          bool    `json:"hide"`
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Type          string  `json:"type"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

type edgeFile struct {
	CBP1X    float64 `json:"cbp1_x"`
	CBP1Y    float64 `json:"cbp1_y"`
	CBP2X    float64 `json:"cbp2_x"`
	CBP2Y    float64 `json:"cbp2_y"`
	Label    string  `json:"label"`
	Relation string  `json:"relation"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
}

// ReadProject decodes a project file from r.
//
// Every kind and relation tag is checked. Saved control points are kept, so
// edges are drawn where they were saved. With opts.Regenerate set, saved
// bridge edges are replaced by freshly computed ones.
//
// ReadProject does not close r.
func ReadProject(r io.Reader, opts Options) (*Project, error) {
	logger := opts.logger()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cannot read project file")
	}
	var file projectFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, locate(data, err), "cannot read project file")
	}

	p := &Project{
		Source:        file.MPCode,
		Scope:         file.Scope,
		SelectedIndex: file.SelectedIndex,
		Scale:         file.Scale,
		XSlider:       file.XSlider,
		YSlider:       file.YSlider,
	}
	for _, gf := range file.Graphs {
		g, err := readGraph(gf)
		if err != nil {
			return nil, err
		}
		if err := p.check(g, logger); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d", g.Index)
		}
		if opts.Regenerate {
			if err := p.regenerate(g); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d", g.Index)
			}
		}
		p.Graphs = append(p.Graphs, g)
	}
	logger.Debug("read project", "traces", len(p.Graphs), "regenerate", opts.Regenerate)
	return p, nil
}

func readGraph(gf graphFile) (*trace.Graph, error) {
	g := trace.New()
	g.Index = gf.Index
	g.Mark = trace.Mark(gf.Mark)
	g.Probability = gf.Probability

	for _, nf := range gf.Nodes {
		kind, err := trace.ParseKind(nf.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidKind, err, "trace %d: node %s has unknown kind %q", gf.Index, nf.ID, nf.Type)
		}
		n := trace.Node{
			ID:            nf.ID,
			Kind:          kind,
			Label:         nf.Label,
			Pos:           trace.Point{X: nf.X, Y: nf.Y},
			Hide:          nf.Hide,
			Collapse:      nf.Collapse,
			CollapseBelow: nf.CollapseBelow,
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d: node %s", gf.Index, nf.ID)
		}
	}
	for _, ef := range gf.Edges {
		rel, err := trace.ParseRelation(ef.Relation)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRelation, err, "trace %d: edge %s->%s has unknown relation %q", gf.Index, ef.Source, ef.Target, ef.Relation)
		}
		e := trace.Edge{
			Source:   ef.Source,
			Dest:     ef.Target,
			Relation: rel,
			Label:    ef.Label,
			Control: &trace.Controls{
				CP1: trace.Point{X: ef.CBP1X, Y: ef.CBP1Y},
				CP2: trace.Point{X: ef.CBP2X, Y: ef.CBP2Y},
			},
		}
		if _, err := g.AddEdge(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d: edge %s->%s", gf.Index, ef.Source, ef.Target)
		}
	}
	return g, nil
}

// ImportProject reads a project file at path.
func ImportProject(path string, opts Options) (*Project, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadProject(f, opts)
	if err != nil {
		if withPath(err, path) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// WriteProject encodes p as a project file and writes it to w. Edges without
// control points are placed first, which modifies the graphs in p.
func WriteProject(w io.Writer, p *Project) error {
	p.PlaceAll()

	out := projectFile{
		Graphs:        make([]graphFile, 0, len(p.Graphs)),
		MPCode:        p.Source,
		Scale:         p.Scale,
		Scope:         p.Scope,
		SelectedIndex: p.SelectedIndex,
		XSlider:       p.XSlider,
		YSlider:       p.YSlider,
	}
	for _, g := range p.Graphs {
		out.Graphs = append(out.Graphs, writeGraph(g))
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func writeGraph(g *trace.Graph) graphFile {
	gf := graphFile{
		Edges:       make([]edgeFile, 0, g.EdgeCount()),
		Index:       g.Index,
		Mark:        string(g.Mark),
		Nodes:       make([]nodeFile, 0, g.NodeCount()),
		Probability: g.Probability,
	}
	for _, n := range g.Nodes() {
		gf.Nodes = append(gf.Nodes, nodeFile{
			Collapse:      n.Collapse,
			CollapseBelow: n.CollapseBelow,
			Hide:          n.Hide,
			ID:            n.ID,
			Label:         n.Label,
			Type:          n.Kind.Tag(),
			X:             n.Pos.X,
			Y:             n.Pos.Y,
		})
	}
	for _, e := range g.Edges() {
		ef := edgeFile{
			Label:    e.Label,
			Relation: e.Relation.String(),
			Source:   e.Source,
			Target:   e.Dest,
		}
		if e.Control != nil {
			ef.CBP1X, ef.CBP1Y = e.Control.CP1.X, e.Control.CP1.Y
			ef.CBP2X, ef.CBP2Y = e.Control.CP2.X, e.Control.CP2.Y
		}
		gf.Edges = append(gf.Edges, ef)
	}
	return gf
}

// ExportProject writes p to a project file at path.
func ExportProject(p *Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteProject(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
