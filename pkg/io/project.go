package io

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/trace"
	"github.com/matzehuels/tracefold/pkg/trace/bridge"
	"github.com/matzehuels/tracefold/pkg/trace/placement"
)

// Project is a loaded trace set plus the settings a project file carries.
// The zero value is an empty project.
type Project struct {
	Source        string  // Model source the traces were generated from
	Scope         int     // Generator scope
	SelectedIndex int     // Index of the trace selected when saved
	Scale         float64 // View zoom
	XSlider       int     // Horizontal view spacing slider
	YSlider       int     // Vertical view spacing slider

	Graphs   []*trace.Graph
	Warnings []string // Non-fatal problems found while loading

	placers map[*trace.Graph]*placement.Placer
}

// NewProject returns a project with the view defaults used when a file
// leaves them out.
func NewProject() *Project {
	return &Project{Scope: 1, Scale: 1}
}

// Graph returns the trace with the given 1-based index, or nil.
func (p *Project) Graph(index int) *trace.Graph {
	for _, g := range p.Graphs {
		if g.Index == index {
			return g
		}
	}
	return nil
}

// Placer returns the control-point placer of g, creating it on first use.
// Each graph keeps its own placer for as long as the project is open; it is
// reset whenever the graph's bridges are regenerated on import.
func (p *Project) Placer(g *trace.Graph) *placement.Placer {
	if p.placers == nil {
		p.placers = make(map[*trace.Graph]*placement.Placer)
	}
	pl, ok := p.placers[g]
	if !ok {
		pl = placement.New()
		p.placers[g] = pl
	}
	return pl
}

// PlaceAll assigns control points to every edge of every graph that has
// none yet.
func (p *Project) PlaceAll() {
	for _, g := range p.Graphs {
		pl := p.Placer(g)
		for _, e := range g.Edges() {
			pl.Place(g, e)
		}
	}
}

// Options controls loading.
type Options struct {
	// Geometry converts generated grid coordinates to scene positions.
	// The zero value means the default theme's geometry.
	Geometry config.Geometry

	// Regenerate discards COLLAPSED_FOLLOWS edges read from a project file
	// and rebuilds them from the fold flags.
	Regenerate bool

	// Logger receives debug and warning output. Nil means log.Default().
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

func (o Options) geometry() config.Geometry {
	if o.Geometry == (config.Geometry{}) {
		return config.Default().Geometry
	}
	return o.Geometry
}

// check validates g and records a hierarchy cycle as a warning.
func (p *Project) check(g *trace.Graph, logger *log.Logger) error {
	err := g.Validate()
	if err == nil {
		return nil
	}
	var ce *trace.CycleError
	if errors.As(err, &ce) {
		msg := ce.Error()
		logger.Warn("trace hierarchy is cyclic", "trace", g.Index, "cycles", len(ce.Cycles))
		p.Warnings = append(p.Warnings, msg)
		return nil
	}
	return err
}

// regenerate drops saved bridges and rebuilds them with a reset placer.
func (p *Project) regenerate(g *trace.Graph) error {
	for _, e := range g.EdgesWithRelation(trace.RelationCollapsedFollows) {
		g.RemoveEdge(e.ID)
	}
	pl := p.Placer(g)
	pl.Reset()
	_, err := bridge.Refresh(g, pl)
	return err
}
