// Package placement assigns cubic Bézier control points to trace edges.
//
// Edges between the same two nodes, in either direction, would otherwise be
// drawn on top of each other. A [Placer] remembers how many edges it has
// placed for each unordered node pair and bows every further edge a little
// more to the side. A self loop becomes a teardrop above its node that grows
// with each further loop.
//
// Placement is deterministic: the same edges placed in the same order on
// the same node positions yield the same points.
package placement

import (
	"math"

	"github.com/matzehuels/tracefold/pkg/trace"
)

const (
	// Scale is the spacing, in scene units, between parallel edges.
	Scale = 20.0

	// loopHeight is the control point distance of the first self loop.
	loopHeight = 200.0
)

// Placer computes control points for edges of one graph. Counts follow the
// live edges: call [Placer.Release] when a placed edge is removed, and
// [Placer.Reset] when the graph's edges are rebuilt from scratch.
//
// The zero value is not usable - use New.
type Placer struct {
	counts map[trace.Pair]int
}

// New returns a Placer with no edges placed.
func New() *Placer {
	return &Placer{counts: make(map[trace.Pair]int)}
}

// Reset forgets every placed edge.
func (p *Placer) Reset() {
	clear(p.counts)
}

// Release forgets one placed edge between the endpoints of e, so the next
// edge placed for the pair takes its slot. Releasing a pair with no placed
// edges does nothing.
func (p *Placer) Release(e *trace.Edge) {
	key := e.Pair().Unordered()
	switch n := p.counts[key]; {
	case n > 1:
		p.counts[key] = n - 1
	case n == 1:
		delete(p.counts, key)
	}
}

// Count returns how many edges have been placed between a and b, in either
// direction.
func (p *Placer) Count(a, b string) int {
	return p.counts[trace.Pair{Source: a, Dest: b}.Unordered()]
}

// Place sets e.Control from the positions of its endpoints in g. An edge
// that already has control points is left alone and not counted, so edges
// read from a project file keep their saved geometry.
//
// The edge need not be in g yet; only its endpoints must be.
func (p *Placer) Place(g *trace.Graph, e *trace.Edge) {
	if e.Control != nil {
		return
	}
	key := e.Pair().Unordered()
	count := p.counts[key]
	p.counts[key]++

	src := g.MustNode(e.Source).Pos
	if e.IsSelfLoop() {
		h := loopHeight + 2*Scale*float64(count)
		e.Control = &trace.Controls{
			CP1: src.Add(polar(h, 150)),
			CP2: src.Add(polar(h, 30)),
		}
		return
	}

	dst := g.MustNode(e.Dest).Pos
	c := trace.Controls{
		CP1: src.Scale(2).Add(dst).Scale(1.0 / 3),
		CP2: src.Add(dst.Scale(2)).Scale(1.0 / 3),
	}
	if count > 0 {
		off := polar(Scale*float64(count), angle(src, dst)+90)
		if src.X < dst.X || (src.X == dst.X && src.Y > dst.Y) {
			c.CP1, c.CP2 = c.CP1.Add(off), c.CP2.Add(off)
		} else {
			c.CP1, c.CP2 = c.CP1.Sub(off), c.CP2.Sub(off)
		}
	}
	e.Control = &c
}

// angle returns the direction from a to b in degrees, counter-clockwise
// from 3 o'clock as seen on screen (Y grows downward).
func angle(a, b trace.Point) float64 {
	return math.Atan2(a.Y-b.Y, b.X-a.X) * 180 / math.Pi
}

// polar returns the vector of length r at angle deg, measured as in angle.
func polar(r, deg float64) trace.Point {
	rad := deg * math.Pi / 180
	return trace.Point{X: r * math.Cos(rad), Y: -r * math.Sin(rad)}
}
