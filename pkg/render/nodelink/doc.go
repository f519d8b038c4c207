// Package nodelink renders folded traces as node-link diagrams.
//
// # Overview
//
// The diagram shows the trace as the user currently sees it. Nodes hidden by
// a folded ancestor are left out together with every edge that touches them;
// the COLLAPSED_FOLLOWS bridges that stand in for those edges are drawn
// dashed instead. Folded nodes get a double border and user-hidden nodes are
// drawn with the theme's hide opacity.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Settings: settings})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//
// # Engines
//
// [EngineDot] lets Graphviz lay the hierarchy out top to bottom. With
// [EngineNeato] and Options.Positions set, nodes are pinned at the scene
// positions computed when the trace was loaded, so the picture matches the
// generator's grid.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
