// Package render provides output format conversion for rendered traces.
//
// # Overview
//
// The [nodelink] subpackage draws the visible part of a folded trace as a
// Graphviz diagram and renders it to SVG in-process. This package converts
// that SVG to the other supported formats:
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//	opts := render.Options{Background: settings.Background, Scale: 2}
//	pdf, err := render.ToPDF(ctx, svg, opts)
//	png, err := render.ToPNG(ctx, svg, opts)
//
// [ToPDF] and [ToPNG] run the external rsvg-convert tool (from librsvg) and
// fill the page with the theme background. A missing tool is reported as an
// INTERNAL_ERROR naming the package to install.
//
// [nodelink]: github.com/matzehuels/tracefold/pkg/render/nodelink
package render
