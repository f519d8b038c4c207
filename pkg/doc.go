// Package pkg provides the core libraries for tracefold, an explorer for
// execution traces produced by a behavior-model compiler.
//
// # Overview
//
// A trace mixes a containment hierarchy (IN edges) with a temporal ordering
// (FOLLOWS edges). tracefold lets a user fold parts of the hierarchy away and
// keeps the ordering readable by bridging FOLLOWS edges across the folded
// region. The pkg directory is organized into four areas:
//
//  1. [trace] - Graph model, folding, and bridge reconciliation
//  2. [io] - Loading compiler output and saving projects
//  3. [session] - Editing a loaded project
//  4. [render] - Drawing the folded view
//
// # Architecture
//
// The typical data flow through tracefold:
//
//	compiler JSON or .gry project
//	         ↓
//	    [io] package (parse, build graphs, place bridges)
//	         ↓
//	    [session] package (fold, expand, hide)
//	         ↓
//	    [trace/bridge] package (reconcile COLLAPSED_FOLLOWS edges)
//	         ↓
//	    [render/nodelink] package (DOT → SVG/PDF/PNG)
//
// # Quick Start
//
// Load a trace file, fold one event, and render the result:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/tracefold/pkg/config"
//	    "github.com/matzehuels/tracefold/pkg/render/nodelink"
//	    "github.com/matzehuels/tracefold/pkg/session"
//	)
//
//	ctx := context.Background()
//	s := config.Default()
//
//	// 1. Open the file
//	sess, _ := session.Open(ctx, "model.json", session.Options{Geometry: s.Geometry})
//
//	// 2. Fold an event; bridges are reconciled automatically
//	sess.Fold(ctx, "4")
//
//	// 3. Render the visible part
//	dot := nodelink.ToDOT(sess.Current(), nodelink.Options{Settings: s})
//	svg, _ := nodelink.RenderSVG(ctx, dot, nodelink.EngineDot)
//
//	// 4. Save the project
//	sess.Save(ctx, "model.gry")
//
// # Main Packages
//
// ## Trace Model
//
// [trace] - Directed multigraph of events with an adjacency index. Nodes carry
// the Collapse, CollapseBelow, and Hide flags; edges carry a relation and
// optional curve control points.
//
// [trace/fold] - Collapse and expand subtrees of the IN hierarchy. A shared
// child is only hidden once every root or composite parent is folded.
//
// [trace/bridge] - Compute the COLLAPSED_FOLLOWS edges a folded graph needs
// and the minimal diff against the ones it has.
//
// [trace/placement] - Deterministic control points for new edges, offset so
// parallel edges between the same pair do not overlap.
//
// ## Input and Output
//
// [io] - Readers for compiler output and .gry projects, and the project
// writer. Malformed traces are skipped with a warning.
//
// [session] - A loaded project with a selected trace. Every fold operation
// is followed by a bridge pass.
//
// ## Visualization
//
// [render/nodelink] - Graphviz diagrams of the visible graph.
//
// [render] - Top-level utilities for format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [config] - Visual settings and built-in themes, stored as TOML.
//
// [cache] - Content-addressed render cache on disk, disabled by --no-cache.
//
// [observability] - Hooks for load, fold, reconcile, render, and cache events.
//
// [errors] - Coded errors with user-facing messages.
//
// [trace]: github.com/matzehuels/tracefold/pkg/trace
// [trace/fold]: github.com/matzehuels/tracefold/pkg/trace/fold
// [trace/bridge]: github.com/matzehuels/tracefold/pkg/trace/bridge
// [trace/placement]: github.com/matzehuels/tracefold/pkg/trace/placement
// [io]: github.com/matzehuels/tracefold/pkg/io
// [session]: github.com/matzehuels/tracefold/pkg/session
// [render]: github.com/matzehuels/tracefold/pkg/render
// [render/nodelink]: github.com/matzehuels/tracefold/pkg/render/nodelink
// [config]: github.com/matzehuels/tracefold/pkg/config
// [cache]: github.com/matzehuels/tracefold/pkg/cache
// [observability]: github.com/matzehuels/tracefold/pkg/observability
// [errors]: github.com/matzehuels/tracefold/pkg/errors
package pkg
