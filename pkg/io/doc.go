// Package io reads and writes trace files.
//
// # Overview
//
// Two formats are supported:
//
//   - generated trace JSON, produced by the behavior-model compiler and read
//     with [ReadGenerated] or [ImportGenerated]
//   - project files (.gry), which add fold state, user-hidden nodes, and edge
//     geometry, read with [ReadProject] or [ImportProject] and written with
//     [WriteProject] or [ExportProject]
//
// Both load into a [Project]: the trace graphs plus the project-level
// metadata a .gry file carries.
//
// # Generated Trace JSON
//
// The compiler emits one array per trace:
//
//	{"traces": [
//	  ["U", 0.5,
//	   [["Send_Request", "R", 1, 0, 0], ["Receive", "A", 2, 1, 1]],
//	   [[2, 1]],
//	   [],
//	   ["talks_to", [1, 2]]]
//	]}
//
// The elements are, in order: the trace mark, its probability, the node list
// ([label, kind, id, x, y]), the IN pairs as [member, container], the
// FOLLOWS pairs as [later, earlier], and any number of user-defined relations
// as [name, [source, dest]...]. Underscores in labels become spaces. Grid
// coordinates are scaled by the configured spacing; SAY nodes are pushed
// further down the longer their labels get.
//
// Node IDs may be numbers or strings and are always stored as strings. View
// objects among the relations and a top-level GLOBAL entry are ignored.
//
// # Project Files
//
// A project file is a JSON object holding the model source, the scope and
// view settings, and a "graphs" array with every node flag and every edge,
// including COLLAPSED_FOLLOWS bridges and their control points. Bridges are
// derived data: load with [Options.Regenerate] to drop the saved ones and
// rebuild them from the fold flags.
//
// [WriteProject] places every edge that has no control points yet, so a
// saved file always carries complete geometry.
//
// # Errors
//
// Failures are *errors.Error values from [github.com/matzehuels/tracefold/pkg/errors].
// Any failure to make sense of generated JSON carries the code NO_TRACES and
// the user message "No traces were generated.", except for an unknown node
// kind (INVALID_KIND) and a node or edge the graph rejects (INVALID_GRAPH). A cyclic IN hierarchy is not an error: it is
// logged and recorded in [Project.Warnings].
package io
