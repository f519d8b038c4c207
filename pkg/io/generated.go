package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/trace"
)

const noTraces = "No traces were generated."

// Positions of the fixed elements of a generated trace array.
const (
	fieldMark = iota
	fieldProbability
	fieldNodes
	fieldIn
	fieldFollows
	fieldUserDefined
)

// sayLineHeight is how far a SAY node is pushed down per sayLineChars
// characters of label, cumulatively within a trace.
const (
	sayLineHeight = 22
	sayLineChars  = 20
)

type generatedFile struct {
	Traces []json.RawMessage `json:"traces"`
	Global json.RawMessage   `json:"GLOBAL"`
}

// ReadGenerated decodes compiler output from r into a new project. Trace
// indexes start at 1 in file order.
//
// ReadGenerated does not close r.
func ReadGenerated(r io.Reader, opts Options) (*Project, error) {
	logger := opts.logger()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNoTraces, err, noTraces)
	}

	var file generatedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNoTraces, locate(data, err), noTraces)
	}
	if len(file.Global) > 0 && !bytes.Equal(file.Global, []byte("null")) {
		logger.Debug("ignoring GLOBAL view", "value", string(file.Global))
	}
	if len(file.Traces) == 0 {
		return nil, errors.New(errors.ErrCodeNoTraces, noTraces)
	}

	p := NewProject()
	geo := opts.geometry()
	for i, raw := range file.Traces {
		g, err := readTrace(raw, i+1, geo, logger)
		if err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeNoTraces, err, noTraces)
			}
			return nil, err
		}
		if err := p.check(g, logger); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d", g.Index)
		}
		p.Graphs = append(p.Graphs, g)
	}
	logger.Debug("read generated traces", "traces", len(p.Graphs))
	return p, nil
}

// ImportGenerated reads a generated trace file at path.
func ImportGenerated(path string, opts Options) (*Project, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadGenerated(f, opts)
	if err != nil {
		withPath(err, path)
		return nil, err
	}
	return p, nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}

func readTrace(raw json.RawMessage, index int, geo config.Geometry, logger *log.Logger) (*trace.Graph, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("trace %d: %w", index, err)
	}
	if len(fields) < fieldUserDefined {
		return nil, fmt.Errorf("trace %d: %d fields, want at least %d", index, len(fields), fieldUserDefined)
	}

	g := trace.New()
	g.Index = index
	var mark string
	if err := json.Unmarshal(fields[fieldMark], &mark); err != nil {
		return nil, fmt.Errorf("trace %d: mark: %w", index, err)
	}
	g.Mark = trace.Mark(mark)
	if err := json.Unmarshal(fields[fieldProbability], &g.Probability); err != nil {
		return nil, fmt.Errorf("trace %d: probability: %w", index, err)
	}

	var nodes [][]json.RawMessage
	if err := json.Unmarshal(fields[fieldNodes], &nodes); err != nil {
		return nil, fmt.Errorf("trace %d: nodes: %w", index, err)
	}
	sayOffset := 0.0
	for _, n := range nodes {
		node, err := readNode(n)
		if err != nil {
			return nil, fmt.Errorf("trace %d: %w", index, err)
		}
		node.Pos.X = node.Pos.X*geo.HSpacing + geo.NodeWidth/2
		node.Pos.Y = node.Pos.Y*geo.VSpacing + geo.NodeHeight/2
		if node.Kind == trace.KindSay {
			sayOffset += float64(sayLineHeight * (utf8.RuneCountInString(node.Label) / sayLineChars))
			node.Pos.Y += sayOffset
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "trace %d: node %s", index, node.ID)
		}
	}

	// IN pairs are [member, container]; FOLLOWS pairs are [later, earlier].
	if err := readPairs(g, fields[fieldIn], trace.RelationIn); err != nil {
		return nil, fmt.Errorf("trace %d: IN: %w", index, err)
	}
	if err := readPairs(g, fields[fieldFollows], trace.RelationFollows); err != nil {
		return nil, fmt.Errorf("trace %d: FOLLOWS: %w", index, err)
	}

	for _, rel := range fields[fieldUserDefined:] {
		rel = bytes.TrimSpace(rel)
		if len(rel) > 0 && rel[0] == '{' {
			logger.Debug("ignoring view", "trace", index, "value", string(rel))
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rel, &items); err != nil {
			return nil, fmt.Errorf("trace %d: relation: %w", index, err)
		}
		if len(items) == 0 {
			continue
		}
		var name string
		if err := json.Unmarshal(items[0], &name); err != nil {
			return nil, fmt.Errorf("trace %d: relation name: %w", index, err)
		}
		for _, pair := range items[1:] {
			if err := addPair(g, pair, trace.RelationUserDefined, name, false); err != nil {
				return nil, fmt.Errorf("trace %d: %s: %w", index, name, err)
			}
		}
	}
	return g, nil
}

func readNode(fields []json.RawMessage) (trace.Node, error) {
	if len(fields) < 3 {
		return trace.Node{}, fmt.Errorf("node has %d fields, want 5", len(fields))
	}
	var label, tag string
	if err := json.Unmarshal(fields[0], &label); err != nil {
		return trace.Node{}, fmt.Errorf("node label: %w", err)
	}
	if err := json.Unmarshal(fields[1], &tag); err != nil {
		return trace.Node{}, fmt.Errorf("node type: %w", err)
	}
	id, err := scalar(fields[2])
	if err != nil {
		return trace.Node{}, fmt.Errorf("node id: %w", err)
	}
	kind, err := trace.ParseKind(tag)
	if err != nil {
		return trace.Node{}, errors.Wrap(errors.ErrCodeInvalidKind, err, "node %s has unknown kind %q", id, tag)
	}
	n := trace.Node{ID: id, Kind: kind, Label: strings.ReplaceAll(label, "_", " ")}
	// Older compilers leave out the grid position.
	if len(fields) >= 5 {
		if err := json.Unmarshal(fields[3], &n.Pos.X); err != nil {
			return trace.Node{}, fmt.Errorf("node %s x: %w", id, err)
		}
		if err := json.Unmarshal(fields[4], &n.Pos.Y); err != nil {
			return trace.Node{}, fmt.Errorf("node %s y: %w", id, err)
		}
	}
	return n, nil
}

// readPairs adds one edge per [dest, source] pair.
func readPairs(g *trace.Graph, raw json.RawMessage, rel trace.Relation) error {
	var pairs []json.RawMessage
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := addPair(g, pair, rel, "", true); err != nil {
			return err
		}
	}
	return nil
}

// addPair adds the edge for one [a, b] pair: a->b, or b->a if reversed.
func addPair(g *trace.Graph, raw json.RawMessage, rel trace.Relation, label string, reversed bool) error {
	var ends []json.RawMessage
	if err := json.Unmarshal(raw, &ends); err != nil {
		return err
	}
	if len(ends) != 2 {
		return fmt.Errorf("pair has %d elements, want 2", len(ends))
	}
	a, err := scalar(ends[0])
	if err != nil {
		return err
	}
	b, err := scalar(ends[1])
	if err != nil {
		return err
	}
	if reversed {
		a, b = b, a
	}
	if _, err := g.AddEdge(trace.Edge{Source: a, Dest: b, Relation: rel, Label: label}); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGraph, err, "%s %s->%s", rel, a, b)
	}
	return nil
}

// scalar returns a JSON string or number as text.
func scalar(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	if _, err := strconv.ParseFloat(string(raw), 64); err != nil {
		return "", fmt.Errorf("want string or number, got %s", raw)
	}
	return string(raw), nil
}
