package session

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracefold/pkg/config"
	"github.com/matzehuels/tracefold/pkg/errors"
	tio "github.com/matzehuels/tracefold/pkg/io"
	"github.com/matzehuels/tracefold/pkg/observability"
	"github.com/matzehuels/tracefold/pkg/trace"
	"github.com/matzehuels/tracefold/pkg/trace/bridge"
	"github.com/matzehuels/tracefold/pkg/trace/fold"
)

// Fold operation names reported to observability hooks.
const (
	OpCollapse   = "collapse"
	OpExpand     = "expand"
	OpExpandKind = "expand-kind"
	OpHide       = "hide"
	OpShow       = "show"
)

// Options configures a session.
type Options struct {
	// Geometry converts generated grid coordinates to scene positions.
	Geometry config.Geometry

	// Logger receives debug output. Nil means log.Default().
	Logger *log.Logger
}

// Change describes the effect of one operation on the selected trace.
type Change struct {
	Nodes    []string       // Nodes whose fold or hide flags changed
	Revisits []string       // Nodes reached twice on one descent (cyclic hierarchy)
	Removed  []trace.EdgeID // Bridge edges removed
	Added    []trace.EdgeID // Bridge edges added
}

// Empty reports whether the operation changed nothing.
func (c Change) Empty() bool {
	return len(c.Nodes) == 0 && len(c.Removed) == 0 && len(c.Added) == 0
}

// Session edits one project.
type Session struct {
	mu       sync.Mutex
	project  *tio.Project
	path     string
	selected int // position in project.Graphs
	dirty    bool
	logger   *log.Logger
}

// New starts a session on an already loaded project. The trace named by
// the project's SelectedIndex is selected, or the first trace if there is
// no such trace. It returns a NO_TRACES error for an empty project.
func New(p *tio.Project, opts Options) (*Session, error) {
	if len(p.Graphs) == 0 {
		return nil, errors.ValidateTraceNumber(1, 0)
	}
	s := &Session{project: p, logger: opts.Logger}
	if s.logger == nil {
		s.logger = log.Default()
	}
	for i, g := range p.Graphs {
		if g.Index == p.SelectedIndex {
			s.selected = i
		}
	}
	p.SelectedIndex = p.Graphs[s.selected].Index
	return s, nil
}

// Open loads a file and starts a session on it. Files ending in .gry are
// read as saved projects, with their bridge edges rebuilt from the fold
// flags. Anything else is read as compiler output.
func Open(ctx context.Context, path string, opts Options) (*Session, error) {
	start := time.Now()
	lopts := tio.Options{Geometry: opts.Geometry, Logger: opts.Logger, Regenerate: true}

	var (
		p   *tio.Project
		err error
	)
	if IsProject(path) {
		p, err = tio.ImportProject(path, lopts)
	} else {
		p, err = tio.ImportGenerated(path, lopts)
	}
	traces := 0
	if p != nil {
		traces = len(p.Graphs)
	}
	observability.Session().OnLoad(ctx, path, traces, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s, err := New(p, opts)
	if err != nil {
		return nil, err
	}
	if IsProject(path) {
		s.path = path
	}
	s.logger.Debug("opened", "path", path, "traces", traces, "elapsed", time.Since(start).Round(time.Millisecond))
	return s, nil
}

// IsProject reports whether path names a saved project file.
func IsProject(path string) bool {
	return strings.EqualFold(filepath.Ext(path), errors.ProjectExt)
}

// Project returns the project being edited.
func (s *Session) Project() *tio.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

// Current returns the selected trace.
func (s *Session) Current() *trace.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Graphs[s.selected]
}

// Path returns the project file the session was opened from or last saved
// to, or "" if it has never been saved.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Dirty reports whether there are unsaved changes.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Len returns the number of traces.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.project.Graphs)
}

// Select makes trace number n current. Trace numbers are graph indexes,
// the numbers inspect lists and render puts in output names; a project
// read from a .gry file need not number its traces 1 to Len.
func (s *Session) Select(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.project.Graphs, func(g *trace.Graph) bool { return g.Index == n })
	if i < 0 {
		return errors.New(errors.ErrCodeTraceNotFound, "trace %d not found (traces: %s)", n, traceNumbers(s.project.Graphs))
	}
	s.selected = i
	s.project.SelectedIndex = n
	return nil
}

// traceNumbers lists the indexes of gs, as a range when they run 1 to len.
func traceNumbers(gs []*trace.Graph) string {
	nums := make([]string, len(gs))
	contiguous := true
	for i, g := range gs {
		nums[i] = strconv.Itoa(g.Index)
		contiguous = contiguous && g.Index == i+1
	}
	if contiguous && len(gs) > 1 {
		return fmt.Sprintf("1-%d", len(gs))
	}
	return strings.Join(nums, ", ")
}

// Next selects the following trace, wrapping around, and returns its
// 1-based position.
func (s *Session) Next() int { return s.step(1) }

// Prev selects the preceding trace, wrapping around, and returns its
// 1-based position.
func (s *Session) Prev() int { return s.step(-1) }

func (s *Session) step(d int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.project.Graphs)
	s.selected = ((s.selected+d)%n + n) % n
	s.project.SelectedIndex = s.project.Graphs[s.selected].Index
	return s.selected + 1
}

// Fold collapses the subtree under a root or composite node.
func (s *Session) Fold(ctx context.Context, id string) (Change, error) {
	return s.foldOp(ctx, id, OpCollapse, fold.CollapseBelow)
}

// Unfold expands the node and everything below it.
func (s *Session) Unfold(ctx context.Context, id string) (Change, error) {
	return s.foldOp(ctx, id, OpExpand, fold.UncollapseBelow)
}

// ToggleFold folds a node that can be folded and unfolds a node that is
// folded. Nodes of other kinds are left alone.
func (s *Session) ToggleFold(ctx context.Context, id string) (Change, error) {
	s.mu.Lock()
	n, err := s.node(id)
	s.mu.Unlock()
	if err != nil {
		return Change{}, err
	}
	switch {
	case fold.CanCollapse(n):
		return s.Fold(ctx, id)
	case fold.CanExpand(n):
		return s.Unfold(ctx, id)
	default:
		return Change{}, nil
	}
}

// UnfoldKind expands every node of kind k in the selected trace.
func (s *Session) UnfoldKind(ctx context.Context, k trace.Kind) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.project.Graphs[s.selected]
	res := fold.UncollapseKind(g, k)
	return s.finish(ctx, g, k.String(), OpExpandKind, res)
}

func (s *Session) foldOp(ctx context.Context, id, op string, f func(*trace.Graph, string) fold.Result) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.node(id); err != nil {
		return Change{}, err
	}
	g := s.project.Graphs[s.selected]
	return s.finish(ctx, g, id, op, f(g, id))
}

// finish reconciles bridges after a fold change and reports both steps.
func (s *Session) finish(ctx context.Context, g *trace.Graph, subject, op string, res fold.Result) (Change, error) {
	ch := Change{Nodes: res.Changed, Revisits: res.Revisits}
	observability.Session().OnFold(ctx, g.Index, subject, op, len(res.Changed))
	if len(res.Revisits) > 0 {
		s.logger.Warn("fold reached a node twice on one path", "trace", g.Index, "nodes", res.Revisits)
	}
	if res.Empty() {
		return ch, nil
	}
	s.dirty = true

	start := time.Now()
	diff := bridge.Reconcile(g)
	added, err := bridge.Apply(g, diff, s.project.Placer(g))
	if err != nil {
		return ch, errors.Wrap(errors.ErrCodeInternal, err, "reconcile trace %d", g.Index)
	}
	ch.Removed, ch.Added = diff.Remove, added
	if !diff.Empty() {
		observability.Session().OnReconcile(ctx, g.Index, len(diff.Remove), len(added), time.Since(start))
	}
	s.logger.Debug(op, "trace", g.Index, "node", subject, "changed", len(res.Changed),
		"bridges_removed", len(diff.Remove), "bridges_added", len(added))
	return ch, nil
}

// SetHide sets the user hide flag of a node. Hiding only changes how the
// node is drawn, so no bridge pass runs.
func (s *Session) SetHide(ctx context.Context, id string, hide bool) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.node(id); err != nil {
		return Change{}, err
	}
	g := s.project.Graphs[s.selected]
	op := OpShow
	if hide {
		op = OpHide
	}
	var ch Change
	if fold.SetHide(g, id, hide) {
		ch.Nodes = []string{id}
		s.dirty = true
	}
	observability.Session().OnFold(ctx, g.Index, id, op, len(ch.Nodes))
	return ch, nil
}

// ToggleHide flips the user hide flag of a node.
func (s *Session) ToggleHide(ctx context.Context, id string) (Change, error) {
	s.mu.Lock()
	n, err := s.node(id)
	s.mu.Unlock()
	if err != nil {
		return Change{}, err
	}
	return s.SetHide(ctx, id, !n.Hide)
}

// ToggleMark flips the user mark of the selected trace and returns the new
// mark.
func (s *Session) ToggleMark() trace.Mark {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.project.Graphs[s.selected]
	if g.Mark == trace.MarkMarked {
		g.Mark = trace.MarkUnmarked
	} else {
		g.Mark = trace.MarkMarked
	}
	s.dirty = true
	return g.Mark
}

// Save writes the project to path, or to the session's current path when
// path is empty. The path must end in .gry.
func (s *Session) Save(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		path = s.path
	}
	if err := errors.ValidateOutputPath(path, errors.ProjectExt); err != nil {
		return err
	}
	if err := tio.ExportProject(s.project, path); err != nil {
		return err
	}
	s.path = path
	s.dirty = false
	s.logger.Debug("saved", "path", path, "traces", len(s.project.Graphs))
	return nil
}

// node looks up id in the selected trace. The caller holds s.mu.
func (s *Session) node(id string) (*trace.Node, error) {
	g := s.project.Graphs[s.selected]
	n, ok := g.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "trace %d has no node %q", g.Index, id)
	}
	return n, nil
}
