package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracefold/pkg/session"
	"github.com/matzehuels/tracefold/pkg/trace"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHiddenStyle   = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore traces interactively",
		Long: `Open a trace file or project in an interactive terminal view.

Keys:
  ↑/k ↓/j   move
  space     fold or unfold the selected event
  h         hide or show the selected event
  e         expand everything
  n/p       next or previous trace
  m         toggle the trace mark
  w         write the project (.gry)
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, args[0], n)
			if err != nil {
				return err
			}
			m := newBrowseModel(ctx, sess, projectPath(args[0]))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&n, "trace", "t", 0, "trace to open (default: selected trace)")

	return cmd
}

// browseRow is one line of the flattened visible hierarchy.
type browseRow struct {
	id    string
	depth int
}

// browseModel is the bubbletea model for the trace browser.
type browseModel struct {
	ctx      context.Context
	sess     *session.Session
	savePath string

	rows    []browseRow
	cursor  int
	offset  int
	height  int
	status  string
	confirm bool // quit requested with unsaved changes
}

func newBrowseModel(ctx context.Context, sess *session.Session, savePath string) browseModel {
	if p := sess.Path(); p != "" {
		savePath = p
	}
	m := browseModel{ctx: ctx, sess: sess, savePath: savePath, height: 20}
	m.rebuild("")
	return m
}

// rebuild flattens the visible hierarchy of the current trace and keeps the
// cursor on keep when it is still visible.
func (m *browseModel) rebuild(keep string) {
	g := m.sess.Current()
	m.rows = m.rows[:0]
	seen := trace.NodeSet{}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if seen.Has(id) || !g.MustNode(id).Visible() {
			return
		}
		seen.Add(id)
		m.rows = append(m.rows, browseRow{id: id, depth: depth})
		for _, c := range g.ChildrenIn(id) {
			walk(c, depth+1)
		}
	}
	for _, r := range g.Roots() {
		walk(r.ID, 0)
	}

	m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
	for i, r := range m.rows {
		if r.id == keep {
			m.cursor = i
		}
	}
	m.scroll()
}

func (m *browseModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m browseModel) selected() string {
	if len(m.rows) == 0 {
		return ""
	}
	return m.rows[m.cursor].id
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		if key != "q" {
			m.confirm = false
		}
		switch key {
		case "q", "ctrl+c", "esc":
			if m.sess.Dirty() && !m.confirm && key == "q" {
				m.confirm = true
				m.status = "Unsaved changes: press q again to quit, w to write"
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.scroll()
			}
		case " ", "enter":
			m.apply(m.sess.ToggleFold(m.ctx, m.selected()))
		case "h":
			m.apply(m.sess.ToggleHide(m.ctx, m.selected()))
		case "e":
			m.apply(m.sess.UnfoldKind(m.ctx, trace.KindRoot))
		case "n":
			m.sess.Next()
			m.cursor, m.offset = 0, 0
			m.rebuild("")
			m.status = ""
		case "p":
			m.sess.Prev()
			m.cursor, m.offset = 0, 0
			m.rebuild("")
			m.status = ""
		case "m":
			m.status = "Trace " + markName(m.sess.ToggleMark())
		case "w":
			if err := m.sess.Save(m.ctx, m.savePath); err != nil {
				m.status = "Save failed: " + err.Error()
			} else {
				m.status = "Wrote " + m.savePath
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

// apply rebuilds the rows after a session change and reports it.
func (m *browseModel) apply(ch session.Change, err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.rebuild(m.selected())
	switch {
	case ch.Empty():
		m.status = ""
	case len(ch.Added)+len(ch.Removed) > 0:
		m.status = fmt.Sprintf("%d events changed, bridges -%d +%d", len(ch.Nodes), len(ch.Removed), len(ch.Added))
	default:
		m.status = fmt.Sprintf("%d events changed", len(ch.Nodes))
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	g := m.sess.Current()

	title := fmt.Sprintf("Trace %d/%d", g.Index, m.sess.Len())
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · p=%g · %d bridges",
		markName(g.Mark), g.Probability, len(g.EdgesWithRelation(trace.RelationCollapsedFollows)))))
	if m.sess.Dirty() {
		b.WriteString(StyleWarning.Render("  modified"))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  space fold  h hide  e expand all  n/p trace  m mark  w write  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.rowLine(g, i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if id := m.selected(); id != "" {
		b.WriteString(listDimStyle.Render("  then: " + successors(g, id)))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	if m.status != "" {
		b.WriteString("  " + StyleHighlight.Render(m.status))
	}
	return b.String()
}

func (m browseModel) rowLine(g *trace.Graph, i int) string {
	r := m.rows[i]
	n := g.MustNode(r.id)

	cursor := "  "
	if i == m.cursor {
		cursor = "▸ "
	}
	marker := "  "
	switch {
	case n.CollapseBelow:
		marker = "⊞ "
	case n.Kind.Foldable():
		marker = "⊟ "
	}
	line := fmt.Sprintf("%s%s%s%s %s", cursor, strings.Repeat("  ", r.depth), marker,
		n.DisplayLabel(), listDimStyle.Render(fmt.Sprintf("(%s %s)", n.Kind.Tag(), n.ID)))

	switch {
	case i == m.cursor:
		return listSelectedStyle.Render(line)
	case n.Hide:
		return listHiddenStyle.Render(line + " ◌")
	default:
		return listNormalStyle.Render(line)
	}
}

// successors lists the visible events that directly follow id, through
// FOLLOWS edges or bridges.
func successors(g *trace.Graph, id string) string {
	var out []string
	for _, e := range g.EdgesOf(id) {
		if e.Source != id || (e.Relation != trace.RelationFollows && e.Relation != trace.RelationCollapsedFollows) {
			continue
		}
		dst := g.MustNode(e.Dest)
		if !dst.Visible() {
			continue
		}
		label := dst.DisplayLabel()
		if e.Relation == trace.RelationCollapsedFollows {
			label += " ⇢"
		}
		out = append(out, label)
	}
	if len(out) == 0 {
		return "—"
	}
	return strings.Join(out, ", ")
}
