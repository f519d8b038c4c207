package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	tio "github.com/matzehuels/tracefold/pkg/io"
	"github.com/matzehuels/tracefold/pkg/trace"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	trace   int  // trace number, 0 for the summary table
	visible bool // omit events hidden by a folded ancestor
	edges   bool // list ordering edges after the hierarchy
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print trace summaries or the event hierarchy of one trace",
		Long: `Print a summary table of every trace in a generated trace file or saved
project. With --trace, print the event hierarchy of that trace instead,
marking folded events with ▸ and hidden events with ◌.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.trace, "trace", "t", 0, "trace number to show (default: summary of all traces)")
	cmd.Flags().BoolVar(&opts.visible, "visible", false, "show only events visible in the folded view")
	cmd.Flags().BoolVar(&opts.edges, "edges", false, "list ordering edges, including bridges")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, w io.Writer, path string, opts inspectOpts) error {
	sess, err := c.openSession(ctx, path, opts.trace)
	if err != nil {
		return err
	}
	p := sess.Project()
	if opts.trace == 0 {
		printSummary(w, p)
		return nil
	}

	g := sess.Current()
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Trace %d", g.Index)))
	printKeyValue(w, "Mark", markName(g.Mark))
	printKeyValue(w, "Probability", strconv.FormatFloat(g.Probability, 'g', -1, 64))
	printKeyValue(w, "Events", strconv.Itoa(g.NodeCount()))
	printKeyValue(w, "Edges", strconv.Itoa(g.EdgeCount()))
	printKeyValue(w, "Bridges", strconv.Itoa(len(g.EdgesWithRelation(trace.RelationCollapsedFollows))))
	fmt.Fprintln(w)
	fmt.Fprintln(w, hierarchyTree(g, opts.visible).String())

	if opts.edges {
		fmt.Fprintln(w)
		printOrdering(w, g)
	}
	return nil
}

// printSummary prints one table row per trace.
func printSummary(w io.Writer, p *tio.Project) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(p.Graphs))
	for _, g := range p.Graphs {
		folded := 0
		for _, n := range g.Nodes() {
			if n.CollapseBelow {
				folded++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(g.Index),
			string(g.Mark),
			strconv.FormatFloat(g.Probability, 'g', 4, 64),
			strconv.Itoa(g.NodeCount()),
			strconv.Itoa(g.EdgeCount()),
			strconv.Itoa(folded),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Trace", "Mark", "Probability", "Events", "Edges", "Folded").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
	printDetail(w, "%d traces, scope %d", len(p.Graphs), p.Scope)
}

// hierarchyTree renders the IN hierarchy below each root. A node with more
// than one parent is expanded under the first parent only.
func hierarchyTree(g *trace.Graph, visibleOnly bool) *tree.Tree {
	t := tree.Root(fmt.Sprintf("trace %d", g.Index)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleHighlight)

	expanded := trace.NodeSet{}
	var add func(parent *tree.Tree, id string)
	add = func(parent *tree.Tree, id string) {
		n := g.MustNode(id)
		if visibleOnly && !n.Visible() {
			return
		}
		label := nodeLine(n)
		children := g.ChildrenIn(id)
		if expanded.Has(id) {
			if len(children) > 0 {
				label += StyleDim.Render(" …")
			}
			parent.Child(label)
			return
		}
		expanded.Add(id)
		if len(children) == 0 {
			parent.Child(label)
			return
		}
		sub := tree.Root(label)
		for _, ch := range children {
			add(sub, ch)
		}
		parent.Child(sub)
	}
	for _, r := range g.Roots() {
		add(t, r.ID)
	}
	return t
}

// nodeLine formats one event for the hierarchy tree.
func nodeLine(n *trace.Node) string {
	marker := " "
	if n.CollapseBelow {
		marker = "▸"
	}
	line := fmt.Sprintf("%s %s %s", marker, n.DisplayLabel(), StyleDim.Render(fmt.Sprintf("(%s %s)", n.Kind, n.ID)))
	if n.Hide {
		line += " ◌"
	}
	if !n.Visible() {
		return StyleDim.Render(line)
	}
	return line
}

// printOrdering lists FOLLOWS edges between visible events and the bridges
// standing in for hidden ones.
func printOrdering(w io.Writer, g *trace.Graph) {
	fmt.Fprintln(w, StyleTitle.Render("Ordering"))
	for _, e := range g.Edges() {
		if e.Relation != trace.RelationFollows && e.Relation != trace.RelationCollapsedFollows {
			continue
		}
		src, dst := g.MustNode(e.Source), g.MustNode(e.Dest)
		if !src.Visible() || !dst.Visible() {
			continue
		}
		arrow := iconArrow
		if e.Relation == trace.RelationCollapsedFollows {
			arrow = "⇢"
		}
		fmt.Fprintf(w, "  %s %s %s\n", src.DisplayLabel(), StyleDim.Render(arrow), dst.DisplayLabel())
	}
}

func markName(m trace.Mark) string {
	if m == trace.MarkMarked {
		return "marked"
	}
	return "unmarked"
}
