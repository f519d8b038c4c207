package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/session"
	"github.com/matzehuels/tracefold/pkg/trace"
)

// foldOpts holds the command-line flags for the fold command.
type foldOpts struct {
	output     string   // project file to write
	trace      int      // trace number, 0 for the trace selected in the file
	collapse   []string // node IDs to fold
	expand     []string // node IDs to expand with their subtree
	expandKind []string // kind tags whose nodes are all expanded
	hide       []string // node IDs to hide
	show       []string // node IDs to unhide
	mark       bool     // toggle the trace mark
}

// foldCommand creates the fold command.
//
// Operations run in a fixed order: kind expansions, expansions, folds, then
// hide and show. Bridges are reconciled after every fold change.
func (c *CLI) foldCommand() *cobra.Command {
	var opts foldOpts

	cmd := &cobra.Command{
		Use:   "fold [file]",
		Short: "Fold, expand, or hide events of a trace and save a project",
		Long: `Apply fold operations to one trace and write the result as a .gry project.

Operations run in this order: --expand-kind, --expand, --collapse, --show,
--hide. Each flag may be repeated or given a comma-separated list.`,
		Example: `  tracefold fold model.json -t 2 --collapse 4 --collapse 9 -o model.gry
  tracefold fold model.gry -t 2 --expand-kind R`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = projectPath(args[0])
			}
			if err := errors.ValidateOutputPath(opts.output, errors.ProjectExt); err != nil {
				return err
			}
			return c.runFold(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "project file to write (default: input with .gry extension)")
	cmd.Flags().IntVarP(&opts.trace, "trace", "t", 0, "trace number (default: selected trace)")
	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "fold the subtree under these events")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, "expand these events and everything below them")
	cmd.Flags().StringSliceVar(&opts.expandKind, "expand-kind", nil, "expand every event of these kinds (R, C)")
	cmd.Flags().StringSliceVar(&opts.hide, "hide", nil, "hide these events")
	cmd.Flags().StringSliceVar(&opts.show, "show", nil, "unhide these events")
	cmd.Flags().BoolVar(&opts.mark, "mark", false, "toggle the trace mark")

	return cmd
}

func (c *CLI) runFold(ctx context.Context, w io.Writer, input string, opts foldOpts) error {
	timer := startTimer(loggerFromContext(ctx))

	sess, err := c.openSession(ctx, input, opts.trace)
	if err != nil {
		return err
	}

	var total session.Change
	apply := func(ch session.Change, err error) error {
		if err != nil {
			return err
		}
		total.Nodes = append(total.Nodes, ch.Nodes...)
		total.Removed = append(total.Removed, ch.Removed...)
		total.Added = append(total.Added, ch.Added...)
		for _, id := range ch.Revisits {
			printWarning(w, "event %s is its own ancestor; folding stopped there", id)
		}
		return nil
	}

	for _, tag := range opts.expandKind {
		k, err := trace.ParseKind(tag)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidKind, err, "--expand-kind")
		}
		if err := apply(sess.UnfoldKind(ctx, k)); err != nil {
			return err
		}
	}
	for _, id := range opts.expand {
		if err := apply(sess.Unfold(ctx, id)); err != nil {
			return err
		}
	}
	for _, id := range opts.collapse {
		if err := apply(sess.Fold(ctx, id)); err != nil {
			return err
		}
	}
	for _, id := range opts.show {
		if err := apply(sess.SetHide(ctx, id, false)); err != nil {
			return err
		}
	}
	for _, id := range opts.hide {
		if err := apply(sess.SetHide(ctx, id, true)); err != nil {
			return err
		}
	}
	if opts.mark {
		sess.ToggleMark()
	}

	if err := sess.Save(ctx, opts.output); err != nil {
		return err
	}
	g := sess.Current()
	timer.done("folded", g.Index, "events", len(total.Nodes), "bridges", len(g.EdgesWithRelation(trace.RelationCollapsedFollows)))

	printSuccess(w, "Saved project")
	printFile(w, opts.output)
	printDetail(w, "%d events changed, %d bridges removed, %d added", len(total.Nodes), len(total.Removed), len(total.Added))
	printNextStep(w, "Render it", fmt.Sprintf("%s render %s -t %d", appName, opts.output, g.Index))
	return nil
}
