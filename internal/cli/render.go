package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tracefold/pkg/cache"
	"github.com/matzehuels/tracefold/pkg/errors"
	"github.com/matzehuels/tracefold/pkg/render"
	"github.com/matzehuels/tracefold/pkg/render/nodelink"
)

// Output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPDF: true, formatPNG: true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string  // output file path
	trace     int     // trace number, 0 for the trace selected in the file
	format    string  // dot, svg, pdf, or png
	engine    string  // Graphviz layout engine
	positions bool    // pin nodes at generator positions
	ids       bool    // show node IDs in labels
	theme     string  // built-in theme overriding the settings file
	scale     float64 // PNG scale factor
	noCache   bool    // bypass the render cache

	background string // page color for PDF and PNG, taken from the settings
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG, engine: nodelink.EngineDot, scale: 2}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the folded view of a trace",
		Long: `Render the visible part of one trace as Graphviz DOT, SVG, PDF, or PNG.

Events hidden by a folded ancestor are left out and the ordering edges that
touched them are replaced by dashed bridges. PDF and PNG output require
rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.format = strings.ToLower(opts.format)
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if opts.engine != nodelink.EngineDot && opts.engine != nodelink.EngineNeato {
				return errors.New(errors.ErrCodeInvalidInput, "invalid engine: %s (must be 'dot' or 'neato')", opts.engine)
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>_trace<N>.<format>)")
	cmd.Flags().IntVarP(&opts.trace, "trace", "t", 0, "trace number (default: selected trace)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot, pdf, png")
	cmd.Flags().StringVar(&opts.engine, "engine", opts.engine, "layout engine: dot, neato")
	cmd.Flags().BoolVar(&opts.positions, "positions", false, "pin events at generator positions (use with --engine neato)")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "show event IDs in labels")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "built-in theme to use instead of the settings file")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// validateFormat checks that the format is supported.
func validateFormat(f string) error {
	if !validFormats[f] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", f)
	}
	return nil
}

// outputPath derives the output path from the input path, trace number,
// and format when no output was given.
func outputPath(output, input string, index int, format string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s_trace%d.%s", base, index, format)
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, input string, opts renderOpts) error {
	timer := startTimer(loggerFromContext(ctx))

	settings, err := c.settings(opts.theme)
	if err != nil {
		return err
	}
	opts.background = settings.Background
	sess, err := c.openSession(ctx, input, opts.trace)
	if err != nil {
		return err
	}
	g := sess.Current()
	out := outputPath(opts.output, input, g.Index, opts.format)
	if err := errors.ValidateOutputPath(out); err != nil {
		return err
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Settings: settings, Positions: opts.positions, ShowIDs: opts.ids})
	visible := 0
	for _, n := range g.Nodes() {
		if n.Visible() {
			visible++
		}
	}

	var (
		data   []byte
		cached bool
	)
	if opts.format == formatDOT {
		data = []byte(dot)
	} else {
		data, cached, err = c.renderCached(ctx, g.Index, dot, opts)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
	}
	timer.done("rendered", g.Index, "format", opts.format, "cached", cached)

	printSuccess(w, "Rendered trace %d", g.Index)
	printFile(w, out)
	printStats(w, visible, strings.Count(dot, " -> "), cached)
	return nil
}

// renderCached returns the artifact for trace index, from the cache when
// possible.
func (c *CLI) renderCached(ctx context.Context, index int, dot string, opts renderOpts) ([]byte, bool, error) {
	store, err := newCache(opts.noCache)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	keyOpts := cache.ArtifactKeyOpts{Format: opts.format, Engine: opts.engine}
	if opts.format == formatPNG {
		keyOpts.Format = fmt.Sprintf("%s@%g", formatPNG, opts.scale)
	}
	key := newKeyer().ArtifactKey(cache.Hash([]byte(dot)), keyOpts)

	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	var spin *spinner
	if !c.verbose {
		spin = startSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering trace %d as %s", index, opts.format))
	}
	data, err := c.renderFormat(ctx, dot, opts)
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return nil, false, err
	}

	if err := store.Set(ctx, key, data, 0); err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "err", err)
	}
	return data, false, nil
}

func (c *CLI) renderFormat(ctx context.Context, dot string, opts renderOpts) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	conv := render.Options{Background: opts.background, Scale: opts.scale}
	switch opts.format {
	case formatPDF:
		data, err = nodelink.RenderPDF(ctx, dot, opts.engine, conv)
	case formatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.engine, conv)
	default:
		data, err = nodelink.RenderSVG(ctx, dot, opts.engine)
	}
	switch {
	case err == nil:
		return data, nil
	case errors.GetCode(err) != "":
		return nil, err
	default:
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.format)
	}
}
