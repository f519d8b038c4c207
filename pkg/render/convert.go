package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/tracefold/pkg/errors"
)

// converter is the librsvg command used for PDF and PNG output.
var converter = "rsvg-convert"

// Options control how an SVG is rasterized or paginated.
type Options struct {
	// Background fills the page behind the diagram, as a CSS color. Graphviz
	// leaves the SVG canvas transparent, so PNG output needs it to keep the
	// theme's background. Empty keeps the page transparent.
	Background string

	// Scale zooms PNG output; 2 gives a 2x image. Zero means 1.
	Scale float64
}

// ToPDF converts a rendered trace from SVG to PDF.
func ToPDF(ctx context.Context, svg []byte, opts Options) ([]byte, error) {
	return convert(ctx, svg, "pdf", opts)
}

// ToPNG converts a rendered trace from SVG to PNG.
func ToPNG(ctx context.Context, svg []byte, opts Options) ([]byte, error) {
	return convert(ctx, svg, "png", opts)
}

func convertArgs(format string, opts Options) []string {
	args := []string{"--format", format}
	if opts.Background != "" {
		args = append(args, "--background-color", opts.Background)
	}
	if format == "png" && opts.Scale > 0 && opts.Scale != 1 {
		args = append(args, "--zoom", strconv.FormatFloat(opts.Scale, 'f', 2, 64))
	}
	return args
}

func convert(ctx context.Context, svg []byte, format string, opts Options) ([]byte, error) {
	bin, err := exec.LookPath(converter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err,
			"%s output requires %s (brew install librsvg, or apt install librsvg2-bin)", format, converter)
	}

	cmd := exec.CommandContext(ctx, bin, convertArgs(format, opts)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s to %s: %s", converter, format, msg)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s to %s", converter, format)
	}
	return out.Bytes(), nil
}
