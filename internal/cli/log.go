// Package cli implements the tracefold command-line interface.
//
// This package provides commands for inspecting trace files produced by the
// behavior-model compiler, folding their event hierarchies, rendering the
// folded view, and browsing traces interactively. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - inspect: Print trace summaries and the event hierarchy
//   - fold: Apply fold, expand, and hide operations and save a project
//   - render: Generate DOT, SVG, PDF, or PNG diagrams of a trace
//   - browse: Explore traces in an interactive terminal UI
//   - config: Show settings and built-in themes
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels in the command's context. Commands that change or draw a trace
// log one completion line keyed by the trace number, and with --verbose the
// session and cache hooks log as well.
//
// # Example
//
//	import "github.com/matzehuels/tracefold/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timer measures one command on a trace.
type timer struct {
	logger *log.Logger
	start  time.Time
}

func startTimer(l *log.Logger) *timer {
	return &timer{logger: l, start: time.Now()}
}

// done logs msg for trace index with the elapsed time and any extra
// key/value pairs, e.g. "rendered trace=3 elapsed=1.2s format=svg".
func (t *timer) done(msg string, index int, keyvals ...any) {
	kv := append([]any{"trace", index, "elapsed", time.Since(t.start).Round(time.Millisecond)}, keyvals...)
	t.logger.Info(msg, kv...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
