package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on stderr while Graphviz lays out a large
// trace. Only its own goroutine writes to w.
type spinner struct {
	w      io.Writer
	label  string
	cancel context.CancelFunc
	done   chan struct{}
}

// startSpinner shows label until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, label: label, cancel: cancel, done: make(chan struct{})}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.label)+2))
			return
		case <-tick.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
		}
	}
}

// stop clears the status line and waits for the animation to end. Calling
// it again does nothing.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}
