package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// sampleTraces has two traces. In trace 1, root 1 contains composites 2
// and 4, which contain atomic events 3 and 5; event 5 follows event 3.
const sampleTraces = `{"traces": [
  ["U", 0.75,
    [["Mission", "R", 1, 0, 0], ["Launch", "C", 2, 0, 1], ["Ignite", "A", 3, 0, 2],
     ["Orbit", "C", 4, 1, 1], ["Circularize", "A", 5, 1, 2]],
    [[2, 1], [4, 1], [3, 2], [5, 4]],
    [[5, 3], [4, 2]]],
  ["M", 0.25,
    [["Abort", "R", 1, 0, 0]],
    [],
    []]
]}`

// isolate points the config and cache directories at a temporary directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

// writeSample writes sampleTraces into dir and returns its path.
func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "mission.json")
	if err := os.WriteFile(path, []byte(sampleTraces), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
