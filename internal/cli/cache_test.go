package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCache_Path(t *testing.T) {
	dir := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", "tracefold"); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCache_ClearEmpty(t *testing.T) {
	isolate(t)
	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output = %q", out)
	}
}

func TestCache_ClearAfterRender(t *testing.T) {
	dir := isolate(t)
	path := writeSample(t, dir)
	if _, err := execute(t, "render", path, "-o", filepath.Join(dir, "a.svg")); err != nil {
		t.Fatalf("render: %v", err)
	}

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached renders") {
		t.Errorf("output = %q", out)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cache", "tracefold"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d entries left in cache dir", len(entries))
	}

	again, err := execute(t, "render", path, "-o", filepath.Join(dir, "a.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(again, "fresh") {
		t.Errorf("render after clear should be fresh:\n%s", again)
	}
}
