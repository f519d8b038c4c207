package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/tracefold/pkg/config"
)

func TestConfig_ShowTheme(t *testing.T) {
	isolate(t)
	out, err := execute(t, "config", "--theme", "navy")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"Settings", "Navy", "node_width", "127", "follows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfig_Themes(t *testing.T) {
	isolate(t)
	out, err := execute(t, "config", "themes")
	if err != nil {
		t.Fatalf("config themes: %v", err)
	}
	for _, name := range config.ThemeNames() {
		if !strings.Contains(out, name) {
			t.Errorf("theme %q not listed:\n%s", name, out)
		}
	}
}

func TestConfig_Path(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "config", "tracefold", "config.toml"); strings.TrimSpace(out) != want {
		t.Errorf("path = %q, want %q", strings.TrimSpace(out), want)
	}

	custom := filepath.Join(dir, "custom.toml")
	out, err = execute(t, "--config", custom, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != custom {
		t.Errorf("path = %q, want %q", strings.TrimSpace(out), custom)
	}
}

func TestConfig_Init(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "settings.toml")

	if _, err := execute(t, "--config", path, "config", "init", "--theme", "Firebird"); err != nil {
		t.Fatalf("init: %v", err)
	}
	s, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Theme != "Firebird" {
		t.Errorf("theme = %q, want Firebird", s.Theme)
	}

	out, err := execute(t, "--config", path, "config", "init", "--theme", "Navy")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("init without --force should refuse:\n%s", out)
	}
	if s, _ := config.Load(path); s.Theme != "Firebird" {
		t.Errorf("file overwritten without --force: theme %q", s.Theme)
	}

	if _, err := execute(t, "--config", path, "config", "init", "--theme", "Navy", "--force"); err != nil {
		t.Fatal(err)
	}
	if s, _ := config.Load(path); s.Theme != "Navy" {
		t.Errorf("theme = %q after --force, want Navy", s.Theme)
	}
}

func TestConfig_SettingsFileUsedByRender(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("theme = \"Navy\"\nbackground = \"#123456\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sample := writeSample(t, dir)
	out := filepath.Join(dir, "out.dot")

	if _, err := execute(t, "--config", path, "render", sample, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#123456") {
		t.Errorf("background from settings file not applied:\n%s", data)
	}
}
