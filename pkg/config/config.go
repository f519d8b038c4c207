package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tracefold/pkg/errors"
)

const (
	appName  = "tracefold"
	fileName = "config.toml"
)

// Edge line styles.
const (
	StyleSolid  = "solid_line"
	StyleDashed = "dash_line"
	StyleDotted = "dot_line"
)

// Settings is the complete set of appearance and layout values.
type Settings struct {
	Theme string `toml:"theme"`

	Geometry

	// HideCollapseOpacity is the alpha (0-255) used to draw hidden nodes.
	HideCollapseOpacity int    `toml:"hide_collapse_opacity"`
	Background          string `toml:"background"`
	NodeBorder          bool   `toml:"node_border"`
	ArrowSize           int    `toml:"arrow_size"`

	Nodes NodeColors `toml:"nodes"`
	Edges EdgeStyles `toml:"edges"`
}

// Geometry holds the values that turn grid coordinates from the trace
// generator into scene positions.
type Geometry struct {
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	HSpacing   float64 `toml:"h_spacing"`
	VSpacing   float64 `toml:"v_spacing"`
}

// NodeColors holds the fill colour for each node kind.
type NodeColors struct {
	Root      string `toml:"root"`
	Composite string `toml:"composite"`
	Atomic    string `toml:"atomic"`
	Schema    string `toml:"schema"`
	Say       string `toml:"say"`
}

// EdgeStyle is the colour and line style of one relation.
type EdgeStyle struct {
	Color string `toml:"color"`
	Style string `toml:"style"`
}

// EdgeStyles holds the style of each drawn relation. Bridge edges use the
// FOLLOWS colour with a dashed line.
type EdgeStyles struct {
	In          EdgeStyle `toml:"in"`
	Follows     EdgeStyle `toml:"follows"`
	UserDefined EdgeStyle `toml:"user_defined"`
}

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Default returns the NPS theme.
func Default() Settings {
	s, _ := Theme(DefaultTheme)
	return s
}

// Path returns the default settings file path.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads settings from path. An empty path means [Path]. A missing file
// yields [Default] and no error.
func Load(path string) (Settings, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read settings")
	}
	return Parse(data)
}

// Parse decodes settings from TOML. The theme key selects the base values;
// every other key overrides them.
func Parse(data []byte) (Settings, error) {
	var head struct {
		Theme string `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode settings")
	}
	name := head.Theme
	if name == "" {
		name = DefaultTheme
	}
	s, err := Theme(name)
	if err != nil {
		return Settings{}, err
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode settings")
	}
	s.Theme = canonicalTheme(name)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes settings as TOML, creating parent directories as needed.
func Save(path string, s Settings) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks colours, line styles, and sizes.
func (s Settings) Validate() error {
	if s.NodeWidth <= 0 || s.NodeHeight <= 0 || s.HSpacing <= 0 || s.VSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "node size and spacing must be positive")
	}
	if s.HideCollapseOpacity < 0 || s.HideCollapseOpacity > 255 {
		return errors.New(errors.ErrCodeInvalidInput, "hide_collapse_opacity must be in 0-255, got %d", s.HideCollapseOpacity)
	}
	colors := map[string]string{
		"background":      s.Background,
		"nodes.root":      s.Nodes.Root,
		"nodes.composite": s.Nodes.Composite,
		"nodes.atomic":    s.Nodes.Atomic,
		"nodes.schema":    s.Nodes.Schema,
		"nodes.say":       s.Nodes.Say,
		"edges.in":        s.Edges.In.Color,
		"edges.follows":   s.Edges.Follows.Color,
		"edges.user":      s.Edges.UserDefined.Color,
	}
	for key, c := range colors {
		if !colorRe.MatchString(c) {
			return errors.New(errors.ErrCodeInvalidInput, "%s: invalid colour %q", key, c)
		}
	}
	for _, st := range []string{s.Edges.In.Style, s.Edges.Follows.Style, s.Edges.UserDefined.Style} {
		switch st {
		case StyleSolid, StyleDashed, StyleDotted:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "invalid edge style %q", st)
		}
	}
	return nil
}

// Alpha returns HideCollapseOpacity as a two-digit hex suffix for
// #rrggbb colours.
func (s Settings) Alpha() string {
	return fmt.Sprintf("%02x", s.HideCollapseOpacity)
}
