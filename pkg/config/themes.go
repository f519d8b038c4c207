package config

import (
	"strings"

	"github.com/matzehuels/tracefold/pkg/errors"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "NPS"

type palette struct {
	nodes      NodeColors
	in, follow string
	user       string
	background string
	border     bool
}

var themeOrder = []string{
	"NPS",
	"Firebird",
	"Black-and-white",
	"Grayscale",
	"SERC",
	"Navy",
	"Printer-friendly",
	"High contrast",
}

var palettes = map[string]palette{
	"NPS": {
		nodes: NodeColors{Root: "#00486f", Composite: "#ffcc00", Atomic: "#1f7dbc", Schema: "#70017f", Say: "#ffffa0"},
		in:    "#dbdbdb", follow: "#000000", user: "#7aa7bc", background: "#ffffff",
	},
	"Firebird": {
		nodes: NodeColors{Root: "#027731", Composite: "#ff6a00", Atomic: "#1f7dbc", Schema: "#866ec4", Say: "#ffffa0"},
		in:    "#7d7d82", follow: "#000000", user: "#0000ff", background: "#ffffff",
	},
	"Black-and-white": {
		nodes: NodeColors{Root: "#000000", Composite: "#dbdbdb", Atomic: "#dddddd", Schema: "#000000", Say: "#f1f1f1"},
		in:    "#dbdbdb", follow: "#000000", user: "#a0a0a0", background: "#ffffff", border: true,
	},
	"Grayscale": {
		nodes: NodeColors{Root: "#555555", Composite: "#a2a2a2", Atomic: "#e8e8e8", Schema: "#000000", Say: "#e0e0e0"},
		in:    "#dbdbdb", follow: "#000000", user: "#a0a0a0", background: "#ffffff",
	},
	"SERC": {
		nodes: NodeColors{Root: "#aa1039", Composite: "#969696", Atomic: "#e1e3e8", Schema: "#550000", Say: "#e0dfc2"},
		in:    "#dbdbdb", follow: "#000000", user: "#a07c7c", background: "#ffffff",
	},
	"Navy": {
		nodes: NodeColors{Root: "#7b0000", Composite: "#bca15d", Atomic: "#333a6a", Schema: "#550000", Say: "#e6e1ab"},
		in:    "#dbdbdb", follow: "#000000", user: "#5d627f", background: "#ffffff",
	},
	"Printer-friendly": {
		nodes: NodeColors{Root: "#aaff7f", Composite: "#ffaa7f", Atomic: "#c5e9ff", Schema: "#008000", Say: "#ffff66"},
		in:    "#808080", follow: "#000000", user: "#0000ff", background: "#e8e8e8", border: true,
	},
	"High contrast": {
		nodes: NodeColors{Root: "#00d600", Composite: "#ff9966", Atomic: "#92beff", Schema: "#008000", Say: "#ffff66"},
		in:    "#808080", follow: "#000000", user: "#0000ff", background: "#c0c0c0", border: true,
	},
}

// ThemeNames returns the built-in theme names in menu order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

// Theme returns the settings of a built-in theme. Names match
// case-insensitively.
func Theme(name string) (Settings, error) {
	canon := canonicalTheme(name)
	p, ok := palettes[canon]
	if !ok {
		return Settings{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (available: %s)", name, strings.Join(themeOrder, ", "))
	}
	return Settings{
		Theme: canon,
		Geometry: Geometry{
			NodeWidth:  127,
			NodeHeight: 10,
			HSpacing:   165,
			VSpacing:   55,
		},
		HideCollapseOpacity: 127,
		Background:          p.background,
		NodeBorder:          p.border,
		ArrowSize:           10,
		Nodes:               p.nodes,
		Edges: EdgeStyles{
			In:          EdgeStyle{Color: p.in, Style: StyleDashed},
			Follows:     EdgeStyle{Color: p.follow, Style: StyleSolid},
			UserDefined: EdgeStyle{Color: p.user, Style: StyleSolid},
		},
	}, nil
}

func canonicalTheme(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), " theme")
	for _, t := range themeOrder {
		if strings.EqualFold(t, name) {
			return t
		}
	}
	return name
}
