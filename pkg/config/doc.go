// Package config loads appearance and layout settings for tracefold.
//
// Settings live in a TOML file, by default
// $XDG_CONFIG_HOME/tracefold/config.toml (~/.config/tracefold/config.toml
// when XDG_CONFIG_HOME is unset). A missing file is not an error: the NPS
// theme is used.
//
// A file picks a base theme and overrides individual values:
//
//	theme = "Navy"
//	h_spacing = 180
//
//	[edges.follows]
//	color = "#202020"
//
// Keys the file leaves out keep the theme's values. See [ThemeNames] for the
// built-in themes.
//
// Settings only affect geometry at load time and rendering. The fold and
// bridge packages never read them.
package config
