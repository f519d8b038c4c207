package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tracefold/pkg/config"
)

// configCommand creates the config command and its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.settings(theme)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "show a built-in theme instead of the settings file")

	cmd.AddCommand(c.configThemesCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configThemesCommand creates the "config themes" subcommand.
func (c *CLI) configThemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range config.ThemeNames() {
				s, _ := config.Theme(name)
				fmt.Fprintf(w, "%-18s %s\n", name, swatches(s))
			}
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.settingsPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		theme string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the values of a theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			path, err := c.settingsPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning(w, "%s already exists (use --force to overwrite)", path)
				return nil
			}
			s, err := config.Theme(theme)
			if err != nil {
				return err
			}
			if err := config.Save(path, s); err != nil {
				return err
			}
			printSuccess(w, "Wrote %s settings", s.Theme)
			printFile(w, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "theme to start from")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) settingsPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

func printSettings(w io.Writer, s config.Settings) {
	fmt.Fprintln(w, StyleTitle.Render("Settings"))
	printKeyValue(w, "theme", s.Theme)
	printKeyValue(w, "node_width", ftoa(s.NodeWidth))
	printKeyValue(w, "node_height", ftoa(s.NodeHeight))
	printKeyValue(w, "h_spacing", ftoa(s.HSpacing))
	printKeyValue(w, "v_spacing", ftoa(s.VSpacing))
	printKeyValue(w, "hide_collapse_opacity", strconv.Itoa(s.HideCollapseOpacity))
	printKeyValue(w, "background", s.Background)
	printKeyValue(w, "node_border", strconv.FormatBool(s.NodeBorder))
	printKeyValue(w, "arrow_size", strconv.Itoa(s.ArrowSize))

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Nodes"))
	printKeyValue(w, "root", swatch(s.Nodes.Root))
	printKeyValue(w, "composite", swatch(s.Nodes.Composite))
	printKeyValue(w, "atomic", swatch(s.Nodes.Atomic))
	printKeyValue(w, "schema", swatch(s.Nodes.Schema))
	printKeyValue(w, "say", swatch(s.Nodes.Say))

	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleTitle.Render("Edges"))
	printKeyValue(w, "in", swatch(s.Edges.In.Color)+" "+s.Edges.In.Style)
	printKeyValue(w, "follows", swatch(s.Edges.Follows.Color)+" "+s.Edges.Follows.Style)
	printKeyValue(w, "user_defined", swatch(s.Edges.UserDefined.Color)+" "+s.Edges.UserDefined.Style)
}

// swatch renders a colour sample followed by its hex value.
func swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " " + hex
}

// swatches renders the node colours of a theme in kind order.
func swatches(s config.Settings) string {
	out := ""
	for _, hex := range []string{s.Nodes.Root, s.Nodes.Composite, s.Nodes.Atomic, s.Nodes.Schema, s.Nodes.Say} {
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
	}
	return out
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
