package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/oddear/internal/ui/styles"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List built-in theme presets",
	RunE:  runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	names := styles.PresetNames()

	maxLen := 0
	for _, name := range names {
		maxLen = max(maxLen, len(name))
	}

	_, _ = fmt.Fprintln(out, "Theme presets:")
	for _, name := range names {
		marker := " "
		if name == cfg.Theme.Preset || (cfg.Theme.Preset == "" && name == "default") {
			marker = "*"
		}
		_, _ = fmt.Fprintf(out, "%s %-*s  %s\n", marker, maxLen, name, styles.Presets[name].Description)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Set theme.preset in your config file to switch.")
	return nil
}
