package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/challenge"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List sound categories and their clips",
	Long:  `Display the categories a challenge draws from, either from the config file or from the sound pack's ` + assets.ManifestName + `.`,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

// openCategories opens the configured sound pack and resolves the categories.
// Inline categories win over the pack manifest. The caller closes the pack.
func openCategories(ctx context.Context) (*assets.Pack, challenge.Categories, string, error) {
	pack, err := assets.Open(cfg.AssetOptions())
	if err != nil {
		return nil, nil, "", fmt.Errorf("opening sound pack: %w", err)
	}

	if cats := cfg.InlineCategories(); cats != nil {
		return pack, cats, "config", nil
	}
	cats, err := pack.Categories(ctx)
	if err != nil {
		_ = pack.Close()
		return nil, nil, "", err
	}
	return pack, cats, assets.ManifestName, nil
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	pack, cats, from, err := openCategories(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = pack.Close() }()

	out := cmd.OutOrStdout()
	names := cats.Names()

	maxLen := 0
	for _, name := range names {
		maxLen = max(maxLen, len(name))
	}

	_, _ = fmt.Fprintf(out, "Categories (%s source, from %s):\n", pack.Kind, from)
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  %-*s  %d clips\n", maxLen, name, len(cats[name]))
		for _, clip := range cats[name] {
			_, _ = fmt.Fprintf(out, "  %-*s    %s\n", maxLen, "", clip)
		}
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%d categories, %d clips\n", len(names), cats.ClipCount())
	return nil
}
