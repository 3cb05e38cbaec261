package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/oddear/internal/assets"
	"github.com/zjrosen/oddear/internal/challenge"
	"github.com/zjrosen/oddear/internal/log"
	"github.com/zjrosen/oddear/internal/sound"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch and decode every clip in the sound pack",
	Long: `Fetch every clip the configured categories name and check that it decodes
as audio. Exits non-zero when any clip fails.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// clipCheck is the result for one clip.
type clipCheck struct {
	Category string
	Clip     string
	Format   sound.Format
	Err      error
}

// checkClips fetches and decodes every clip in category order.
func checkClips(ctx context.Context, src assets.Source, cats challenge.Categories) []clipCheck {
	var results []clipCheck
	for _, name := range cats.Names() {
		for _, clip := range cats[name] {
			res := clipCheck{Category: name, Clip: clip}
			data, err := src.Fetch(ctx, clip)
			if err == nil {
				var decoded *sound.Clip
				if decoded, err = sound.Decode(data); err == nil {
					res.Format = decoded.Format()
				}
			}
			if err != nil {
				log.ErrorErr(log.CatAssets, "Clip check failed", err, "clip", clip)
			}
			res.Err = err
			results = append(results, res)
		}
	}
	return results
}

// printChecks writes one line per clip and returns the failure count.
func printChecks(out io.Writer, results []clipCheck) int {
	maxLen := 0
	for _, r := range results {
		maxLen = max(maxLen, len(r.Clip))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "  FAIL  %-*s  %s\n", maxLen, r.Clip, r.Err)
			continue
		}
		_, _ = fmt.Fprintf(out, "  ok    %-*s  %s (%s)\n", maxLen, r.Clip, r.Format, r.Category)
	}
	return failed
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	pack, cats, from, err := openCategories(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = pack.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Checking %d clips (%s source, categories from %s)\n", cats.ClipCount(), pack.Kind, from)

	results := checkClips(cmd.Context(), pack.Source, cats)
	failed := printChecks(out, results)

	if failed > 0 {
		return fmt.Errorf("%d of %d clips failed", failed, len(results))
	}
	_, _ = fmt.Fprintln(out, "All clips OK")
	return nil
}
