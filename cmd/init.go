package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/oddear/internal/config"
)

var (
	initLocal bool
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Write a commented config file with the default settings to
~/.config/oddear/config.yaml, or ./.oddear.yaml with --local.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initLocal, "local", false, "write ./.oddear.yaml instead of the user config")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if initLocal {
		path = ".oddear.yaml"
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
