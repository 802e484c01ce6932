package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// cleanCmd removes job workspaces left behind by a killed process
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove leftover temporary job files",
	Example: `  # Remove stale workspaces after a crash
  tldl clean`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := internal.CleanupTempDir(config.TempDir)
		if err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Printf("Removed %d leftover workspace(s) from %s\n", removed, config.TempDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
