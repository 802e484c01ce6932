package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  tldl paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Job workspaces: %s\n", config.TempDir)
		fmt.Printf("MCP log file: %s\n", filepath.Join(config.CacheDir, "tldl.log"))
		fmt.Printf("Output directory: %s\n", config.OutputDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
