package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// watchCmd summarizes every recording dropped into a directory
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Summarize new recordings as they appear in a directory",
	Example: `  # Watch a drop folder
  tldl watch ~/Recordings

  # Put reports next to the recordings
  tldl watch ~/Recordings -o ~/Recordings/summaries`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		settle, _ := cmd.Flags().GetDuration("settle")

		level := config.LogLevel
		if config.Verbose {
			level = "debug"
		}
		logger := internal.NewLogger(os.Stderr, level, "tldl-watch")

		return internal.NewWatcher(app, dir, logger, settle).Start(cmd.Context())
	},
}

func init() {
	internal.AddProviderFlags(watchCmd)
	internal.AddReportFlags(watchCmd)
	watchCmd.Flags().Duration("settle", internal.DefaultSettleDelay, "How long a file must stop growing before it is processed")
	rootCmd.AddCommand(watchCmd)
}
