package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// askCmd prompts for the recording instead of taking it as an argument
var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask for a recording path, then summarize it",
	Example: `  # Prompt for a file (paste or drag and drop a path)
  tldl ask

  # Read the path from stdin
  echo "/path/to/meeting.mp4" | tldl ask`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			path string
			err  error
		)
		if internal.IsInteractive() {
			path, err = internal.AskForPath(cmd.Context())
		} else {
			if !config.Quiet {
				fmt.Fprint(os.Stderr, "Enter the path to your audio or video file: ")
			}
			path, err = internal.ReadPath(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		return summarizeFile(cmd, path)
	},
}

func init() {
	internal.AddProviderFlags(askCmd)
	internal.AddReportFlags(askCmd)
	internal.AddPresentFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
