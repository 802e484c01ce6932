package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [audio or video file]",
	Short: "Transcribe a recording and write the summary report",
	Example: `  # Summarize a recording (same as "tldl standup.mp4")
  tldl summarize standup.mp4

  # Use Gemini with a specific model
  tldl summarize standup.mp4 --provider gemini --model gemini-2.5-pro

  # Use a custom summary prompt (openai/gemini)
  tldl summarize standup.mp4 --provider openai --prompt "Action items only: {{.Transcript}}"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return summarizeFile(cmd, args[0])
	},
}

func init() {
	internal.AddProviderFlags(summarizeCmd)
	internal.AddReportFlags(summarizeCmd)
	internal.AddPresentFlags(summarizeCmd)
	rootCmd.AddCommand(summarizeCmd)
}
