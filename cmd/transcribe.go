package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// transcribeCmd runs a Job and prints the full transcript instead of the summary
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio or video file]",
	Short: "Print the full transcript of a recording",
	Example: `  # Print the transcript
  tldl transcribe standup.mp4

  # Save the transcript to a file
  tldl transcribe standup.mp4 --save transcript.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		result, err := app.Run(cmd.Context(), internal.JobRequest{
			SourcePath: internal.CleanInputPath(args[0]),
		})
		if err != nil {
			return err
		}

		if !config.Quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", result.Report.Dir)
		}

		saveFile, _ := cmd.Flags().GetString("save")
		if saveFile != "" {
			return os.WriteFile(saveFile, []byte(result.Transcription.Text), 0644)
		}

		fmt.Println(result.Transcription.Text)
		return nil
	},
}

func init() {
	internal.AddProviderFlags(transcribeCmd)
	internal.AddReportFlags(transcribeCmd)
	transcribeCmd.Flags().String("save", "", "Also save the transcript to this file")
	rootCmd.AddCommand(transcribeCmd)
}
