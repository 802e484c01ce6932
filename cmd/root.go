package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

var (
	config *internal.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tldl [audio or video file]",
	Short: "Too Long; Didn't Listen - meeting recording summarizer",
	Long: `TLDL (Too Long; Didn't Listen) turns a meeting recording into a transcript
and a one-page summary PDF.

Video files (.mp4 .mov .avi .mkv) have their audio track extracted with ffmpeg.
Audio files (.mp3 .wav .ogg .m4a) are sent as they are. The transcript and a
bullet-point summary come from AssemblyAI by default (OpenAI and Gemini are
also supported) and are written to a timestamped folder under output_dir.`,
	Example: `  # Summarize a recording
  tldl standup.mp4
  tldl "~/Recordings/all hands.m4a"

  # Write straight into a folder without a timestamped subfolder
  tldl standup.mp4 -o ./notes --no-timestamp

  # Use OpenAI instead of AssemblyAI and copy the summary
  tldl standup.mp4 --provider openai --copy

  # Also write a Word document
  tldl standup.mp4 --docx`,
	SilenceUsage: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return summarizeFile(cmd, args[0])
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Create a cancellable context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration with Viper
	config = internal.InitConfig()

	// Ensure XDG directories exist
	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir, config.TempDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	// Ensure default config exists in XDG config directory
	if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
	}

	// Ensure default prompt exists in XDG config directory
	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Cleaning up and shutting down...")

		// Running jobs observe the cancelled context and remove their workspaces
		cancel()

		// A second signal or a stuck job forces the exit
		select {
		case <-sigCh:
		case <-time.After(15 * time.Second):
		}

		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cleanupCancel()

		cleanupDone := make(chan struct{})
		go func() {
			if err := internal.CleanupWorkspaces(); err != nil {
				fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-cleanupCtx.Done():
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(130)
	}()

	// Set context on root command
	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddProviderFlags(rootCmd)
	internal.AddReportFlags(rootCmd)
	internal.AddPresentFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors")
}
