package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// checkCmd verifies external tools and credentials
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that ffmpeg, ffprobe and the provider API key are available",
	Example: `  # Check the default provider
  tldl check

  # Check what the gemini provider needs
  tldl check --provider gemini`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyFlags(cmd, config); err != nil {
			return err
		}

		report := internal.CheckSetup(cmd.Context(), &internal.DefaultCommandRunner{}, config)

		for _, dep := range report.Deps {
			if dep.Installed {
				fmt.Printf("%s %s: %s\n", internal.Label("[ok]"), dep.Name, dep.Version)
				continue
			}
			fmt.Printf("%s %s: not found on PATH (needed for video files)\n", internal.Label("[missing]"), dep.Name)
		}

		if report.KeyPresent {
			fmt.Printf("%s %s (%s)\n", internal.Label("[ok]"), report.KeyEnv, report.Provider)
		} else {
			fmt.Printf("%s %s is not set (%s)\n", internal.Label("[missing]"), report.KeyEnv, report.Provider)
		}

		if report.ConfigFound {
			fmt.Printf("Config file: %s\n", report.ConfigFile)
		} else {
			fmt.Printf("Config file: none (using defaults)\n")
		}
		fmt.Printf("Output directory: %s\n", report.OutputDir)

		if !report.OK() {
			cmd.SilenceUsage = true
			return fmt.Errorf("setup incomplete")
		}
		fmt.Println("All set.")
		return nil
	},
}

func init() {
	checkCmd.Flags().String("provider", "", "Provider to check (default from config)")
	rootCmd.AddCommand(checkCmd)
}
