package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// newApp applies the command's flags to config and builds the App
func newApp(cmd *cobra.Command) (*internal.App, error) {
	if err := internal.ApplyFlags(cmd, config); err != nil {
		return nil, err
	}
	if err := internal.ValidateProviderRequirements(config); err != nil {
		return nil, err
	}
	return internal.NewApp(config)
}

// summarizeFile runs one Job for path and presents the result in the terminal
func summarizeFile(cmd *cobra.Command, path string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	// usage is only useful for argument errors; SummarizeFile prints its own failure
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	_, err = app.SummarizeFile(cmd.Context(), internal.CleanInputPath(path), internal.PresentOptionsFromFlags(cmd))
	return err
}
