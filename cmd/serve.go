package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// serveCmd runs the web upload front end
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web upload interface",
	Long: `Run a small web server where recordings can be uploaded from a browser.

Each upload becomes a background job (at most max_concurrent run at once).
The job page refreshes until the summary is ready and links the transcript,
the summary PDF and, when enabled, the Word document.`,
	Example: `  # Serve on the configured address (default 127.0.0.1:8080)
  tldl serve

  # Listen on all interfaces
  tldl serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		addr := config.ServeAddr
		if f := cmd.Flags().Lookup("addr"); f != nil && f.Changed {
			addr = f.Value.String()
		}

		level := config.LogLevel
		if config.Verbose {
			level = "debug"
		}
		logger := internal.NewLogger(os.Stderr, level, "tldl-web")

		return internal.NewWebServer(app, logger).Start(cmd.Context(), addr)
	},
}

func init() {
	internal.AddProviderFlags(serveCmd)
	internal.AddReportFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from serve_addr)")
	rootCmd.AddCommand(serveCmd)
}
