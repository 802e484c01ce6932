package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtzll/tldl/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server for TL;DL",
	Long: `Run a Model Context Protocol (MCP) server that exposes TL;DL as tools.

Tools:
- summarize_media_file: transcribe a local recording and write the summary report
- list_supported_formats: accepted file extensions and the active provider

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)

Logs go to $XDG_CACHE_HOME/tldl/tldl.log because stdout carries the protocol.`,
	Example: `  # Run MCP server with stdio transport
  tldl mcp

  # Run MCP server with HTTP transport on port 8080
  tldl mcp --transport=http --port=8080`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so nothing may print to stdout
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != "stdio" && transport != "http" {
			return fmt.Errorf("unknown transport %q (use stdio or http)", transport)
		}

		logger, closer, err := internal.NewFileLogger(filepath.Join(config.CacheDir, "tldl.log"), config.LogLevel, "tldl-mcp")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			logger = internal.NopLogger()
		} else {
			defer closer.Close()
		}

		app, err := newApp(cmd)
		if err != nil {
			logger.Error(context.Background(), "Starting MCP server: %v", err)
			return err
		}

		logger.Info(cmd.Context(), "Starting MCP server (transport: %s, provider: %s)", transport, app.Provider())
		return internal.NewMCPServer(app, logger, version).Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	internal.AddProviderFlags(mcpCmd)
	internal.AddReportFlags(mcpCmd)
	rootCmd.AddCommand(mcpCmd)
}
