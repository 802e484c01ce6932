package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const mcpInstructions = `tldl turns local meeting recordings into a transcript and a summary PDF.
Call summarize_media_file with an absolute path to an audio (.mp3 .wav .ogg .m4a) or video (.mp4 .mov .avi .mkv) file.
Transcription uses a paid speech-to-text API, so confirm with the user before summarizing long recordings.`

// MCPServer exposes the summarization pipeline as MCP tools
type MCPServer struct {
	app       *App
	logger    Logger
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, logger Logger, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"tldl",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(mcpInstructions),
	)

	s := &MCPServer{
		app:       app,
		logger:    logger,
		mcpServer: mcpServer,
	}
	s.registerTools()

	return s
}

func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("summarize_media_file",
		mcp.WithDescription("Transcribe a local audio or video recording and write a summary report (transcript.txt plus summary PDF). Returns the summary text and the paths of the written files. Uses a PAID transcription API."),
		mcp.WithString("path",
			mcp.Description("Path to the audio or video file"),
			mcp.Required(),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the report folder (defaults to the configured output_dir)"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	), s.handleSummarize)

	s.mcpServer.AddTool(mcp.NewTool("list_supported_formats",
		mcp.WithDescription("List the file extensions tldl accepts and the configured transcription provider."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleFormats)
}

func (s *MCPServer) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	path = CleanInputPath(path)
	outputDir := request.GetString("output_dir", "")

	s.logger.Info(ctx, "summarize_media_file: %s", path)
	result, err := s.app.Run(ctx, JobRequest{
		SourcePath: path,
		OutputDir:  outputDir,
		OnStage: func(status JobStatus) {
			s.logger.Debug(ctx, "%s: %s", path, status)
		},
	})
	if err != nil {
		s.logger.Error(ctx, "summarize_media_file failed for %s: %v", path, err)
		var jobErr *JobError
		if errors.As(err, &jobErr) {
			return mcp.NewToolResultErrorFromErr(fmt.Sprintf("%s during %s", ErrorKind(err), jobErr.Stage), err), nil
		}
		return mcp.NewToolResultErrorFromErr("summarization failed", err), nil
	}

	s.logger.Info(ctx, "summarize_media_file done in %s: %s", result.Elapsed.Round(time.Second), result.Report.Dir)
	return mcp.NewToolResultText(formatToolResult(result)), nil
}

func formatToolResult(result *JobResult) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Summary of %s:\n\n", result.Job.DisplayName)
	buf.WriteString(result.Transcription.SummaryOrFallback())
	buf.WriteString("\n\nFiles:\n")
	for _, p := range result.Report.Paths() {
		fmt.Fprintf(&buf, "- %s\n", p)
	}
	return buf.String()
}

func (s *MCPServer) handleFormats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("Supported extensions: %s\nProvider: %s\n",
		strings.Join(SupportedExtensions(), ", "), s.app.Provider())
	return mcp.NewToolResultText(text), nil
}

// Start serves over stdio or streamable HTTP until ctx is cancelled
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)

		errCh := make(chan error, 1)
		go func() {
			s.logger.Info(ctx, "MCP HTTP server listening on %s", addr)
			errCh <- httpServer.Start(addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		}
	}

	// stdout belongs to the protocol
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(log.New(os.Stderr, "[tldl-mcp] ", log.LstdFlags))
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
