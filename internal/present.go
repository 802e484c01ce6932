package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// PreviewChars is how much of the transcript is echoed after a run
const PreviewChars = 500

// PresentOptions controls what the interactive adapters print
type PresentOptions struct {
	OutputDir   string
	Copy        bool
	NoRender    bool
	ShowPreview bool
}

// SummarizeFile runs a Job for path behind a spinner and prints the summary,
// a transcript preview and the artifact paths.
func (app *App) SummarizeFile(ctx context.Context, path string, opts PresentOptions) (*JobResult, error) {
	spinner := app.ui.NewSpinner(StatusResolving.Label())

	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				mu.Lock()
				spinner.Advance()
				mu.Unlock()
			}
		}
	}()

	result, err := app.Run(ctx, JobRequest{
		SourcePath: path,
		OutputDir:  opts.OutputDir,
		OnStage: func(s JobStatus) {
			mu.Lock()
			spinner.Describe(s.Label())
			mu.Unlock()
			app.ui.Verbose("[%s] %s\n", s, s.Label())
		},
	})

	close(done)
	mu.Lock()
	spinner.Finish()
	mu.Unlock()

	if err != nil {
		app.ui.Failure("Error: %v", err)
		return nil, err
	}

	app.presentResult(result, opts)
	return result, nil
}

func (app *App) presentResult(result *JobResult, opts PresentOptions) {
	summary := result.Transcription.SummaryOrFallback()

	app.ui.Success("Processed %s in %s", result.Job.SourcePath, result.Elapsed.Round(time.Second))
	app.ui.Println()

	rendered := summary
	if !opts.NoRender {
		if md, err := RenderMarkdown(summary); err == nil {
			rendered = md
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	app.ui.Println(Label("Summary"))
	app.ui.Println(strings.TrimRight(rendered, "\n"))
	app.ui.Println()

	if opts.ShowPreview {
		app.ui.Println(Label(fmt.Sprintf("Transcript (first %d characters)", PreviewChars)))
		app.ui.Println(result.Preview(PreviewChars))
		app.ui.Println()
	}

	app.ui.Printf("%s %s\n", Label("Transcript:"), result.Report.TranscriptPath)
	app.ui.Printf("%s %s\n", Label("Summary PDF:"), result.Report.SummaryPath)
	if result.Report.DocxPath != "" {
		app.ui.Printf("%s %s\n", Label("Summary DOCX:"), result.Report.DocxPath)
	}

	if opts.Copy {
		if err := clipboard.WriteAll(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to copy summary to clipboard: %v\n", err)
		} else {
			app.ui.Success("Summary copied to clipboard")
		}
	}
}
