package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// App holds the application state and dependencies
type App struct {
	audio       *Audio
	transcriber Transcriber
	reports     *ReportWriter
	config      *Config
	ui          UIManager
	newID       func() string
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	cmdRunner := &DefaultCommandRunner{}

	audio := NewAudio(cmdRunner, config.Verbose)
	prompts := NewPromptManager(config.ConfigDir, config.Prompt)

	app := &App{
		audio:   audio,
		reports: NewReportWriter(config.ReportOptions()),
		config:  config,
		ui:      NewUIManager(config.Verbose, config.Quiet),
		newID:   uuid.NewString,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	if app.transcriber == nil {
		transcriber, err := NewTranscriber(config, app.audio, prompts, app.ui)
		if err != nil {
			return nil, err
		}
		app.transcriber = transcriber
	}

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithAudio sets a custom audio processor
func WithAudio(audio *Audio) AppOption {
	return func(a *App) {
		a.audio = audio
	}
}

// WithTranscriber sets a custom transcription provider
func WithTranscriber(t Transcriber) AppOption {
	return func(a *App) {
		a.transcriber = t
	}
}

// WithReportWriter sets a custom report writer
func WithReportWriter(w *ReportWriter) AppOption {
	return func(a *App) {
		a.reports = w
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// Config returns the configuration the app was built with
func (app *App) Config() *Config {
	return app.config
}

// Provider names the transcription provider in use
func (app *App) Provider() string {
	return app.transcriber.Name()
}

// NewJobID returns a fresh Job identifier
func (app *App) NewJobID() string {
	return app.newID()
}

// Run executes one Job: resolve, extract, transcribe, write. Every temporary
// file is removed before Run returns, whatever the outcome.
func (app *App) Run(ctx context.Context, req JobRequest) (*JobResult, error) {
	start := time.Now()

	job := Job{
		ID:          req.ID,
		SourcePath:  req.SourcePath,
		DisplayName: req.DisplayName,
		Status:      StatusQueued,
		CreatedAt:   start,
	}
	if job.ID == "" {
		job.ID = app.newID()
	}

	stage := func(s JobStatus) {
		job.Status = s
		if req.OnStage != nil {
			req.OnStage(s)
		}
	}
	fail := func(kind, err error) (*JobResult, error) {
		failedAt := job.Status
		stage(StatusFailed)
		return nil, newJobError(failedAt, kind, err)
	}

	stage(StatusResolving)
	src, err := ResolveInput(req.SourcePath)
	if err != nil {
		kind := ErrFileNotFound
		if errors.Is(err, ErrUnsupportedType) {
			kind = ErrUnsupportedType
		}
		return fail(kind, err)
	}
	job.Kind = src.Kind
	if job.DisplayName == "" {
		job.DisplayName = filepath.Base(src.Path)
	}

	ws, err := NewWorkspace(app.config.TempDir, job.ID)
	if err != nil {
		return fail(ErrExtraction, err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	audioFile := src.Path
	if src.Kind == MediaVideo {
		stage(StatusExtracting)
		job.TempAudioPath = ws.Path("audio.mp3")
		if err := app.audio.ExtractAudio(ctx, src.Path, job.TempAudioPath); err != nil {
			return fail(ErrExtraction, err)
		}
		audioFile = job.TempAudioPath
	}

	stage(StatusTranscribing)
	result, err := app.transcribe(ctx, audioFile, ws.Dir)
	if err != nil {
		return fail(ErrTranscription, err)
	}

	stage(StatusWriting)
	writer := app.reports
	if req.OutputDir != "" {
		writer = writer.WithOutputDir(req.OutputDir)
	}
	if req.ScopedOutput && !writer.opts.Timestamped {
		writer = writer.WithTimestamped(true)
	}
	report, err := writer.Write(job.DisplayName, result)
	if err != nil {
		return fail(ErrReport, err)
	}
	job.OutputDir = report.Dir

	stage(StatusDone)
	job.UpdatedAt = time.Now()

	return &JobResult{
		Job:           job,
		Transcription: result,
		Report:        report,
		Elapsed:       time.Since(start),
	}, nil
}

// transcribe makes the single blocking provider call, bounded by the
// configured timeout. There is no retry.
func (app *App) transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error) {
	if app.config.TranscribeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.TranscribeTimeout)
		defer cancel()
	}

	result, err := app.transcriber.Transcribe(ctx, audioFile, workDir)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s did not finish within %s: %w", app.transcriber.Name(), app.config.TranscribeTimeout, err)
		}
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%s returned no result", app.transcriber.Name())
	}
	if result.Failed() {
		msg := result.Error
		if msg == "" {
			msg = "service reported an error without a message"
		}
		return nil, fmt.Errorf("%s: %s", app.transcriber.Name(), msg)
	}
	return result, nil
}
