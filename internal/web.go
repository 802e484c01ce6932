package internal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxStoredJobs = 200

// WebServer is the upload front end: a form, background jobs and downloads.
type WebServer struct {
	app         *App
	store       *JobStore
	logger      Logger
	highlighter *Highlighter
	echo        *echo.Echo
	slots       chan struct{}
	jobs        sync.WaitGroup

	// jobCtx outlives individual requests; cancelled on shutdown
	jobCtx    context.Context
	cancelJob context.CancelFunc
}

type templateRenderer struct {
	templates *template.Template
}

func (t *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type indexPage struct {
	Error       string
	Extensions  string
	Accept      string
	Provider    string
	MaxUploadMB int
	Jobs        []JobRecord
}

type jobPage struct {
	Job        JobRecord
	Title      string
	Paragraphs []template.HTML
}

// NewWebServer wires routes for app
func NewWebServer(app *App, logger Logger) *WebServer {
	config := app.Config()

	concurrent := config.MaxConcurrent
	if concurrent < 1 {
		concurrent = 1
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	s := &WebServer{
		app:         app,
		store:       NewJobStore(maxStoredJobs),
		logger:      logger,
		highlighter: NewHighlighter(config.Terms),
		slots:       make(chan struct{}, concurrent),
		jobCtx:      jobCtx,
		cancelJob:   cancel,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)

	e.GET("/", s.handleIndex)
	e.POST("/jobs", s.handleUpload, middleware.BodyLimit(fmt.Sprintf("%dM", max(config.MaxUploadMB, 1))))
	e.GET("/jobs/:id", s.handleJob)
	e.GET("/jobs/:id/transcript", s.handleDownload)
	e.GET("/jobs/:id/summary", s.handleDownload)
	e.GET("/jobs/:id/docx", s.handleDownload)
	e.GET("/api/jobs", s.handleListJSON)
	e.GET("/api/jobs/:id", s.handleJobJSON)

	s.echo = e
	return s
}

// Handler exposes the router, mainly for tests
func (s *WebServer) Handler() http.Handler {
	return s.echo
}

// Store returns the job store
func (s *WebServer) Store() *JobStore {
	return s.store
}

// Start serves on addr until ctx is cancelled, then stops accepting uploads,
// cancels running jobs and waits for them to clean up.
func (s *WebServer) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Listening on http://%s", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		s.cancelJob()
		s.jobs.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(ctx, "Shutdown error: %v", err)
	}
	s.cancelJob()
	s.jobs.Wait()
	return nil
}

// Wait blocks until all background jobs have finished
func (s *WebServer) Wait() {
	s.jobs.Wait()
}

func (s *WebServer) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug(c.Request().Context(), "%s %s %d %s",
			c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start).Round(time.Millisecond))
		return nil
	}
}

func (s *WebServer) indexPage(errMsg string) indexPage {
	exts := SupportedExtensions()
	return indexPage{
		Error:       errMsg,
		Extensions:  strings.Join(exts, " "),
		Accept:      strings.Join(exts, ","),
		Provider:    s.app.Provider(),
		MaxUploadMB: s.app.Config().MaxUploadMB,
		Jobs:        s.store.List(),
	}
}

func (s *WebServer) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", s.indexPage(""))
}

func (s *WebServer) handleUpload(c echo.Context) error {
	ctx := c.Request().Context()

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Render(http.StatusBadRequest, "index.html", s.indexPage("Choose a file to upload."))
	}

	name := filepath.Base(fh.Filename)
	if ClassifyExtension(name) == MediaUnknown {
		msg := fmt.Sprintf("%s: %q is not a supported file type.", ErrorKind(ErrUnsupportedType), filepath.Ext(name))
		return c.Render(http.StatusBadRequest, "index.html", s.indexPage(msg))
	}

	id := s.app.NewJobID()
	upload, err := NewWorkspace(s.app.Config().TempDir, "upload-"+id)
	if err != nil {
		s.logger.Error(ctx, "Creating upload workspace: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store upload")
	}

	dst := upload.Path("source" + strings.ToLower(filepath.Ext(name)))
	if err := saveUpload(fh, dst); err != nil {
		_ = upload.Cleanup()
		s.logger.Error(ctx, "Saving upload %s: %v", name, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not store upload")
	}

	if _, err := s.store.Create(id, dst, name); err != nil {
		_ = upload.Cleanup()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s.logger.Info(ctx, "Job %s queued for %s (%d bytes)", id, name, fh.Size)
	s.jobs.Add(1)
	go s.runJob(id, dst, name, upload)

	return c.Redirect(http.StatusSeeOther, "/jobs/"+id)
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// runJob waits for a free slot, runs the pipeline and removes the upload
func (s *WebServer) runJob(id, path, name string, upload *Workspace) {
	defer s.jobs.Done()
	defer func() {
		if err := upload.Cleanup(); err != nil {
			s.logger.Warn(s.jobCtx, "Cleaning up upload of job %s: %v", id, err)
		}
	}()

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-s.jobCtx.Done():
		_ = s.store.Fail(id, s.jobCtx.Err())
		return
	}

	result, err := s.app.Run(s.jobCtx, JobRequest{
		ID:           id,
		SourcePath:   path,
		DisplayName:  name,
		ScopedOutput: true,
		OnStage: func(status JobStatus) {
			if err := s.store.Transition(id, status); err != nil {
				s.logger.Warn(s.jobCtx, "Job %s: %v", id, err)
			}
		},
	})
	if err != nil {
		s.logger.Error(s.jobCtx, "Job %s failed: %v", id, err)
		if ferr := s.store.Fail(id, err); ferr != nil {
			s.logger.Warn(s.jobCtx, "Job %s: %v", id, ferr)
		}
		return
	}

	s.logger.Info(s.jobCtx, "Job %s done in %s: %s", id, result.Elapsed.Round(time.Second), result.Report.Dir)
	if err := s.store.Complete(id, result); err != nil {
		s.logger.Warn(s.jobCtx, "Job %s: %v", id, err)
	}
}

func (s *WebServer) lookup(c echo.Context) (JobRecord, error) {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return JobRecord{}, echo.NewHTTPError(http.StatusNotFound, "job not found")
	}
	return rec, nil
}

func (s *WebServer) handleJob(c echo.Context) error {
	rec, err := s.lookup(c)
	if err != nil {
		return err
	}

	page := jobPage{Job: rec, Title: s.app.Config().SummaryTitle}
	if rec.Status == StatusDone {
		for _, p := range Paragraphs(rec.Summary) {
			// Markup escapes everything except its own <b> tags
			page.Paragraphs = append(page.Paragraphs, template.HTML(s.highlighter.Markup(p)))
		}
	}
	return c.Render(http.StatusOK, "job.html", page)
}

func (s *WebServer) handleDownload(c echo.Context) error {
	rec, err := s.lookup(c)
	if err != nil {
		return err
	}
	if rec.Status != StatusDone || rec.Report == nil {
		return echo.NewHTTPError(http.StatusNotFound, "report not ready")
	}

	stem := ReportStem(rec.DisplayName)
	path := c.Path()
	switch {
	case strings.HasSuffix(path, "/transcript"):
		return c.Attachment(rec.Report.TranscriptPath, stem+"_transcript.txt")
	case strings.HasSuffix(path, "/summary"):
		return c.Attachment(rec.Report.SummaryPath, stem+"_summary.pdf")
	case strings.HasSuffix(path, "/docx") && rec.Report.DocxPath != "":
		return c.Attachment(rec.Report.DocxPath, stem+"_summary.docx")
	}
	return echo.NewHTTPError(http.StatusNotFound, "artifact not found")
}

type jobJSON struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	OutputDir string    `json:"output_dir,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toJobJSON(rec JobRecord) jobJSON {
	return jobJSON{
		ID:        rec.ID,
		File:      rec.DisplayName,
		Status:    rec.Status,
		Error:     rec.Err,
		ErrorKind: rec.ErrorKind,
		OutputDir: rec.OutputDir,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func (s *WebServer) handleJobJSON(c echo.Context) error {
	rec, err := s.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobJSON(rec))
}

func (s *WebServer) handleListJSON(c echo.Context) error {
	recs := s.store.List()
	out := make([]jobJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toJobJSON(rec))
	}
	return c.JSON(http.StatusOK, out)
}
