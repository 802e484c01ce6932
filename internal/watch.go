package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettleDelay is how long a new file must stop growing before it is processed
const DefaultSettleDelay = 2 * time.Second

// Watcher runs a Job for every media file dropped into a directory.
type Watcher struct {
	app         *App
	dir         string
	logger      Logger
	settleDelay time.Duration
	slots       chan struct{}
	wg          sync.WaitGroup

	mu      sync.Mutex
	pending map[string]bool
}

// NewWatcher creates a watcher for dir. Concurrency follows config.MaxConcurrent.
func NewWatcher(app *App, dir string, logger Logger, settleDelay time.Duration) *Watcher {
	concurrent := app.Config().MaxConcurrent
	if concurrent < 1 {
		concurrent = 1
	}
	return &Watcher{
		app:         app,
		dir:         dir,
		logger:      logger,
		settleDelay: settleDelay,
		slots:       make(chan struct{}, concurrent),
		pending:     make(map[string]bool),
	}
}

// Start monitors the directory until ctx is cancelled, then waits for running jobs.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	w.logger.Info(ctx, "Watching %s (max concurrent: %d)", w.dir, cap(w.slots))
	w.logger.Info(ctx, "Supported formats: %s", strings.Join(SupportedExtensions(), ", "))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for running jobs to finish...")
			w.wg.Wait()
			w.logger.Info(ctx, "Watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			w.consider(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// consider schedules path once, ignoring hidden files and unsupported types
func (w *Watcher) consider(ctx context.Context, path string) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return
	}
	if ClassifyExtension(path) == MediaUnknown {
		w.logger.Debug(ctx, "Ignoring unsupported file: %s", path)
		return
	}

	w.mu.Lock()
	if w.pending[path] {
		w.mu.Unlock()
		return
	}
	w.pending[path] = true
	w.mu.Unlock()

	w.logger.Info(ctx, "New file detected: %s", path)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.pending, path)
			w.mu.Unlock()
		}()

		if err := waitUntilStable(ctx, path, w.settleDelay); err != nil {
			if errors.Is(err, errEmptyFile) {
				// a later write event brings it back
				w.logger.Info(ctx, "Skipping empty file: %s", path)
				return
			}
			w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return
		}

		select {
		case w.slots <- struct{}{}:
			defer func() { <-w.slots }()
		case <-ctx.Done():
			return
		}

		w.process(ctx, path)
	}()
}

func (w *Watcher) process(ctx context.Context, path string) {
	result, err := w.app.Run(ctx, JobRequest{
		SourcePath:   path,
		ScopedOutput: true,
		OnStage: func(s JobStatus) {
			w.logger.Debug(ctx, "%s: %s", filepath.Base(path), s)
		},
	})
	if err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		return
	}
	w.logger.Info(ctx, "Processed %s in %s -> %s", filepath.Base(path), result.Elapsed.Round(time.Second), result.Report.Dir)
}

// Wait blocks until all scheduled jobs have finished
func (w *Watcher) Wait() {
	w.wg.Wait()
}

// errEmptyFile is returned for a file that stayed at zero bytes for a settle period
var errEmptyFile = errors.New("file is empty")

// waitUntilStable returns once the file size stops changing for delay
func waitUntilStable(ctx context.Context, path string, delay time.Duration) error {
	var lastSize int64 = -1
	for {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			if lastSize == 0 {
				return errEmptyFile
			}
			return nil
		}
		lastSize = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
