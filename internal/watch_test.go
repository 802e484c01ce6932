package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherProcessesNewMedia(t *testing.T) {
	config := testConfig(t)
	tr := &fakeTranscriber{
		result: completedResult("t", "s"),
		called: make(chan string, 4),
	}
	app := newTestApp(t, config, &fakeRunner{}, tr)

	dir := t.TempDir()
	w := NewWatcher(app, dir, NopLogger(), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeFile(t, filepath.Join(dir, ".partial.mp3"), "ignored")
	media := writeFile(t, filepath.Join(dir, "standup.mp3"), "audio")

	select {
	case got := <-tr.called:
		if got != media {
			t.Errorf("transcribed %s, want %s", got, media)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not pick up the new file")
	}

	// wait for the report before stopping
	deadline := time.Now().Add(5 * time.Second)
	for len(dirEntries(t, config.OutputDir)) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}

	if n := tr.callCount(); n != 1 {
		t.Errorf("transcriber called %d times, want 1", n)
	}
	if names := dirEntries(t, config.OutputDir); len(names) != 1 {
		t.Errorf("reports = %v, want one folder", names)
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	config := testConfig(t)
	app := newTestApp(t, config, &fakeRunner{}, &fakeTranscriber{})

	w := NewWatcher(app, filepath.Join(t.TempDir(), "missing"), NopLogger(), time.Millisecond)
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestWaitUntilStable(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.mp3"), "data")
	if err := waitUntilStable(context.Background(), path, time.Millisecond); err != nil {
		t.Fatalf("waitUntilStable: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitUntilStable(ctx, path, time.Hour); err == nil {
		t.Fatal("expected cancellation error")
	}

	empty := writeFile(t, filepath.Join(t.TempDir(), "empty.mp3"), "")
	if err := waitUntilStable(context.Background(), empty, time.Millisecond); !errors.Is(err, errEmptyFile) {
		t.Fatalf("empty file: err = %v, want errEmptyFile", err)
	}

	if err := waitUntilStable(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), time.Millisecond); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestWatcherSkipsEmptyFileUntilWritten(t *testing.T) {
	config := testConfig(t)
	tr := &fakeTranscriber{
		result: completedResult("t", "s"),
		called: make(chan string, 4),
	}
	app := newTestApp(t, config, &fakeRunner{}, tr)

	dir := t.TempDir()
	w := NewWatcher(app, dir, NopLogger(), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	time.Sleep(100 * time.Millisecond)

	media := writeFile(t, filepath.Join(dir, "later.mp3"), "")

	pending := func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.pending[media]
	}
	// the Create event has to be seen before the pending check means anything
	time.Sleep(50 * time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for pending() && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if pending() {
		t.Fatal("empty file still pending")
	}
	if n := tr.callCount(); n != 0 {
		t.Fatalf("empty file transcribed %d times", n)
	}

	writeFile(t, media, "audio")
	select {
	case got := <-tr.called:
		if got != media {
			t.Errorf("transcribed %s, want %s", got, media)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("file not processed after it was written")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}
}
