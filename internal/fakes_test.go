package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeRunner answers ffprobe/ffmpeg calls without running anything
type fakeRunner struct {
	mu        sync.Mutex
	calls     [][]string
	probeOut  string
	probeErr  error
	ffmpegErr error
	// audio written to the ffmpeg output file
	extracted []byte
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch filepath.Base(name) {
	case "ffprobe":
		return []byte(r.probeOut), r.probeErr
	case "ffmpeg":
		if r.ffmpegErr != nil {
			return []byte("boom"), r.ffmpegErr
		}
		out := args[len(args)-1]
		data := r.extracted
		if data == nil {
			data = []byte("ID3 fake mp3")
		}
		return nil, os.WriteFile(out, data, 0644)
	}
	return nil, errors.New("unexpected command " + name)
}

func (r *fakeRunner) commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, c := range r.calls {
		names = append(names, c[0])
	}
	return names
}

// fakeTranscriber returns a canned result and records what it was given
type fakeTranscriber struct {
	mu      sync.Mutex
	result  *TranscriptionResult
	err     error
	files   []string
	existed []bool
	called  chan string
}

func (f *fakeTranscriber) Name() string { return "fake" }

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error) {
	_, statErr := os.Stat(audioFile)

	f.mu.Lock()
	f.files = append(f.files, audioFile)
	f.existed = append(f.existed, statErr == nil)
	f.mu.Unlock()

	if f.called != nil {
		select {
		case f.called <- audioFile:
		default:
		}
	}

	if f.err != nil {
		return nil, f.err
	}
	if f.result == nil {
		return nil, nil
	}
	res := *f.result
	return &res, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

func completedResult(text, summary string) *TranscriptionResult {
	return &TranscriptionResult{
		ID:      "tr_1",
		Status:  TranscriptCompleted,
		Text:    text,
		Summary: summary,
	}
}

// testConfig points every directory into t.TempDir()
func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	return &Config{
		Provider:          ProviderAssemblyAI,
		AssemblyAIAPIKey:  "test-key",
		OutputDir:         filepath.Join(root, "out"),
		TimestampedOutput: true,
		SummaryTitle:      "Meeting Summary",
		Terms:             DefaultTerms,
		Formats:           []string{"pdf"},
		MaxUploadMB:       10,
		MaxConcurrent:     2,
		LogLevel:          "error",
		Quiet:             true,
		ConfigDir:         filepath.Join(root, "config"),
		CacheDir:          filepath.Join(root, "cache"),
		TempDir:           filepath.Join(root, "cache", "jobs"),
	}
}

func newTestApp(t *testing.T, config *Config, runner CommandRunner, tr Transcriber) *App {
	t.Helper()
	app, err := NewApp(config,
		WithAudio(NewAudio(runner, false)),
		WithTranscriber(tr),
	)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// dirEntries lists names in dir, or nil when it does not exist
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

// recordingUI keeps what was printed and every progress value set
type recordingUI struct {
	mu       sync.Mutex
	sets     []int
	finished int
	failures []string
}

func (u *recordingUI) NewSpinner(description string) ProgressBar { return &recordingBar{ui: u} }

func (u *recordingUI) NewProgressBar(total int, description string) ProgressBar {
	return &recordingBar{ui: u}
}

func (u *recordingUI) Verbose(format string, args ...interface{}) {}
func (u *recordingUI) Printf(format string, args ...interface{})  {}
func (u *recordingUI) Println(args ...interface{})                {}
func (u *recordingUI) Success(format string, args ...interface{}) {}

func (u *recordingUI) Failure(format string, args ...interface{}) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failures = append(u.failures, fmt.Sprintf(format, args...))
}

type recordingBar struct {
	ui *recordingUI
}

func (b *recordingBar) Set(current int) {
	b.ui.mu.Lock()
	defer b.ui.mu.Unlock()
	b.ui.sets = append(b.ui.sets, current)
}

func (b *recordingBar) Advance()                    {}
func (b *recordingBar) Describe(description string) {}

func (b *recordingBar) Finish() {
	b.ui.mu.Lock()
	defer b.ui.mu.Unlock()
	b.ui.finished++
}
