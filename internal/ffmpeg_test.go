package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHasAudioStream(t *testing.T) {
	tests := []struct {
		name     string
		probeOut string
		probeErr error
		want     bool
		wantErr  bool
	}{
		{"one stream", "1\n", nil, true, false},
		{"two streams", "1\n2\n", nil, true, false},
		{"no stream", "\n", nil, false, false},
		{"probe fails", "", errors.New("exit 1"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{probeOut: tt.probeOut, probeErr: tt.probeErr}
			got, err := NewAudio(runner, false).HasAudioStream(context.Background(), "in.mp4")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("HasAudioStream = %v, want %v", got, tt.want)
			}

			call := strings.Join(runner.calls[0], " ")
			if !strings.Contains(call, "-select_streams a") {
				t.Errorf("ffprobe call %q does not select audio streams", call)
			}
		})
	}
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "audio.mp3")

	runner := &fakeRunner{probeOut: "1\n"}
	if err := NewAudio(runner, false).ExtractAudio(context.Background(), "in.mp4", out); err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}

	if got := strings.Join(runner.commands(), ","); got != "ffprobe,ffmpeg" {
		t.Errorf("commands = %s", got)
	}
	args := strings.Join(runner.calls[1], " ")
	for _, want := range []string{"-i in.mp4", "-vn", "libmp3lame", "-y " + out} {
		if !strings.Contains(args, want) {
			t.Errorf("ffmpeg args %q missing %q", args, want)
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestExtractAudioNoTrack(t *testing.T) {
	runner := &fakeRunner{probeOut: ""}
	err := NewAudio(runner, false).ExtractAudio(context.Background(), "silent.mp4", filepath.Join(t.TempDir(), "a.mp3"))
	if !errors.Is(err, ErrNoAudioTrack) {
		t.Fatalf("err = %v, want ErrNoAudioTrack", err)
	}
	if got := runner.commands(); len(got) != 1 {
		t.Errorf("ffmpeg should not run without an audio track, commands = %v", got)
	}
}

func TestExtractAudioEmptyOutput(t *testing.T) {
	runner := &fakeRunner{probeOut: "1", extracted: []byte{}}
	err := NewAudio(runner, false).ExtractAudio(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "a.mp3"))
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("err = %v, want empty output error", err)
	}
}

func TestExtractAudioFFmpegFails(t *testing.T) {
	runner := &fakeRunner{probeOut: "1", ffmpegErr: errors.New("exit status 1")}
	err := NewAudio(runner, false).ExtractAudio(context.Background(), "in.mp4", filepath.Join(t.TempDir(), "a.mp3"))
	if err == nil || !strings.Contains(err.Error(), "ffmpeg failed") {
		t.Fatalf("err = %v", err)
	}
}
