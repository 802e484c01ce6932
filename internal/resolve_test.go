package internal

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestClassifyExtension(t *testing.T) {
	tests := []struct {
		name string
		want MediaKind
	}{
		{"meeting.mp4", MediaVideo},
		{"meeting.MOV", MediaVideo},
		{"clip.avi", MediaVideo},
		{"clip.mkv", MediaVideo},
		{"call.mp3", MediaAudio},
		{"call.WAV", MediaAudio},
		{"call.ogg", MediaAudio},
		{"call.m4a", MediaAudio},
		{"notes.txt", MediaUnknown},
		{"noext", MediaUnknown},
		{"archive.mp4.zip", MediaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyExtension(tt.name); got != tt.want {
				t.Errorf("ClassifyExtension(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveInput(t *testing.T) {
	dir := t.TempDir()
	audio := writeFile(t, filepath.Join(dir, "call.mp3"), "audio")
	video := writeFile(t, filepath.Join(dir, "Meeting.MP4"), "video")
	text := writeFile(t, filepath.Join(dir, "notes.txt"), "text")

	tests := []struct {
		name     string
		path     string
		wantKind MediaKind
		wantErr  error
	}{
		{"audio", audio, MediaAudio, nil},
		{"video uppercase ext", video, MediaVideo, nil},
		{"unsupported", text, MediaUnknown, ErrUnsupportedType},
		{"missing", filepath.Join(dir, "gone.mp4"), MediaUnknown, ErrFileNotFound},
		{"directory", dir, MediaUnknown, ErrFileNotFound},
		{"empty", "", MediaUnknown, ErrFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ResolveInput(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src.Kind != tt.wantKind || src.Path != tt.path {
				t.Errorf("got %+v, want kind %s path %s", src, tt.wantKind, tt.path)
			}
		})
	}
}

func TestCleanInputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/tmp/a.mp4", "/tmp/a.mp4"},
		{"  /tmp/a.mp4\n", "/tmp/a.mp4"},
		{`"/tmp/my file.mp4"`, "/tmp/my file.mp4"},
		{`'/tmp/my file.mp4'`, "/tmp/my file.mp4"},
		{`"/tmp/a.mp4'`, `"/tmp/a.mp4'`},
		{`""`, ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanInputPath(tt.in); got != tt.want {
			t.Errorf("CleanInputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSupportedExtensionsIsCopy(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != 8 {
		t.Fatalf("len = %d, want 8", len(exts))
	}
	exts[0] = ".exe"
	if ClassifyExtension("x.mp4") != MediaVideo {
		t.Fatal("mutating the returned slice changed classification")
	}
}
