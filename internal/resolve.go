package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	videoExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}
	audioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a"}
)

// ClassifyExtension maps a file name to its media kind by extension.
func ClassifyExtension(name string) MediaKind {
	ext := strings.ToLower(filepath.Ext(name))
	for _, v := range videoExtensions {
		if ext == v {
			return MediaVideo
		}
	}
	for _, a := range audioExtensions {
		if ext == a {
			return MediaAudio
		}
	}
	return MediaUnknown
}

// SupportedExtensions lists every accepted extension, video first
func SupportedExtensions() []string {
	return append(append([]string{}, videoExtensions...), audioExtensions...)
}

// ResolveInput checks that path is an existing regular file of a supported type.
func ResolveInput(path string) (Source, error) {
	if path == "" {
		return Source{}, fmt.Errorf("%w: empty path", ErrFileNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Source{}, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	kind := ClassifyExtension(path)
	if kind == MediaUnknown {
		return Source{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedType,
			filepath.Ext(path), strings.Join(SupportedExtensions(), ", "))
	}

	return Source{Path: path, Kind: kind}, nil
}

// CleanInputPath trims whitespace and one pair of surrounding quotes, as pasted from a file manager.
func CleanInputPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
