package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrNoInput is returned when the prompt is closed without a path
var ErrNoInput = errors.New("no file path entered")

// AskForPath shows a huh input asking for a recording path
func AskForPath(ctx context.Context) (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Recording to summarize").
				Description(fmt.Sprintf("Path to an audio or video file (%s). Drag and drop works.", strings.Join(SupportedExtensions(), " "))).
				Placeholder("/path/to/meeting.mp4").
				Value(&path).
				Validate(func(s string) error {
					_, err := ResolveInput(CleanInputPath(s))
					return err
				}),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrNoInput
		}
		return "", err
	}

	path = CleanInputPath(path)
	if path == "" {
		return "", ErrNoInput
	}
	return path, nil
}

// ReadPath reads one line from r as a path, for non-interactive stdin
func ReadPath(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading path: %w", err)
	}
	path := CleanInputPath(line)
	if path == "" {
		return "", ErrNoInput
	}
	return path, nil
}
