package internal

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	cause := errors.New("ffmpeg exited 1")
	tests := []struct {
		err  error
		want string
	}{
		{newJobError(StatusResolving, ErrFileNotFound, nil), "FileNotFound"},
		{newJobError(StatusResolving, ErrUnsupportedType, nil), "UnsupportedType"},
		{newJobError(StatusExtracting, ErrExtraction, cause), "ExtractionError"},
		{fmt.Errorf("run: %w", newJobError(StatusTranscribing, ErrTranscription, cause)), "TranscriptionError"},
		{newJobError(StatusWriting, ErrReport, cause), "ReportError"},
		{cause, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestJobErrorUnwrap(t *testing.T) {
	err := newJobError(StatusExtracting, ErrExtraction, ErrNoAudioTrack)

	if !errors.Is(err, ErrExtraction) || !errors.Is(err, ErrNoAudioTrack) {
		t.Errorf("errors.Is failed for %v", err)
	}
	if errors.Is(err, ErrTranscription) {
		t.Error("unexpected kind match")
	}

	var jobErr *JobError
	if !errors.As(err, &jobErr) || jobErr.Stage != StatusExtracting {
		t.Errorf("errors.As = %+v", jobErr)
	}
	if got := err.Error(); got != "audio extraction failed: no audio track" {
		t.Errorf("Error() = %q", got)
	}
}
