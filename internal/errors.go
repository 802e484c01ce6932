package internal

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by a Job. Match them with errors.Is.
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrExtraction      = errors.New("audio extraction failed")
	ErrTranscription   = errors.New("transcription failed")
	ErrReport          = errors.New("report generation failed")

	// ErrNoAudioTrack is the detail carried by ErrExtraction when a video has no audio stream.
	ErrNoAudioTrack = errors.New("no audio track")
)

// JobError is a stage-aware failure of a single Job.
type JobError struct {
	Stage JobStatus
	Kind  error
	Err   error
}

func (e *JobError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *JobError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newJobError(stage JobStatus, kind, err error) error {
	return &JobError{Stage: stage, Kind: kind, Err: err}
}

// ErrorKind maps err to the user-facing name of its kind, or "" when unknown.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return "FileNotFound"
	case errors.Is(err, ErrUnsupportedType):
		return "UnsupportedType"
	case errors.Is(err, ErrExtraction):
		return "ExtractionError"
	case errors.Is(err, ErrTranscription):
		return "TranscriptionError"
	case errors.Is(err, ErrReport):
		return "ReportError"
	default:
		return ""
	}
}
