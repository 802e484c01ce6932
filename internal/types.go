package internal

import (
	"fmt"
	"time"
)

// MediaKind is the classification of an input file
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaAudio
	MediaVideo
)

// String returns a human-readable representation of the media kind
func (k MediaKind) String() string {
	switch k {
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	default:
		return "unknown"
	}
}

// JobStatus is the lifecycle state of a Job
type JobStatus string

const (
	StatusQueued       JobStatus = "queued"
	StatusResolving    JobStatus = "resolving"
	StatusExtracting   JobStatus = "extracting"
	StatusTranscribing JobStatus = "transcribing"
	StatusWriting      JobStatus = "writing"
	StatusDone         JobStatus = "done"
	StatusFailed       JobStatus = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// Label is the spinner text shown while a stage runs
func (s JobStatus) Label() string {
	switch s {
	case StatusQueued:
		return "Waiting for a free worker..."
	case StatusResolving:
		return "Checking input file..."
	case StatusExtracting:
		return "Extracting audio..."
	case StatusTranscribing:
		return "Transcribing and summarizing..."
	case StatusWriting:
		return "Writing report..."
	case StatusDone:
		return "Done"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Source is a resolved input file
type Source struct {
	Path string
	Kind MediaKind
}

// Job is one invocation of the pipeline
type Job struct {
	ID            string
	SourcePath    string
	DisplayName   string
	Kind          MediaKind
	TempAudioPath string
	OutputDir     string
	Status        JobStatus
	Err           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TranscriptStatus is the terminal status reported by a transcription service
type TranscriptStatus string

const (
	TranscriptCompleted TranscriptStatus = "completed"
	TranscriptError     TranscriptStatus = "error"
)

// NoSummaryText replaces a missing summary in every report
const NoSummaryText = "No summary available."

// TranscriptionResult is what a transcription service returns for one Job
type TranscriptionResult struct {
	ID       string
	Provider string
	Status   TranscriptStatus
	Text     string
	Summary  string
	Error    string
}

// SummaryOrFallback returns the summary, or NoSummaryText when none was produced.
func (r *TranscriptionResult) SummaryOrFallback() string {
	if r == nil || r.Summary == "" {
		return NoSummaryText
	}
	return r.Summary
}

// Failed reports whether the service finished with an error status.
func (r *TranscriptionResult) Failed() bool {
	return r.Status == TranscriptError
}

// Report lists the artifacts written for a Job
type Report struct {
	Dir            string
	TranscriptPath string
	SummaryPath    string
	DocxPath       string
}

// Paths returns the artifact paths that were written
func (r *Report) Paths() []string {
	paths := []string{r.TranscriptPath, r.SummaryPath}
	if r.DocxPath != "" {
		paths = append(paths, r.DocxPath)
	}
	return paths
}

// JobRequest is the input adapters hand to App.Run
type JobRequest struct {
	// ID is generated when empty
	ID         string
	SourcePath string
	// DisplayName names the output folder; defaults to the source file name
	DisplayName string
	// OutputDir overrides the configured output directory
	OutputDir string
	// ScopedOutput forces a folder of its own even when timestamped output
	// is off. Set by adapters that run Jobs concurrently.
	ScopedOutput bool
	OnStage      func(JobStatus)
}

// JobResult is what a successful Job produced
type JobResult struct {
	Job           Job
	Transcription *TranscriptionResult
	Report        *Report
	Elapsed       time.Duration
}

// Preview returns at most n runes of the transcript
func (r *JobResult) Preview(n int) string {
	text := []rune(r.Transcription.Text)
	if len(text) <= n {
		return string(text)
	}
	return fmt.Sprintf("%s...", string(text[:n]))
}
