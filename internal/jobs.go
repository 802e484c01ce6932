package internal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrJobNotFound is returned for unknown job IDs.
var ErrJobNotFound = errors.New("job not found")

// JobRecord is a Job plus what the web UI shows about it.
type JobRecord struct {
	Job
	ErrorKind string
	Summary   string
	Preview   string
	Report    *Report
}

// JobStore tracks background jobs and validates their status transitions.
type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*JobRecord
	limit int
	now   func() time.Time
}

// NewJobStore keeps at most limit finished jobs; 0 keeps all.
func NewJobStore(limit int) *JobStore {
	return &JobStore{
		jobs:  make(map[string]*JobRecord),
		limit: limit,
		now:   time.Now,
	}
}

// Create registers a queued job.
func (s *JobStore) Create(id, sourcePath, displayName string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; ok {
		return Job{}, fmt.Errorf("job %s already exists", id)
	}

	now := s.now()
	rec := &JobRecord{Job: Job{
		ID:          id,
		SourcePath:  sourcePath,
		DisplayName: displayName,
		Kind:        ClassifyExtension(displayName),
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}}
	s.jobs[id] = rec
	s.evict()
	return rec.Job, nil
}

// Transition validates and applies a status change.
func (s *JobStore) Transition(id string, status JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if rec.Status == status {
		return nil
	}
	if !isValidTransition(rec.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", rec.Status, status)
	}
	rec.Status = status
	rec.UpdatedAt = s.now()
	return nil
}

// Complete records the outcome of a successful job.
func (s *JobStore) Complete(id string, result *JobResult) error {
	if err := s.Transition(id, StatusDone); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.jobs[id]
	rec.OutputDir = result.Job.OutputDir
	rec.TempAudioPath = result.Job.TempAudioPath
	rec.Report = result.Report
	rec.Summary = result.Transcription.SummaryOrFallback()
	rec.Preview = result.Preview(PreviewChars)
	return nil
}

// Fail records the error of a failed job.
func (s *JobStore) Fail(id string, jobErr error) error {
	if err := s.Transition(id, StatusFailed); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.jobs[id]
	rec.Err = jobErr.Error()
	rec.ErrorKind = ErrorKind(jobErr)
	return nil
}

// Get returns a snapshot of a job.
func (s *JobStore) Get(id string) (JobRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.jobs[id]
	if !ok {
		return JobRecord{}, false
	}
	return *rec, true
}

// List returns snapshots of all jobs, newest first.
func (s *JobStore) List() []JobRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobRecord, 0, len(s.jobs))
	for _, rec := range s.jobs {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// evict drops the oldest finished jobs beyond the limit. Caller holds the lock.
func (s *JobStore) evict() {
	if s.limit <= 0 || len(s.jobs) <= s.limit {
		return
	}

	var finished []*JobRecord
	for _, rec := range s.jobs {
		if rec.Status.Terminal() {
			finished = append(finished, rec)
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].CreatedAt.Before(finished[j].CreatedAt)
	})
	for _, rec := range finished {
		if len(s.jobs) <= s.limit {
			return
		}
		delete(s.jobs, rec.ID)
	}
}

// isValidTransition enforces the allowed job state machine edges.
func isValidTransition(from, to JobStatus) bool {
	if to == StatusFailed {
		return !from.Terminal()
	}
	switch from {
	case StatusQueued:
		return to == StatusResolving
	case StatusResolving:
		return to == StatusExtracting || to == StatusTranscribing
	case StatusExtracting:
		return to == StatusTranscribing
	case StatusTranscribing:
		return to == StatusWriting
	case StatusWriting:
		return to == StatusDone
	default:
		return false
	}
}
