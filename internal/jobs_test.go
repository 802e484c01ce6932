package internal

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestJobStoreLifecycle(t *testing.T) {
	s := NewJobStore(0)

	job, err := s.Create("job-1", "/tmp/upload/source.mp4", "standup.mp4")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != StatusQueued || job.Kind != MediaVideo {
		t.Fatalf("new job = %+v", job)
	}

	for _, status := range []JobStatus{StatusResolving, StatusExtracting, StatusTranscribing, StatusWriting} {
		if err := s.Transition("job-1", status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	result := &JobResult{
		Job:           Job{OutputDir: "/out/standup_x"},
		Transcription: completedResult("hello", ""),
		Report:        &Report{Dir: "/out/standup_x"},
	}
	if err := s.Complete("job-1", result); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	rec, ok := s.Get("job-1")
	if !ok {
		t.Fatal("job not found")
	}
	if rec.Status != StatusDone || rec.OutputDir != "/out/standup_x" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Summary != NoSummaryText || rec.Preview != "hello" {
		t.Errorf("summary = %q preview = %q", rec.Summary, rec.Preview)
	}
}

func TestJobStoreRejectsInvalidTransition(t *testing.T) {
	tests := []struct {
		from JobStatus
		to   JobStatus
	}{
		{StatusQueued, StatusDone},
		{StatusQueued, StatusTranscribing},
		{StatusResolving, StatusWriting},
		{StatusDone, StatusFailed},
		{StatusFailed, StatusResolving},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			if isValidTransition(tt.from, tt.to) {
				t.Errorf("transition %s -> %s should be rejected", tt.from, tt.to)
			}
		})
	}

	s := NewJobStore(0)
	if _, err := s.Create("a", "a.mp3", "a.mp3"); err != nil {
		t.Fatal(err)
	}
	if err := s.Transition("a", StatusDone); err == nil {
		t.Fatal("expected invalid transition error")
	}
	if err := s.Transition("missing", StatusResolving); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestJobStoreFail(t *testing.T) {
	s := NewJobStore(0)
	if _, err := s.Create("a", "a.txt", "a.txt"); err != nil {
		t.Fatal(err)
	}
	if err := s.Transition("a", StatusResolving); err != nil {
		t.Fatal(err)
	}

	jobErr := newJobError(StatusResolving, ErrUnsupportedType, errors.New(`".txt"`))
	if err := s.Fail("a", jobErr); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	rec, _ := s.Get("a")
	if rec.Status != StatusFailed || rec.ErrorKind != "UnsupportedType" || rec.Err == "" {
		t.Errorf("record = %+v", rec)
	}

	// failing twice keeps the job failed
	if err := s.Fail("a", jobErr); err != nil {
		t.Errorf("second Fail: %v", err)
	}
}

func TestJobStoreCreateDuplicate(t *testing.T) {
	s := NewJobStore(0)
	if _, err := s.Create("a", "a.mp3", "a.mp3"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("a", "a.mp3", "a.mp3"); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestJobStoreListAndEvict(t *testing.T) {
	s := NewJobStore(2)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, id := range []string{"old", "mid"} {
		if _, err := s.Create(id, id+".mp3", id+".mp3"); err != nil {
			t.Fatal(err)
		}
		if err := s.Fail(id, ErrFileNotFound); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Create("new", "new.mp3", "new.mp3"); err != nil {
		t.Fatal(err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "mid" {
		t.Errorf("order = %s, %s", list[0].ID, list[1].ID)
	}
	if _, ok := s.Get("old"); ok {
		t.Error("oldest finished job should be evicted")
	}
}

func TestJobStoreKeepsRunningJobs(t *testing.T) {
	s := NewJobStore(1)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Create(id, id+".mp3", id+".mp3"); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(s.List()); got != 3 {
		t.Errorf("len = %d, want 3 (queued jobs are never evicted)", got)
	}
}
