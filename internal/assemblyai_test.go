package internal

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

type fakeAssemblyAIClient struct {
	params SummaryParams
	body   string
	result *TranscriptionResult
	err    error
}

func (c *fakeAssemblyAIClient) TranscribeFromReader(ctx context.Context, r io.Reader, params SummaryParams) (*TranscriptionResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c.body = string(data)
	c.params = params
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func TestAssemblyAITranscribe(t *testing.T) {
	client := &fakeAssemblyAIClient{result: &TranscriptionResult{
		ID:      "tr_1",
		Status:  TranscriptCompleted,
		Text:    "hello team",
		Summary: "- greeting",
	}}
	audio := writeFile(t, filepath.Join(t.TempDir(), "call.mp3"), "mp3 bytes")

	result, err := NewAssemblyAI(client, false).Transcribe(context.Background(), audio, t.TempDir())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	want := SummaryParams{Summarization: true, SummaryModel: "informative", SummaryType: "bullets"}
	if client.params != want {
		t.Errorf("params = %+v, want %+v", client.params, want)
	}
	if client.body != "mp3 bytes" {
		t.Errorf("uploaded %q", client.body)
	}
	if result.Provider != ProviderAssemblyAI || result.Summary != "- greeting" {
		t.Errorf("result = %+v", result)
	}
}

func TestAssemblyAIErrors(t *testing.T) {
	audio := writeFile(t, filepath.Join(t.TempDir(), "call.mp3"), "x")

	_, err := NewAssemblyAIWithKey("", false).Transcribe(context.Background(), audio, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "ASSEMBLYAI_API_KEY") {
		t.Errorf("missing key: err = %v", err)
	}

	boom := errors.New("401 unauthorized")
	_, err = NewAssemblyAI(&fakeAssemblyAIClient{err: boom}, false).Transcribe(context.Background(), audio, t.TempDir())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}

	_, err = NewAssemblyAI(&fakeAssemblyAIClient{}, false).Transcribe(context.Background(), filepath.Join(t.TempDir(), "gone.mp3"), t.TempDir())
	if err == nil {
		t.Error("expected error for a missing audio file")
	}
}

func TestAssemblyAIErrorStatusIsResult(t *testing.T) {
	client := &fakeAssemblyAIClient{result: &TranscriptionResult{Status: TranscriptError, Error: "no speech"}}
	audio := writeFile(t, filepath.Join(t.TempDir(), "call.mp3"), "x")

	result, err := NewAssemblyAI(client, false).Transcribe(context.Background(), audio, t.TempDir())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Status != TranscriptError || result.Error != "no speech" {
		t.Errorf("result = %+v", result)
	}
}
