package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// SummaryParams is the summarization request sent alongside the audio
type SummaryParams struct {
	Summarization bool
	SummaryModel  string
	SummaryType   string
}

// AssemblyAIClientInterface defines the AssemblyAI operations used by tldl
type AssemblyAIClientInterface interface {
	TranscribeFromReader(ctx context.Context, r io.Reader, params SummaryParams) (*TranscriptionResult, error)
}

// AssemblyAIClient wraps the official AssemblyAI Go SDK
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates a new AssemblyAI client
func NewAssemblyAIClient(apiKey string) *AssemblyAIClient {
	return &AssemblyAIClient{client: aai.NewClient(apiKey)}
}

// TranscribeFromReader uploads the audio and waits for the transcript to finish
func (c *AssemblyAIClient) TranscribeFromReader(ctx context.Context, r io.Reader, params SummaryParams) (*TranscriptionResult, error) {
	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, r, &aai.TranscriptOptionalParams{
		Summarization: aai.Bool(params.Summarization),
		SummaryModel:  aai.SummaryModel(params.SummaryModel),
		SummaryType:   aai.SummaryType(params.SummaryType),
	})
	if err != nil {
		return nil, err
	}

	result := &TranscriptionResult{
		ID:       deref(transcript.ID),
		Provider: ProviderAssemblyAI,
		Status:   TranscriptCompleted,
		Text:     deref(transcript.Text),
		Summary:  deref(transcript.Summary),
	}
	if transcript.Status == aai.TranscriptStatusError {
		result.Status = TranscriptError
		result.Error = deref(transcript.Error)
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AssemblyAI transcribes and summarizes in one request
type AssemblyAI struct {
	client     AssemblyAIClientInterface
	verbose    bool
	apiKey     string
	clientOnce sync.Once
}

// NewAssemblyAI creates an AssemblyAI transcriber around an existing client
func NewAssemblyAI(client AssemblyAIClientInterface, verbose bool) *AssemblyAI {
	return &AssemblyAI{
		client:  client,
		verbose: verbose,
	}
}

// NewAssemblyAIWithKey creates an AssemblyAI transcriber with lazy client initialization
func NewAssemblyAIWithKey(apiKey string, verbose bool) *AssemblyAI {
	return &AssemblyAI{
		verbose: verbose,
		apiKey:  apiKey,
	}
}

func (a *AssemblyAI) Name() string { return ProviderAssemblyAI }

func (a *AssemblyAI) ensureClient() error {
	a.clientOnce.Do(func() {
		if a.client == nil && a.apiKey != "" {
			a.client = NewAssemblyAIClient(a.apiKey)
		}
	})
	if a.client == nil {
		return missingKeyError(ProviderAssemblyAI)
	}
	return nil
}

// Transcribe submits audioFile with summarization enabled and blocks until done.
// A terminal error status is returned as a result, not as an error.
func (a *AssemblyAI) Transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error) {
	if err := a.ensureClient(); err != nil {
		return nil, err
	}

	if a.verbose {
		fmt.Printf("Uploading %s to AssemblyAI\n", audioFile)
	}

	f, err := os.Open(audioFile)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	result, err := a.client.TranscribeFromReader(ctx, f, SummaryParams{
		Summarization: true,
		SummaryModel:  SummaryModelInformative,
		SummaryType:   SummaryTypeBullets,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribing with AssemblyAI: %w", err)
	}
	result.Provider = ProviderAssemblyAI
	return result, nil
}
