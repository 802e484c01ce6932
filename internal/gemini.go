package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

const (
	geminiTranscriptPrompt = "Transcribe this audio recording verbatim. Return only the transcript text, without timestamps, speaker labels or commentary."
	geminiPollInterval     = 2 * time.Second
)

// GeminiClientInterface defines the Gemini operations used by tldl
type GeminiClientInterface interface {
	TranscribeAudio(ctx context.Context, model, prompt, audioFile, mimeType string) (string, error)
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// GeminiClient wraps the Google Gen AI SDK
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini API client
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// TranscribeAudio uploads audioFile through the Files API, waits until it is
// processed and asks model for its transcript. The upload is deleted afterwards.
func (c *GeminiClient) TranscribeAudio(ctx context.Context, model, prompt, audioFile, mimeType string) (string, error) {
	file, err := c.client.Files.UploadFromPath(ctx, audioFile, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return "", fmt.Errorf("uploading audio: %w", err)
	}
	uploaded := file.Name
	defer func() {
		// the request context may be gone already
		delCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := c.client.Files.Delete(delCtx, uploaded, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete uploaded file %s: %v\n", uploaded, err)
		}
	}()

	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(geminiPollInterval):
		}
		file, err = c.client.Files.Get(ctx, uploaded, nil)
		if err != nil {
			return "", fmt.Errorf("checking upload state: %w", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return "", fmt.Errorf("gemini could not process %s", filepath.Base(audioFile))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromURI(file.URI, file.MIMEType),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateText sends a text-only prompt
func (c *GeminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Gemini transcribes and summarizes with Google's Gemini models
type Gemini struct {
	client     GeminiClientInterface
	prompts    *PromptManager
	model      string
	timeout    time.Duration
	verbose    bool
	apiKey     string
	clientOnce sync.Once
	clientErr  error
}

// NewGemini creates a Gemini transcriber around an existing client
func NewGemini(client GeminiClientInterface, prompts *PromptManager, model string, timeout time.Duration, verbose bool) *Gemini {
	return &Gemini{
		client:  client,
		prompts: prompts,
		model:   model,
		timeout: timeout,
		verbose: verbose,
	}
}

// NewGeminiWithKey creates a Gemini transcriber with lazy client initialization
func NewGeminiWithKey(apiKey string, prompts *PromptManager, model string, timeout time.Duration, verbose bool) *Gemini {
	g := NewGemini(nil, prompts, model, timeout, verbose)
	g.apiKey = apiKey
	return g
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) ensureClient(ctx context.Context) error {
	g.clientOnce.Do(func() {
		if g.client != nil || g.apiKey == "" {
			return
		}
		client, err := NewGeminiClient(ctx, g.apiKey)
		if err != nil {
			g.clientErr = err
			return
		}
		g.client = client
	})
	if g.clientErr != nil {
		return g.clientErr
	}
	if g.client == nil {
		return missingKeyError(ProviderGemini)
	}
	return nil
}

// Transcribe asks Gemini for a transcript and then for a bullet summary of it
func (g *Gemini) Transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error) {
	if err := g.ensureClient(ctx); err != nil {
		return nil, err
	}

	if g.verbose {
		fmt.Printf("Transcribing %s with %s\n", audioFile, g.model)
	}

	text, err := g.client.TranscribeAudio(ctx, g.model, geminiTranscriptPrompt, audioFile, audioMIMEType(audioFile))
	if err != nil {
		return nil, fmt.Errorf("transcribing with Gemini: %w", err)
	}

	result := &TranscriptionResult{
		Provider: ProviderGemini,
		Status:   TranscriptCompleted,
		Text:     strings.TrimSpace(text),
	}
	if result.Text == "" {
		return result, nil
	}

	prompt, err := g.prompts.CreatePrompt(result.Text, filepath.Base(audioFile))
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}

	summaryCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		summaryCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	summary, err := g.client.GenerateText(summaryCtx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}
	result.Summary = strings.TrimSpace(summary)
	return result, nil
}

// audioMIMEType maps the audio extensions tldl accepts to MIME types
func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "audio/mp3"
	}
}
