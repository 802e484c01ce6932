package internal

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// WhisperLimit is the maximum file size accepted by OpenAI's Whisper API (25 MiB)
const WhisperLimit int64 = 25 << 20

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateTranscription(ctx context.Context, file io.Reader) (string, error)
	CreateChatCompletion(ctx context.Context, model, prompt string) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateTranscription implements the transcription method
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file io.Reader) (string, error) {
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// CreateChatCompletion implements the chat completion method
func (c *OpenAIClient) CreateChatCompletion(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// AI transcribes with Whisper and summarizes with a chat model
type AI struct {
	client       OpenAIClientInterface
	audio        *Audio
	prompts      *PromptManager
	model        string
	whisperLimit int64
	timeout      time.Duration
	verbose      bool
	ui           UIManager
	apiKey       string
	clientOnce   sync.Once
}

// NewAI creates a new AI processor
func NewAI(client OpenAIClientInterface, audio *Audio, prompts *PromptManager, model string, whisperLimit int64, timeout time.Duration, verbose bool) *AI {
	return &AI{
		client:       client,
		audio:        audio,
		prompts:      prompts,
		model:        model,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		verbose:      verbose,
	}
}

// NewAIWithKey creates a new AI processor with lazy client initialization
func NewAIWithKey(apiKey string, audio *Audio, prompts *PromptManager, model string, whisperLimit int64, timeout time.Duration, verbose bool) *AI {
	ai := NewAI(nil, audio, prompts, model, whisperLimit, timeout, verbose)
	ai.apiKey = apiKey
	return ai
}

func (ai *AI) Name() string { return ProviderOpenAI }

// ensureClient initializes the OpenAI client if needed
func (ai *AI) ensureClient() error {
	ai.clientOnce.Do(func() {
		if ai.client == nil && ai.apiKey != "" {
			ai.client = NewOpenAIClient(ai.apiKey)
		}
	})
	if ai.client == nil {
		return missingKeyError(ProviderOpenAI)
	}
	return nil
}

// Transcribe runs Whisper on audioFile and then asks the chat model for a bullet summary
func (ai *AI) Transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error) {
	text, err := ai.TranscribeText(ctx, audioFile, workDir)
	if err != nil {
		return nil, err
	}

	result := &TranscriptionResult{
		Provider: ProviderOpenAI,
		Status:   TranscriptCompleted,
		Text:     text,
	}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	prompt, err := ai.prompts.CreatePrompt(text, filepath.Base(audioFile))
	if err != nil {
		return nil, fmt.Errorf("creating prompt: %w", err)
	}

	summary, err := ai.Summary(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}
	result.Summary = strings.TrimSpace(summary)
	return result, nil
}

// TranscribeText transcribes audio using OpenAI's Whisper API, splitting files
// over the size limit into chunks inside workDir
func (ai *AI) TranscribeText(ctx context.Context, audioFile, workDir string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	if ai.verbose {
		fmt.Printf("Transcribing audio file: %s\n", audioFile)
	}

	info, err := os.Stat(audioFile)
	if err != nil {
		return "", fmt.Errorf("getting audio file info: %w", err)
	}

	fileSize := info.Size()
	numChunks := int(math.Ceil(float64(fileSize) / float64(ai.whisperLimit)))

	chunks := []string{audioFile}
	if numChunks > 1 {
		chunks, err = ai.audio.Split(ctx, audioFile, filepath.Join(workDir, "chunks"), numChunks)
		if err != nil {
			return "", fmt.Errorf("splitting audio: %w", err)
		}
		defer cleanupFiles(chunks...)
	}

	transcript, err := ai.processAudioChunks(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("transcribing audio: %w", err)
	}
	return transcript, nil
}

// processAudioChunks transcribes audio chunks sequentially
// NOTE: concurrent chunk uploads once returned a broken transcript, sequential works
func (ai *AI) processAudioChunks(ctx context.Context, chunks []string) (string, error) {
	numChunks := len(chunks)

	if ai.verbose {
		fmt.Printf("Transcribing chunks (%d)\n", numChunks)
	}

	var bar ProgressBar
	if ai.ui != nil && numChunks > 1 {
		bar = ai.ui.NewProgressBar(numChunks, "Transcribing chunks")
		defer bar.Finish()
	}

	var sb strings.Builder
	for i, chunkPath := range chunks {
		file, err := os.Open(chunkPath)
		if err != nil {
			return "", fmt.Errorf("opening chunk %s: %w", chunkPath, err)
		}

		text, err := ai.client.CreateTranscription(ctx, file)
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", chunkPath, closeErr)
		}
		if err != nil {
			return "", fmt.Errorf("transcribing chunk %d: %w", i+1, err)
		}

		sb.WriteString(text)
		if i < numChunks-1 {
			sb.WriteString("\n")
		}

		if bar != nil {
			bar.Set(i + 1)
		}
		if ai.verbose {
			fmt.Printf("Transcribed chunk %d/%d\n", i+1, numChunks)
		}
	}

	return sb.String(), nil
}

// Summary creates an AI summary using a prepared prompt
func (ai *AI) Summary(ctx context.Context, prompt string) (string, error) {
	if err := ai.ensureClient(); err != nil {
		return "", err
	}

	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	content, err := ai.client.CreateChatCompletion(ctx, ai.model, prompt)
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	return content, nil
}
