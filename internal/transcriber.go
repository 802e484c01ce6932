package internal

import (
	"context"
	"fmt"
	"strings"
)

// Supported transcription providers
const (
	ProviderAssemblyAI = "assemblyai"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
)

// Fixed summarization settings requested from every provider
const (
	SummaryModelInformative = "informative"
	SummaryTypeBullets      = "bullets"
)

// Providers lists the accepted values of the provider setting
var Providers = []string{ProviderAssemblyAI, ProviderOpenAI, ProviderGemini}

// Transcriber turns an audio file into a transcript and a bullet summary.
// It blocks until the service reaches a terminal status. workDir is the
// Job's private directory for any scratch files.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioFile, workDir string) (*TranscriptionResult, error)
}

// NewTranscriber builds the transcriber selected by config.Provider
// ui may be nil.
func NewTranscriber(config *Config, audio *Audio, prompts *PromptManager, ui UIManager) (Transcriber, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderAssemblyAI, "":
		return NewAssemblyAIWithKey(config.AssemblyAIAPIKey, config.Verbose), nil
	case ProviderOpenAI:
		ai := NewAIWithKey(config.OpenAIAPIKey, audio, prompts, config.OpenAIModel, WhisperLimit, config.SummaryTimeout, config.Verbose)
		ai.ui = ui
		return ai, nil
	case ProviderGemini:
		return NewGeminiWithKey(config.GeminiAPIKey, prompts, config.GeminiModel, config.SummaryTimeout, config.Verbose), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", config.Provider, strings.Join(Providers, ", "))
	}
}

// APIKeyEnv names the environment variable holding the credential of provider
func APIKeyEnv(provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "ASSEMBLYAI_API_KEY"
	}
}

// apiKeyFor returns the configured credential of provider
func apiKeyFor(config *Config, provider string) string {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return config.OpenAIAPIKey
	case ProviderGemini:
		return config.GeminiAPIKey
	default:
		return config.AssemblyAIAPIKey
	}
}

// ValidateAPIKey checks that the selected provider has a credential
func ValidateAPIKey(config *Config) error {
	if apiKeyFor(config, config.Provider) == "" {
		return missingKeyError(config.Provider)
	}
	return nil
}

func missingKeyError(provider string) error {
	if provider == "" {
		provider = ProviderAssemblyAI
	}
	return fmt.Errorf("%s API key is required - set %s in the environment, a .env file or config.toml", provider, APIKeyEnv(provider))
}
