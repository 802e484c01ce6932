package internal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Config holds application settings
type Config struct {
	// User configurable settings
	Provider          string        `yaml:"provider"`
	AssemblyAIAPIKey  string        `yaml:"assemblyai_api_key"`
	OpenAIAPIKey      string        `yaml:"openai_api_key"`
	GeminiAPIKey      string        `yaml:"gemini_api_key"`
	OpenAIModel       string        `yaml:"openai_model"`
	GeminiModel       string        `yaml:"gemini_model"`
	Prompt            string        `yaml:"prompt"`
	OutputDir         string        `yaml:"output_dir"`
	TimestampedOutput bool          `yaml:"timestamped_output"`
	SummaryTitle      string        `yaml:"summary_title"`
	Terms             []string      `yaml:"terms"`
	Formats           []string      `yaml:"formats"`
	PDFFont           string        `yaml:"pdf_font"`
	PDFBoldFont       string        `yaml:"pdf_font_bold"`
	TranscribeTimeout time.Duration `yaml:"transcribe_timeout"`
	SummaryTimeout    time.Duration `yaml:"summary_timeout"`
	ServeAddr         string        `yaml:"serve_addr"`
	MaxUploadMB       int           `yaml:"max_upload_mb"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
	LogLevel          string        `yaml:"log_level"`
	Verbose           bool          `yaml:"verbose"`
	Quiet             bool          `yaml:"quiet"`

	// Fixed XDG paths (not configurable)
	ConfigDir  string `yaml:"config_dir"`
	DataDir    string `yaml:"data_dir"`
	CacheDir   string `yaml:"cache_dir"`
	TempDir    string `yaml:"temp_dir"`
	ConfigFile string `yaml:"config_file"`
}

//go:embed config.toml prompt.txt
var defaultFS embed.FS

// WantsDocx reports whether a Word copy of the summary is requested
func (c *Config) WantsDocx() bool {
	for _, f := range c.Formats {
		if strings.EqualFold(strings.TrimSpace(f), "docx") {
			return true
		}
	}
	return false
}

// ReportOptions derives the report writer settings
func (c *Config) ReportOptions() ReportOptions {
	return ReportOptions{
		OutputDir:   c.OutputDir,
		Timestamped: c.TimestampedOutput,
		Title:       c.SummaryTitle,
		Terms:       c.Terms,
		Docx:        c.WantsDocx(),
		FontFile:    c.PDFFont,
		BoldFont:    c.PDFBoldFont,
	}
}

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Fprintf(os.Stderr, "Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultPrompt checks if a prompt.txt file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultPrompt(configDir string) error {
	return ensureDefaultFile(configDir, "prompt.txt", "prompt template")
}

// InitConfig loads .env, then reads configuration with Viper
func InitConfig() *Config {
	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error reading .env file: %v\n", err)
	}

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "tldl")
	dataDir := filepath.Join(xdg.DataHome, "tldl")
	cacheDir := filepath.Join(xdg.CacheHome, "tldl")
	tempDir := filepath.Join(cacheDir, "jobs")

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("TLDL")
	v.AutomaticEnv()

	// Provider credentials use their conventional variable names
	_ = v.BindEnv("assemblyai_api_key", "ASSEMBLYAI_API_KEY", "TLDL_ASSEMBLYAI_API_KEY")
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY", "TLDL_OPENAI_API_KEY")
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY", "TLDL_GEMINI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := configFromViper(v)
	config.ConfigDir = configDir
	config.DataDir = dataDir
	config.CacheDir = cacheDir
	config.TempDir = tempDir
	config.ConfigFile = v.ConfigFileUsed()

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", config.ConfigFile)
	}

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderAssemblyAI)
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("prompt", "") // if empty will use default prompt template
	v.SetDefault("output_dir", "output_summaries")
	v.SetDefault("timestamped_output", true)
	v.SetDefault("summary_title", "Meeting Summary")
	v.SetDefault("terms", DefaultTerms)
	v.SetDefault("formats", []string{"pdf"})
	v.SetDefault("pdf_font", "")
	v.SetDefault("pdf_font_bold", "")
	v.SetDefault("transcribe_timeout", 30*time.Minute)
	v.SetDefault("summary_timeout", 2*time.Minute)
	v.SetDefault("serve_addr", "127.0.0.1:8080")
	v.SetDefault("max_upload_mb", 500)
	v.SetDefault("max_concurrent", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
}

func configFromViper(v *viper.Viper) *Config {
	return &Config{
		Provider:          strings.ToLower(v.GetString("provider")),
		AssemblyAIAPIKey:  v.GetString("assemblyai_api_key"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GeminiAPIKey:      v.GetString("gemini_api_key"),
		OpenAIModel:       v.GetString("openai_model"),
		GeminiModel:       v.GetString("gemini_model"),
		Prompt:            v.GetString("prompt"),
		OutputDir:         v.GetString("output_dir"),
		TimestampedOutput: v.GetBool("timestamped_output"),
		SummaryTitle:      v.GetString("summary_title"),
		Terms:             v.GetStringSlice("terms"),
		Formats:           v.GetStringSlice("formats"),
		PDFFont:           v.GetString("pdf_font"),
		PDFBoldFont:       v.GetString("pdf_font_bold"),
		TranscribeTimeout: v.GetDuration("transcribe_timeout"),
		SummaryTimeout:    v.GetDuration("summary_timeout"),
		ServeAddr:         v.GetString("serve_addr"),
		MaxUploadMB:       v.GetInt("max_upload_mb"),
		MaxConcurrent:     v.GetInt("max_concurrent"),
		LogLevel:          v.GetString("log_level"),
		Verbose:           v.GetBool("verbose"),
		Quiet:             v.GetBool("quiet"),
	}
}

// Redacted returns a copy with credentials masked, for display
func (c *Config) Redacted() Config {
	cp := *c
	cp.AssemblyAIAPIKey = redact(c.AssemblyAIAPIKey)
	cp.OpenAIAPIKey = redact(c.OpenAIAPIKey)
	cp.GeminiAPIKey = redact(c.GeminiAPIKey)
	return cp
}

func redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}
