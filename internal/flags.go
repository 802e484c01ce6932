package internal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// AddProviderFlags adds flags selecting and tuning the transcription provider
func AddProviderFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", fmt.Sprintf("Transcription provider (%s)", strings.Join(Providers, ", ")))
	cmd.Flags().StringP("model", "m", "", "Model for the openai or gemini provider")
	cmd.Flags().StringP("prompt", "p", "", "Custom summary prompt (string or file path, openai/gemini only)")
}

// AddReportFlags adds flags related to report output
func AddReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output directory for reports")
	cmd.Flags().Bool("no-timestamp", false, "Write transcript.txt and meeting_summary.pdf directly into the output directory")
	cmd.Flags().StringSlice("terms", nil, "Terms to print in bold (replaces the configured list)")
	cmd.Flags().Bool("docx", false, "Also write the summary as a Word document")
}

// AddPresentFlags adds flags for terminal presentation of a single run
func AddPresentFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("copy", "c", false, "Copy the summary to the clipboard")
	cmd.Flags().Bool("no-preview", false, "Do not print the transcript preview")
	cmd.Flags().Bool("plain", false, "Print the summary without markdown rendering")
}

// ApplyFlags copies explicitly set flags into config
func ApplyFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("provider"); f != nil && f.Changed {
		provider := strings.ToLower(f.Value.String())
		if !slices.Contains(Providers, provider) {
			return fmt.Errorf("unknown provider %q (supported: %s)", provider, strings.Join(Providers, ", "))
		}
		config.Provider = provider
	}
	if f := flags.Lookup("model"); f != nil && f.Changed {
		switch config.Provider {
		case ProviderOpenAI:
			config.OpenAIModel = f.Value.String()
		case ProviderGemini:
			config.GeminiModel = f.Value.String()
		default:
			return fmt.Errorf("--model is not supported by the %s provider", config.Provider)
		}
	}
	if f := flags.Lookup("prompt"); f != nil && f.Changed {
		config.Prompt = f.Value.String()
		if config.Verbose {
			if IsLikelyFilePath(config.Prompt) && FileExists(config.Prompt) {
				fmt.Printf("Using custom prompt file: %s\n", config.Prompt)
			} else {
				fmt.Printf("Using custom prompt string\n")
			}
		}
	}
	if f := flags.Lookup("output"); f != nil && f.Changed {
		config.OutputDir = f.Value.String()
	}
	if f := flags.Lookup("no-timestamp"); f != nil && f.Changed {
		noTimestamp, _ := flags.GetBool("no-timestamp")
		config.TimestampedOutput = !noTimestamp
	}
	if f := flags.Lookup("terms"); f != nil && f.Changed {
		terms, err := flags.GetStringSlice("terms")
		if err != nil {
			return fmt.Errorf("failed to get terms flag: %w", err)
		}
		config.Terms = terms
	}
	if f := flags.Lookup("docx"); f != nil && f.Changed {
		docx, _ := flags.GetBool("docx")
		if docx && !config.WantsDocx() {
			config.Formats = append(config.Formats, "docx")
		}
	}

	return nil
}

// PresentOptionsFromFlags reads the presentation flags
func PresentOptionsFromFlags(cmd *cobra.Command) PresentOptions {
	copyFlag, _ := cmd.Flags().GetBool("copy")
	noPreview, _ := cmd.Flags().GetBool("no-preview")
	plain, _ := cmd.Flags().GetBool("plain")
	return PresentOptions{
		Copy:        copyFlag,
		NoRender:    plain,
		ShowPreview: !noPreview,
	}
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	if f := cmd.Flags().Lookup("verbose"); f != nil && f.Changed {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil && f.Changed {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}
	return nil
}

// ValidateProviderRequirements checks the provider settings before any work starts
func ValidateProviderRequirements(config *Config) error {
	if !slices.Contains(Providers, config.Provider) {
		return fmt.Errorf("unknown provider %q in config (supported: %s)", config.Provider, strings.Join(Providers, ", "))
	}
	return ValidateAPIKey(config)
}
