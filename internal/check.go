package internal

import (
	"context"
	"os/exec"
	"strings"
)

// DepStatus is the installation status of an external tool
type DepStatus struct {
	Name      string
	Installed bool
	Path      string
	Version   string
}

// SetupReport summarizes whether this machine can run a Job
type SetupReport struct {
	Deps        []DepStatus
	Provider    string
	KeyEnv      string
	KeyPresent  bool
	OutputDir   string
	ConfigFile  string
	ConfigFound bool
}

// OK reports whether every tool is installed and the provider key is set
func (r SetupReport) OK() bool {
	for _, d := range r.Deps {
		if !d.Installed {
			return false
		}
	}
	return r.KeyPresent
}

var lookPath = exec.LookPath

// CheckTool looks name up on PATH and asks it for its version
func CheckTool(ctx context.Context, runner CommandRunner, name string) DepStatus {
	status := DepStatus{Name: name}

	path, err := lookPath(name)
	if err != nil {
		return status
	}
	status.Installed = true
	status.Path = path

	// ffmpeg and ffprobe print the version on the first line
	output, err := runner.Run(ctx, path, "-version")
	if err == nil {
		first, _, _ := strings.Cut(string(output), "\n")
		status.Version = strings.TrimSpace(first)
	}

	return status
}

// CheckSetup checks ffmpeg, ffprobe and the credential of the configured provider
func CheckSetup(ctx context.Context, runner CommandRunner, config *Config) SetupReport {
	report := SetupReport{
		Provider:    config.Provider,
		KeyEnv:      APIKeyEnv(config.Provider),
		KeyPresent:  ValidateAPIKey(config) == nil,
		OutputDir:   config.OutputDir,
		ConfigFile:  config.ConfigFile,
		ConfigFound: config.ConfigFile != "",
	}
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		report.Deps = append(report.Deps, CheckTool(ctx, runner, tool))
	}
	return report
}
