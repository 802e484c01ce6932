package internal

import (
	"context"
	"errors"
	"testing"
)

type versionRunner struct {
	out string
	err error
}

func (r versionRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return []byte(r.out), r.err
}

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := found[name]; ok {
			return p, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCheckTool(t *testing.T) {
	stubLookPath(t, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})
	runner := versionRunner{out: "ffmpeg version 7.1 Copyright (c) 2000-2024\nbuilt with gcc\n"}

	got := CheckTool(context.Background(), runner, "ffmpeg")
	if !got.Installed || got.Path != "/usr/bin/ffmpeg" || got.Version != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Errorf("ffmpeg = %+v", got)
	}

	if got := CheckTool(context.Background(), runner, "ffprobe"); got.Installed {
		t.Errorf("ffprobe = %+v, want missing", got)
	}

	got = CheckTool(context.Background(), versionRunner{err: errors.New("exit 1")}, "ffmpeg")
	if !got.Installed || got.Version != "" {
		t.Errorf("broken ffmpeg = %+v", got)
	}
}

func TestCheckSetup(t *testing.T) {
	runner := versionRunner{out: "v1\n"}

	tests := []struct {
		name   string
		tools  map[string]string
		config *Config
		ok     bool
	}{
		{
			name:   "ready",
			tools:  map[string]string{"ffmpeg": "/bin/ffmpeg", "ffprobe": "/bin/ffprobe"},
			config: &Config{Provider: ProviderOpenAI, OpenAIAPIKey: "k"},
			ok:     true,
		},
		{
			name:   "missing ffprobe",
			tools:  map[string]string{"ffmpeg": "/bin/ffmpeg"},
			config: &Config{Provider: ProviderOpenAI, OpenAIAPIKey: "k"},
		},
		{
			name:   "missing key",
			tools:  map[string]string{"ffmpeg": "/bin/ffmpeg", "ffprobe": "/bin/ffprobe"},
			config: &Config{Provider: ProviderAssemblyAI},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubLookPath(t, tt.tools)
			report := CheckSetup(context.Background(), runner, tt.config)
			if report.OK() != tt.ok {
				t.Errorf("OK() = %v, want %v: %+v", report.OK(), tt.ok, report)
			}
			if len(report.Deps) != 2 || report.KeyEnv != APIKeyEnv(tt.config.Provider) {
				t.Errorf("report = %+v", report)
			}
		})
	}
}
