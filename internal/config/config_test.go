package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestLoadWithoutFileUsesDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWorkspace := filepath.Join(tempHome, ".local", "share", "scribe", "workspace")
	if cfg.Paths.WorkspaceDir != wantWorkspace {
		t.Fatalf("unexpected workspace dir: got %q want %q", cfg.Paths.WorkspaceDir, wantWorkspace)
	}
	if cfg.Pipeline.ChunkSeconds != 300 {
		t.Fatalf("unexpected chunk seconds: %d", cfg.Pipeline.ChunkSeconds)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Fatalf("unexpected worker count: %d", cfg.Pipeline.Workers)
	}
	if cfg.Gemini.APIKey != "gem-key" {
		t.Fatalf("expected Gemini key from env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Tools.FFmpeg)
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := strings.Join([]string{
		"[paths]",
		`workspace_dir = "` + filepath.Join(dir, "work") + `"`,
		"[pipeline]",
		"chunk_seconds = 120",
		"workers = 2",
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Pipeline.ChunkSeconds != 120 {
		t.Fatalf("override not applied: %d", cfg.Pipeline.ChunkSeconds)
	}
	if cfg.Pipeline.Workers != 2 {
		t.Fatalf("override not applied: %d", cfg.Pipeline.Workers)
	}
	if cfg.Pipeline.MaxRetries != 2 {
		t.Fatalf("default lost: %d", cfg.Pipeline.MaxRetries)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero chunk seconds", func(c *config.Config) { c.Pipeline.ChunkSeconds = 0 }, "chunk_seconds"},
		{"zero workers", func(c *config.Config) { c.Pipeline.Workers = 0 }, "workers"},
		{"negative retries", func(c *config.Config) { c.Pipeline.MaxRetries = -1 }, "max_retries"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.WorkspaceDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error writing over existing config")
	}
}
