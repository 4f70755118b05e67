package preflight_test

import (
	"testing"

	"scribe/internal/config"
	"scribe/internal/preflight"
)

func TestCheckBackends(t *testing.T) {
	cfg := config.Default()
	cfg.Gemini.APIKey = ""
	cfg.Whisper.APIKey = ""
	if result := preflight.CheckBackends(&cfg); result.Passed {
		t.Fatal("expected failure with no credentials")
	}

	cfg.Gemini.APIKey = "key"
	if result := preflight.CheckBackends(&cfg); !result.Passed {
		t.Fatalf("expected pass with gemini key: %+v", result)
	}

	cfg.Whisper.APIKey = "key"
	result := preflight.CheckBackends(&cfg)
	if !result.Passed || result.Detail != "gemini + whisper configured" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCheckWorkspaceReportsFreeSpace(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = t.TempDir()

	result := preflight.CheckWorkspace(&cfg, 0)
	if !result.Passed {
		t.Fatalf("expected pass: %+v", result)
	}
	if result.Detail == "" {
		t.Fatal("expected free-space detail")
	}
}

func TestCheckWorkspaceRejectsMissingConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = ""
	if result := preflight.CheckWorkspace(&cfg, 1); result.Passed {
		t.Fatal("expected failure without workspace dir")
	}
}

func TestRunAggregates(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = t.TempDir()
	cfg.Gemini.APIKey = "key"
	t.Setenv("PATH", t.TempDir()) // no ffmpeg available

	results, ok := preflight.Run(&cfg)
	if ok {
		t.Fatal("expected preflight failure with ffmpeg missing")
	}
	if len(results) < 3 {
		t.Fatalf("expected tool, backend, and workspace results, got %d", len(results))
	}
}
