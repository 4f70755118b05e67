package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/config"
	"scribe/internal/deps"
)

func stubBinary(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", dir)
	return path
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "FFmpeg", Command: "ffmpeg"},
		{Name: "Unconfigured", Command: " "},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected ffmpeg to be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
	if statuses[1].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[1].Detail)
	}
}

func TestCheckBinariesFindsStub(t *testing.T) {
	stubBinary(t, "ffmpeg")

	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "FFmpeg", Command: "ffmpeg"}})
	if !statuses[0].Available {
		t.Fatalf("expected stubbed ffmpeg to be available: %+v", statuses[0])
	}
}

func TestRequirementsHonorConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "/opt/ffmpeg/bin/ffmpeg"

	reqs := deps.Requirements(&cfg)
	if reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg command: %q", reqs[0].Command)
	}
	if !reqs[1].Optional {
		t.Fatal("expected ffprobe to be optional")
	}
}
