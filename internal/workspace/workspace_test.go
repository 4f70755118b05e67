package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/workspace"
)

func TestCreateAndCleanup(t *testing.T) {
	root := t.TempDir()

	ws, err := workspace.Create(root, "test-job")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if filepath.Base(ws.Dir()) != "job-test-job" {
		t.Fatalf("unexpected workspace dir: %s", ws.Dir())
	}

	chunk := filepath.Join(ws.Dir(), "chunk_000.mp3")
	if err := os.WriteFile(chunk, []byte("x"), 0o644); err != nil {
		t.Fatalf("write chunk: %v", err)
	}

	if err := ws.Cleanup(); err != nil {
		t.Fatalf("Cleanup returned error: %v", err)
	}
	if _, err := os.Stat(ws.Dir()); !os.IsNotExist(err) {
		t.Fatalf("expected workspace removed, stat err = %v", err)
	}

	// Second cleanup is a no-op.
	if err := ws.Cleanup(); err != nil {
		t.Fatalf("repeat Cleanup returned error: %v", err)
	}
}

func TestCreateGeneratesUniqueDirsForEmptyID(t *testing.T) {
	root := t.TempDir()

	first, err := workspace.Create(root, "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	defer first.Cleanup()

	second, err := workspace.Create(root, "")
	if err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	defer second.Cleanup()

	if first.Dir() == second.Dir() {
		t.Fatal("expected distinct workspace directories")
	}
}
