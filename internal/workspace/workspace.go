// Package workspace manages the exclusive temporary directory a job
// owns for its chunk files. A flock-held lock file prevents two
// pipeline invocations from sharing a directory; Cleanup is idempotent
// and releases the lock before removing the tree.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// ErrBusy is returned when another process holds the workspace lock.
var ErrBusy = errors.New("workspace already in use")

// Workspace is one job's exclusive chunk directory.
type Workspace struct {
	dir  string
	lock *flock.Flock

	mu      sync.Mutex
	cleaned bool
}

// Create makes a unique directory for jobID under root and acquires its
// lock. An empty jobID gets a fresh UUID.
func Create(root, jobID string) (*Workspace, error) {
	if jobID == "" {
		jobID = uuid.NewString()
	}
	dir := filepath.Join(root, "job-"+jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".scribe.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, dir)
	}
	return &Workspace{dir: dir, lock: lock}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Cleanup releases the lock and removes the workspace tree. Calling it
// more than once is safe; it runs on every job exit path.
func (w *Workspace) Cleanup() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cleaned {
		return nil
	}
	w.cleaned = true

	if err := w.lock.Unlock(); err != nil {
		// Still remove the tree; a stale lock file must not leave
		// chunk files behind.
		_ = os.RemoveAll(w.dir)
		return fmt.Errorf("release workspace lock: %w", err)
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}
