package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"scribe/internal/logging"
)

// BeatFunc is the liveness signal the caller injects; it is invoked at
// each heartbeat interval while parallel work is in flight. It must not
// block.
type BeatFunc func()

// joinTimeout bounds how long Stop waits for the heartbeat goroutine,
// so stopping can never block job completion indefinitely.
const joinTimeout = 2 * time.Second

// Heartbeat emits a periodic liveness signal during long parallel work
// so an external process supervisor does not treat the worker as hung.
// It carries no job data and has no effect on correctness.
type Heartbeat struct {
	interval time.Duration
	beat     BeatFunc
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewHeartbeat builds a monitor. A nil beat falls back to a debug log
// line, which doubles as flushed liveness output for line-based
// supervisors.
func NewHeartbeat(interval time.Duration, beat BeatFunc, logger *slog.Logger) *Heartbeat {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	h := &Heartbeat{
		interval: interval,
		beat:     beat,
		logger:   logging.NewComponentLogger(logger, "heartbeat"),
	}
	if h.beat == nil {
		h.beat = func() { h.logger.Debug("alive") }
	}
	return h
}

// Start launches the heartbeat goroutine. Starting twice is a no-op.
func (h *Heartbeat) Start(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done != nil || h.stopped {
		return
	}

	beatCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()
		for {
			select {
			case <-beatCtx.Done():
				return
			case <-ticker.C:
				h.beat()
			}
		}
	}(h.done)
}

// Stop ends the heartbeat and waits for the goroutine up to the join
// timeout. It is idempotent and safe to call without a prior Start.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	cancel := h.cancel
	done := h.done
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(joinTimeout):
		h.logger.Warn("heartbeat goroutine did not stop within join timeout")
	}
}
