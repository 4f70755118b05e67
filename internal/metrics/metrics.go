// Package metrics defines the telemetry sink the pipeline reports to.
// The sink is injected into the pipeline constructor; no component
// touches a shared global tracker.
package metrics

import (
	"context"
	"time"
)

// EventType enumerates the pipeline events worth recording.
type EventType string

const (
	EventJobStarted       EventType = "job_started"
	EventJobCompleted     EventType = "job_completed"
	EventJobFailed        EventType = "job_failed"
	EventSegmentRetry     EventType = "segment_retry"
	EventChunkInvalid     EventType = "chunk_invalid"
	EventChunkTranscribed EventType = "chunk_transcribed"
	EventChunkFailed      EventType = "chunk_failed"
	EventBackendFallback  EventType = "backend_fallback"
)

// Event is one pipeline occurrence.
type Event struct {
	Type    EventType
	JobID   string
	Chunk   string
	Backend string
	Detail  string
	Count   int
	Elapsed time.Duration
}

// Sink receives pipeline telemetry. Implementations must be safe for
// concurrent use; worker-pool chunks report from multiple goroutines.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }
