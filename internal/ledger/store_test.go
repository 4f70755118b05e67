package ledger_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/ledger"
	"scribe/internal/metrics"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.OpenPath(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordJobLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	events := []metrics.Event{
		{Type: metrics.EventJobStarted, JobID: "job-1", Detail: "input.mp3"},
		{Type: metrics.EventChunkTranscribed, JobID: "job-1", Chunk: "chunk_000.mp3", Backend: "gemini", Elapsed: 1500 * time.Millisecond},
		{Type: metrics.EventChunkFailed, JobID: "job-1", Chunk: "chunk_001.mp3", Backend: "gemini", Detail: "quota exceeded"},
		{Type: metrics.EventJobFailed, JobID: "job-1", Detail: "1 chunk failed", Count: 2},
	}
	for _, event := range events {
		if err := store.Record(ctx, event); err != nil {
			t.Fatalf("Record(%s) returned error: %v", event.Type, err)
		}
	}

	jobs, err := store.ListJobs(ctx, 10)
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.Status != "error" {
		t.Fatalf("unexpected status %q", job.Status)
	}
	if job.Chunks != 2 {
		t.Fatalf("unexpected chunk count %d", job.Chunks)
	}
	if job.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}

	recorded, err := store.JobEvents(ctx, "job-1")
	if err != nil {
		t.Fatalf("JobEvents returned error: %v", err)
	}
	if len(recorded) != 4 {
		t.Fatalf("expected 4 events, got %d", len(recorded))
	}
	if recorded[1].Chunk != "chunk_000.mp3" || recorded[1].Elapsed != 1500*time.Millisecond {
		t.Fatalf("unexpected chunk event: %+v", recorded[1])
	}
}

func TestPruneRemovesFinishedJobs(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	mustRecord := func(e metrics.Event) {
		t.Helper()
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	mustRecord(metrics.Event{Type: metrics.EventJobStarted, JobID: "old", Detail: "a.mp3"})
	mustRecord(metrics.Event{Type: metrics.EventJobCompleted, JobID: "old", Count: 1})
	mustRecord(metrics.Event{Type: metrics.EventJobStarted, JobID: "running", Detail: "b.mp3"})

	pruned, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned job, got %d", pruned)
	}

	jobs, err := store.ListJobs(ctx, 10)
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "running" {
		t.Fatalf("unexpected surviving jobs: %+v", jobs)
	}
}
