package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/config"
	"scribe/internal/metrics"
)

// Store persists job and chunk telemetry in SQLite. It implements
// metrics.Sink so the pipeline can be pointed at it directly, and it
// backs the `scribe jobs` command.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "ledger.db"))
}

// OpenPath opens the ledger at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    job_id      TEXT PRIMARY KEY,
    status      TEXT NOT NULL,
    detail      TEXT NOT NULL DEFAULT '',
    chunks      INTEGER NOT NULL DEFAULT 0,
    started_at  TEXT NOT NULL,
    finished_at TEXT
);
CREATE TABLE IF NOT EXISTS events (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id      TEXT NOT NULL,
    type        TEXT NOT NULL,
    chunk       TEXT NOT NULL DEFAULT '',
    backend     TEXT NOT NULL DEFAULT '',
    detail      TEXT NOT NULL DEFAULT '',
    elapsed_ms  INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_job ON events(job_id);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record implements metrics.Sink.
func (s *Store) Record(ctx context.Context, event metrics.Event) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO events (job_id, type, chunk, backend, detail, elapsed_ms, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.JobID, string(event.Type), event.Chunk, event.Backend,
		event.Detail, event.Elapsed.Milliseconds(), now,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	switch event.Type {
	case metrics.EventJobStarted:
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO jobs (job_id, status, detail, started_at)
             VALUES (?, 'running', ?, ?)`,
			event.JobID, event.Detail, now,
		); err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
	case metrics.EventJobCompleted:
		if _, err := s.db.ExecContext(ctx,
			`UPDATE jobs SET status = 'ok', chunks = ?, finished_at = ? WHERE job_id = ?`,
			event.Count, now, event.JobID,
		); err != nil {
			return fmt.Errorf("finish job: %w", err)
		}
	case metrics.EventJobFailed:
		if _, err := s.db.ExecContext(ctx,
			`UPDATE jobs SET status = 'error', detail = ?, chunks = ?, finished_at = ? WHERE job_id = ?`,
			event.Detail, event.Count, now, event.JobID,
		); err != nil {
			return fmt.Errorf("fail job: %w", err)
		}
	}
	return nil
}

// Job is one ledger row summarizing a pipeline run.
type Job struct {
	ID         string
	Status     string
	Detail     string
	Chunks     int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// ListJobs returns the most recent jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, status, detail, chunks, started_at, finished_at
         FROM jobs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var started string
		var finished sql.NullString
		if err := rows.Scan(&job.ID, &job.Status, &job.Detail, &job.Chunks, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			job.StartedAt = ts
		}
		if finished.Valid {
			if ts, parseErr := time.Parse(time.RFC3339Nano, finished.String); parseErr == nil {
				job.FinishedAt = &ts
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ChunkEvent is one per-chunk occurrence for a job.
type ChunkEvent struct {
	Type    metrics.EventType
	Chunk   string
	Backend string
	Detail  string
	Elapsed time.Duration
}

// JobEvents returns the recorded events for one job in insertion order.
func (s *Store) JobEvents(ctx context.Context, jobID string) ([]ChunkEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, chunk, backend, detail, elapsed_ms FROM events
         WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []ChunkEvent
	for rows.Next() {
		var event ChunkEvent
		var eventType string
		var elapsedMS int64
		if err := rows.Scan(&eventType, &event.Chunk, &event.Backend, &event.Detail, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Type = metrics.EventType(eventType)
		event.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		events = append(events, event)
	}
	return events, rows.Err()
}

// Prune deletes jobs and their events that finished before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	stamp := cutoff.UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM events WHERE job_id IN
         (SELECT job_id FROM jobs WHERE finished_at IS NOT NULL AND finished_at < ?)`, stamp); err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE finished_at IS NOT NULL AND finished_at < ?`, stamp)
	if err != nil {
		return 0, fmt.Errorf("prune jobs: %w", err)
	}
	return res.RowsAffected()
}
