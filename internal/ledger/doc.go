// Package ledger records pipeline telemetry in SQLite: one row per job
// plus the per-chunk event stream. It implements metrics.Sink, so the
// pipeline stays unaware of where its events end up. Transcripts are
// never stored here; persistence of results belongs to the caller.
package ledger
