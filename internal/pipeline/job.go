package pipeline

import (
	"path/filepath"
	"time"
)

// Job describes one transcription request. It is immutable once handed
// to Run and owned exclusively by that invocation.
type Job struct {
	// ID correlates logs and ledger rows. Empty gets a fresh UUID.
	ID string
	// InputPath is the audio file to transcribe. Alternatively the raw
	// bytes may be supplied via InputBytes + InputName.
	InputPath  string
	InputBytes []byte
	// InputName carries the original filename when InputBytes is used,
	// so the chunker keeps the right container extension.
	InputName string
	// OutputDir overrides the configured workspace root for this job's
	// working files. Optional.
	OutputDir string
	// ChunkSeconds is the bounded chunk duration. Must be positive.
	ChunkSeconds int
	// MaxRetries bounds additional segmenting attempts after the first.
	MaxRetries int
	// RetryDelay is the fixed pause between segmenting attempts.
	RetryDelay time.Duration
	// Language is a free-form hint ("en", "English", "auto").
	Language string
	// Model is the requested backend model name; its family is resolved
	// once at job start.
	Model string
}

// ChunkStatus tracks a chunk through validation.
type ChunkStatus int

const (
	ChunkUnvalidated ChunkStatus = iota
	ChunkValid
	ChunkInvalid
)

// Chunk is one time-bounded, independently decodable segment. Created
// by the segmenter; only the validator mutates Status.
type Chunk struct {
	// Index is the 0-based ordinal that defines final ordering.
	Index  int
	Path   string
	Status ChunkStatus
}

// Basename returns the chunk's zero-padded file name.
func (c Chunk) Basename() string {
	return filepath.Base(c.Path)
}

// ChunkResult is produced exactly once per valid chunk and never
// mutated afterwards.
type ChunkResult struct {
	Index int
	Chunk string
	Text  string
	OK    bool
	Err   string
}

// Status is the terminal job outcome.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// PartialResult pairs a chunk basename with its transcript so callers
// can salvage successful segments from a failed job.
type PartialResult struct {
	Chunk string `json:"chunk"`
	Text  string `json:"text"`
}

// Result is the terminal object returned to the caller.
type Result struct {
	Status         Status          `json:"status"`
	Chunks         []string        `json:"chunks,omitempty"`
	Transcript     string          `json:"transcript,omitempty"`
	Message        string          `json:"message,omitempty"`
	PartialResults []PartialResult `json:"partial_results,omitempty"`
}
