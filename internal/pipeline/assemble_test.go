package pipeline

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

func TestAssembleOrdersByChunkName(t *testing.T) {
	names := []string{"chunk_000.mp3", "chunk_001.mp3", "chunk_002.mp3"}
	results := []ChunkResult{
		{Index: 2, Chunk: "chunk_002.mp3", Text: "three", OK: true},
		{Index: 0, Chunk: "chunk_000.mp3", Text: "one", OK: true},
		{Index: 1, Chunk: "chunk_001.mp3", Text: "two", OK: true},
	}

	result := assemble(names, results)
	if result.Status != StatusOK {
		t.Fatalf("expected ok, got %s (%s)", result.Status, result.Message)
	}
	if result.Transcript != "one two three" {
		t.Fatalf("unexpected transcript: %q", result.Transcript)
	}
}

func TestAssembleIsCompletionOrderIndependent(t *testing.T) {
	names := make([]string, 12)
	ordered := make([]ChunkResult, 12)
	for i := range ordered {
		names[i] = fmt.Sprintf("chunk_%03d.mp3", i)
		ordered[i] = ChunkResult{Index: i, Chunk: names[i], Text: fmt.Sprintf("word%02d", i), OK: true}
	}
	want := assemble(names, ordered).Transcript

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := append([]ChunkResult(nil), ordered...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := assemble(names, shuffled).Transcript; got != want {
			t.Fatalf("transcript depends on completion order:\n got %q\nwant %q", got, want)
		}
	}
}

func TestAssemblePartialFailure(t *testing.T) {
	names := []string{"chunk_000.mp3", "chunk_001.mp3", "chunk_002.mp3"}
	results := []ChunkResult{
		{Index: 0, Chunk: "chunk_000.mp3", Text: "hello", OK: true},
		{Index: 1, Chunk: "chunk_001.mp3", Err: "quota exceeded"},
		{Index: 2, Chunk: "chunk_002.mp3", Text: "world", OK: true},
	}

	result := assemble(names, results)
	if result.Status != StatusError {
		t.Fatalf("expected error status, got %s", result.Status)
	}
	if !strings.Contains(result.Message, "1 of 3 chunks failed") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if !strings.Contains(result.Message, "chunk_001.mp3") {
		t.Fatalf("message does not name the failed chunk: %q", result.Message)
	}
	if result.Transcript != "" {
		t.Fatalf("failed job must not carry a joined transcript, got %q", result.Transcript)
	}
	if len(result.PartialResults) != 2 {
		t.Fatalf("expected 2 partial results, got %d", len(result.PartialResults))
	}
	if result.PartialResults[0].Chunk != "chunk_000.mp3" || result.PartialResults[1].Chunk != "chunk_002.mp3" {
		t.Fatalf("unexpected partial results: %+v", result.PartialResults)
	}
}
