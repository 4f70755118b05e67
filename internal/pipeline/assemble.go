package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// assemble reorders completed chunk results into original temporal
// order and concatenates the successful texts. Ordering sorts by chunk
// basename, which is stable because ordinals are zero-padded.
func assemble(chunkNames []string, results []ChunkResult) Result {
	sorted := append([]ChunkResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Chunk < sorted[j].Chunk
	})

	names := append([]string(nil), chunkNames...)
	sort.Strings(names)

	var texts []string
	var failed []string
	var partial []PartialResult
	for _, result := range sorted {
		if result.OK {
			texts = append(texts, result.Text)
			partial = append(partial, PartialResult{Chunk: result.Chunk, Text: result.Text})
			continue
		}
		failed = append(failed, fmt.Sprintf("%s: %s", result.Chunk, result.Err))
	}

	if len(failed) == 0 {
		return Result{
			Status:     StatusOK,
			Chunks:     names,
			Transcript: strings.Join(texts, " "),
		}
	}

	return Result{
		Status: StatusError,
		Chunks: names,
		Message: fmt.Sprintf("%d of %d chunks failed transcription: %s",
			len(failed), len(sorted), strings.Join(failed, "; ")),
		PartialResults: partial,
	}
}
