package pipeline

import (
	"context"
	"sync"
	"time"

	"scribe/internal/backend"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/metrics"
)

type poolTask struct {
	slot  int
	chunk Chunk
}

// transcribeChunks fans the valid chunks out to a fixed-size worker
// pool. A failure in one chunk never cancels other in-flight or pending
// chunks; every chunk is attempted and yields exactly one ChunkResult.
func (p *Pipeline) transcribeChunks(ctx context.Context, jobID string, chunks []Chunk, active backend.Transcriber, lang string) []ChunkResult {
	results := make([]ChunkResult, len(chunks))
	tasks := make(chan poolTask)

	workers := p.workers
	if workers > len(chunks) {
		workers = len(chunks)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range tasks {
				results[task.slot] = p.transcribeOne(ctx, jobID, task.chunk, active, lang)
			}
		}()
	}

	for slot, chunk := range chunks {
		tasks <- poolTask{slot: slot, chunk: chunk}
	}
	close(tasks)
	wg.Wait()

	return results
}

// transcribeOne submits one chunk to the active backend, applying the
// one-shot cross-backend fallback for format-class failures.
func (p *Pipeline) transcribeOne(ctx context.Context, jobID string, chunk Chunk, active backend.Transcriber, lang string) ChunkResult {
	ctx, logger := p.stageLogger(ctx, "transcription")
	logger = logger.With(logging.String(logging.FieldChunk, chunk.Basename()))

	req := backend.Request{
		Path:     chunk.Path,
		MIMEType: media.MIMEType(chunk.Path),
		Language: lang,
	}

	start := time.Now()
	text, err := p.submit(ctx, active, req)
	if err != nil && backend.ShouldFallback(err) {
		if alt := p.selector.Alternate(active); alt != nil {
			logger.Warn("falling back to alternate backend",
				logging.String(logging.FieldBackend, alt.Name()),
				logging.Error(err),
			)
			p.record(ctx, metrics.Event{
				Type:    metrics.EventBackendFallback,
				JobID:   jobID,
				Chunk:   chunk.Basename(),
				Backend: alt.Name(),
				Detail:  err.Error(),
			})
			text, err = p.submit(ctx, alt, req)
		}
	}
	elapsed := time.Since(start)

	if err != nil {
		logger.Error("chunk transcription failed", logging.Error(err), logging.Duration("elapsed", elapsed))
		p.record(ctx, metrics.Event{
			Type:    metrics.EventChunkFailed,
			JobID:   jobID,
			Chunk:   chunk.Basename(),
			Backend: active.Name(),
			Detail:  err.Error(),
			Elapsed: elapsed,
		})
		return ChunkResult{Index: chunk.Index, Chunk: chunk.Basename(), Err: err.Error()}
	}

	logger.Info("chunk transcribed", logging.Duration("elapsed", elapsed), logging.Int("chars", len(text)))
	p.record(ctx, metrics.Event{
		Type:    metrics.EventChunkTranscribed,
		JobID:   jobID,
		Chunk:   chunk.Basename(),
		Backend: active.Name(),
		Elapsed: elapsed,
	})
	return ChunkResult{Index: chunk.Index, Chunk: chunk.Basename(), Text: text, OK: true}
}

func (p *Pipeline) submit(ctx context.Context, t backend.Transcriber, req backend.Request) (string, error) {
	callCtx := ctx
	if p.backendTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.backendTimeout)
		defer cancel()
	}
	return t.Transcribe(callCtx, req)
}
