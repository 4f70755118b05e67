// Package pipeline drives the chunked transcription flow: segment the
// input with a bounded retry, validate each chunk, fan the valid chunks
// out to a fixed-size worker pool with a heartbeat running alongside,
// and reassemble the per-chunk results in original temporal order.
//
// One coordinating goroutine walks the stages sequentially; only the
// dispatch stage is concurrent. Chunk-local transcription failures never
// abort sibling chunks, and the job workspace is removed on every exit
// path.
package pipeline
