package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoChunks is returned when ffmpeg exits cleanly but writes no chunk files.
var ErrNoChunks = errors.New("no chunks were created")

// ChunkPrefix is the ordinal chunk naming prefix, zero-padded so that
// lexical order equals temporal order.
const ChunkPrefix = "chunk_"

// Segmenter splits an input file into bounded-duration chunks using
// ffmpeg's segment muxer with stream copy, so no re-encode happens and
// each chunk is independently decodable.
type Segmenter struct {
	ffmpeg   string
	runner   CommandRunner
	overhead time.Duration
}

// NewSegmenter builds a Segmenter. overhead is added to the chunk
// duration to form the hard timeout for one invocation.
func NewSegmenter(ffmpeg string, runner CommandRunner, overhead time.Duration) *Segmenter {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if runner == nil {
		runner = NewRunner()
	}
	if overhead <= 0 {
		overhead = time.Minute
	}
	return &Segmenter{ffmpeg: ffmpeg, runner: runner, overhead: overhead}
}

// Segment splits input into chunks of chunkSeconds under outDir and
// returns the sorted chunk paths. The chunk files keep the input's
// extension; timestamps reset per segment.
func (s *Segmenter) Segment(ctx context.Context, input, outDir string, chunkSeconds int) ([]string, error) {
	if chunkSeconds <= 0 {
		return nil, fmt.Errorf("segment: chunk duration %d must be positive", chunkSeconds)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("segment: ensure output dir: %w", err)
	}

	ext := filepath.Ext(input)
	pattern := filepath.Join(outDir, ChunkPrefix+"%03d"+ext)

	timeout := time.Duration(chunkSeconds)*time.Second + s.overhead
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", input,
		"-f", "segment",
		"-segment_time", fmt.Sprintf("%d", chunkSeconds),
		"-c", "copy",
		"-reset_timestamps", "1",
		pattern,
	}
	result, err := s.runner.Run(runCtx, s.ffmpeg, args...)
	if err != nil {
		return nil, toolError(runCtx, "ffmpeg segment", result, err)
	}

	chunks, err := listChunks(outDir, ext)
	if err != nil {
		return nil, fmt.Errorf("segment: list chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	return chunks, nil
}

func listChunks(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var chunks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ChunkPrefix) && filepath.Ext(name) == ext {
			chunks = append(chunks, filepath.Join(dir, name))
		}
	}
	sort.Strings(chunks)
	return chunks, nil
}
