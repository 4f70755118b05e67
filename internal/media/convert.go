package media

import (
	"context"
	"time"
)

// Converter transcodes a chunk to mono 16kHz PCM WAV for backends that
// cannot accept the input's native compressed format.
type Converter struct {
	ffmpeg  string
	runner  CommandRunner
	timeout time.Duration
}

// NewConverter builds a Converter with the given per-chunk timeout.
func NewConverter(ffmpeg string, runner CommandRunner, timeout time.Duration) *Converter {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if runner == nil {
		runner = NewRunner()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Converter{ffmpeg: ffmpeg, runner: runner, timeout: timeout}
}

// ToWAV converts src to a mono 16kHz WAV at dest.
func (c *Converter) ToWAV(ctx context.Context, src, dest string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	result, err := c.runner.Run(runCtx, c.ffmpeg, args...)
	if err != nil {
		return toolError(runCtx, "ffmpeg convert", result, err)
	}
	return nil
}
