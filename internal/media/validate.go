package media

import (
	"context"
	"time"
)

// Validator re-decodes a chunk through ffmpeg's null muxer to detect
// corruption before backend cost is spent on it.
type Validator struct {
	ffmpeg  string
	runner  CommandRunner
	timeout time.Duration
}

// NewValidator builds a Validator with the given per-chunk timeout.
func NewValidator(ffmpeg string, runner CommandRunner, timeout time.Duration) *Validator {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if runner == nil {
		runner = NewRunner()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Validator{ffmpeg: ffmpeg, runner: runner, timeout: timeout}
}

// Validate decodes the chunk without producing output. A nil return
// means the chunk decoded cleanly end to end.
func (v *Validator) Validate(ctx context.Context, chunkPath string) error {
	runCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-v", "error",
		"-i", chunkPath,
		"-f", "null",
		"-",
	}
	result, err := v.runner.Run(runCtx, v.ffmpeg, args...)
	if err != nil {
		return toolError(runCtx, "ffmpeg validate", result, err)
	}
	return nil
}
