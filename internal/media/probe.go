package media

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Probe reads container metadata from an input file via ffprobe.
type Probe struct {
	ffprobe string
	runner  CommandRunner
	timeout time.Duration
}

// NewProbe builds a Probe.
func NewProbe(ffprobe string, runner CommandRunner, timeout time.Duration) *Probe {
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if runner == nil {
		runner = NewRunner()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Probe{ffprobe: ffprobe, runner: runner, timeout: timeout}
}

// Duration returns the input's total duration.
func (p *Probe) Duration(ctx context.Context, path string) (time.Duration, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	result, err := p.runner.Run(runCtx, p.ffprobe, args...)
	if err != nil {
		return 0, toolError(runCtx, "ffprobe", result, err)
	}

	raw := strings.TrimSpace(result.Stdout)
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", raw, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
