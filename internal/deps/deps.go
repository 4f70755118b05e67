// Package deps reports the availability of the external binaries scribe
// shells out to for segmenting, validation, and format conversion.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"scribe/internal/config"
)

// Requirement defines an external dependency scribe relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries for the configured tools.
// FFprobe is optional: without it scribe skips the duration probe but
// can still segment and transcribe.
func Requirements(cfg *config.Config) []Requirement {
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	if cfg != nil {
		if cfg.Tools.FFmpeg != "" {
			ffmpeg = cfg.Tools.FFmpeg
		}
		if cfg.Tools.FFprobe != "" {
			ffprobe = cfg.Tools.FFprobe
		}
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpeg, Description: "Audio segmenting, chunk validation, and WAV conversion"},
		{Name: "FFprobe", Command: ffprobe, Description: "Input duration probe", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// FFmpegAvailable reports whether the configured ffmpeg binary resolves.
func FFmpegAvailable(cfg *config.Config) bool {
	ffmpeg := "ffmpeg"
	if cfg != nil && cfg.Tools.FFmpeg != "" {
		ffmpeg = cfg.Tools.FFmpeg
	}
	_, err := exec.LookPath(ffmpeg)
	return err == nil
}
