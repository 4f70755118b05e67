// Package preflight runs the fail-fast checks performed before any
// transcription work starts: external tool availability, backend
// credential presence, and workspace free space.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"scribe/internal/config"
	"scribe/internal/deps"
)

// Result captures the outcome of one preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckTools verifies the required external binaries resolve on PATH.
func CheckTools(cfg *config.Config) []Result {
	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		} else if status.Optional {
			result.Passed = true
			result.Detail = status.Detail + " (optional)"
		}
		results = append(results, result)
	}
	return results
}

// CheckBackends verifies at least one transcription backend has
// credentials configured.
func CheckBackends(cfg *config.Config) Result {
	const name = "Backends"
	gemini := strings.TrimSpace(cfg.Gemini.APIKey) != ""
	whisper := strings.TrimSpace(cfg.Whisper.APIKey) != ""

	switch {
	case gemini && whisper:
		return Result{Name: name, Passed: true, Detail: "gemini + whisper configured"}
	case gemini:
		return Result{Name: name, Passed: true, Detail: "gemini configured"}
	case whisper:
		return Result{Name: name, Passed: true, Detail: "whisper configured"}
	default:
		return Result{Name: name, Detail: "no backend API key configured"}
	}
}

// CheckWorkspace verifies the workspace directory exists and has at
// least minFreeGiB of free space for chunk files.
func CheckWorkspace(cfg *config.Config, minFreeGiB int) Result {
	const name = "Workspace"
	dir := cfg.Paths.WorkspaceDir
	if dir == "" {
		return Result{Name: name, Detail: "workspace_dir not configured"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("create workspace: %v", err)}
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs: %v", err)}
	}
	freeGiB := float64(stat.Bavail) * float64(stat.Bsize) / (1 << 30)
	if minFreeGiB > 0 && freeGiB < float64(minFreeGiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%.1f GiB free, need %d GiB", freeGiB, minFreeGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free", freeGiB)}
}

// Run executes every preflight check and reports whether all passed.
func Run(cfg *config.Config) ([]Result, bool) {
	results := CheckTools(cfg)
	results = append(results, CheckBackends(cfg), CheckWorkspace(cfg, cfg.Pipeline.MinFreeWorkspaceGiB))

	allPassed := true
	for _, result := range results {
		if !result.Passed {
			allPassed = false
		}
	}
	return results, allPassed
}
