package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandResult captures one external command invocation.
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (CommandResult, error)
}

type execRunner struct{}

// NewRunner returns a CommandRunner backed by os/exec.
func NewRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// toolError formats an external tool failure with its stderr verbatim,
// distinguishing deadline expiry from a plain non-zero exit.
func toolError(ctx context.Context, name string, result CommandResult, err error) error {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(result.Stdout)
	}
	if ctx.Err() == context.DeadlineExceeded {
		if detail != "" {
			return fmt.Errorf("%s timed out: %w: %s", name, context.DeadlineExceeded, detail)
		}
		return fmt.Errorf("%s timed out: %w", name, context.DeadlineExceeded)
	}
	if detail != "" {
		return fmt.Errorf("%s: %w: %s", name, err, detail)
	}
	return fmt.Errorf("%s: %w", name, err)
}
