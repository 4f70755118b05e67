package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks configuration values that cannot be defaulted away.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		problems = append(problems, "paths.workspace_dir must be set")
	}
	if c.Pipeline.ChunkSeconds <= 0 {
		problems = append(problems, "pipeline.chunk_seconds must be greater than zero")
	}
	if c.Pipeline.Workers <= 0 {
		problems = append(problems, "pipeline.workers must be greater than zero")
	}
	if c.Pipeline.MaxRetries < 0 {
		problems = append(problems, "pipeline.max_retries must not be negative")
	}
	if c.Pipeline.RetryDelaySeconds < 0 {
		problems = append(problems, "pipeline.retry_delay_seconds must not be negative")
	}
	if c.Pipeline.HeartbeatSeconds <= 0 {
		problems = append(problems, "pipeline.heartbeat_seconds must be greater than zero")
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
