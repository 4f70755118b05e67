package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scribe/internal/backend"
	"scribe/internal/backend/gemini"
	"scribe/internal/backend/whisperapi"
	"scribe/internal/config"
	"scribe/internal/deps"
	"scribe/internal/ledger"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/metrics"
	"scribe/internal/pipeline"
	"scribe/internal/preflight"
)

// jobManifest is the YAML shape accepted by --job, for scripted
// submissions that outgrow flags.
type jobManifest struct {
	Input        string `yaml:"input"`
	OutputDir    string `yaml:"output_dir"`
	ChunkSeconds int    `yaml:"chunk_seconds"`
	Language     string `yaml:"language"`
	Model        string `yaml:"model"`
	// MaxRetries is a pointer so an explicit zero in the manifest is
	// distinguishable from the key being absent.
	MaxRetries        *int `yaml:"max_retries"`
	RetryDelaySeconds int  `yaml:"retry_delay_seconds"`
	Workers           int  `yaml:"workers"`
}

func newTranscribeCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		outputDir    string
		chunkSeconds int
		languageFlag string
		modelFlag    string
		maxRetries   int
		retryDelay   int
		workers      int
		jobFile      string
		jsonOutput   bool
		skipChecks   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe [audio-file]",
		Short: "Segment an audio file and transcribe the chunks in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}

			job := pipeline.Job{
				ChunkSeconds: chunkSeconds,
				Language:     languageFlag,
				Model:        modelFlag,
				RetryDelay:   time.Duration(retryDelay) * time.Second,
			}
			if len(args) == 1 {
				job.InputPath = args[0]
			}

			transcriptDir := cfg.Paths.OutputDir
			if outputDir != "" {
				transcriptDir = outputDir
			}

			var manifest jobManifest
			if jobFile != "" {
				manifest, err = loadJobManifest(jobFile)
				if err != nil {
					return err
				}
				applyManifest(&job, manifest)
				if manifest.OutputDir != "" {
					transcriptDir = manifest.OutputDir
				}
				if manifest.Workers > 0 && workers == 0 {
					workers = manifest.Workers
				}
			}
			if job.InputPath == "" {
				return fmt.Errorf("no input: pass an audio file argument or set input in --job manifest")
			}
			job.MaxRetries = resolveMaxRetries(
				cmd.Flags().Changed("max-retries"), maxRetries,
				manifest.MaxRetries, cfg.Pipeline.MaxRetries)
			if workers > 0 {
				cfg.Pipeline.Workers = workers
			}

			if !skipChecks {
				if err := runPreflight(cfg); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			selector, err := buildSelector(ctx, cfg, logger)
			if err != nil {
				return err
			}

			sink, closeSink := openSink(cfg, logger)
			defer closeSink()

			p := pipeline.New(cfg, selector,
				pipeline.WithLogger(logger),
				pipeline.WithSink(sink),
			)

			result, runErr := p.Run(ctx, job)

			if jsonOutput {
				encoded, encErr := json.MarshalIndent(result, "", "  ")
				if encErr != nil {
					return encErr
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			}

			if result.Status == pipeline.StatusOK {
				path, writeErr := writeTranscript(transcriptDir, job.InputPath, result.Transcript)
				if writeErr != nil {
					return writeErr
				}
				if !jsonOutput {
					fmt.Fprintf(cmd.OutOrStdout(), "Transcript written to %s (%d chunks)\n", path, len(result.Chunks))
				}
				return nil
			}

			if !jsonOutput && len(result.PartialResults) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d chunks transcribed before failure; partial results:\n",
					len(result.PartialResults), len(result.Chunks))
				for _, partial := range result.PartialResults {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", partial.Chunk, partial.Text)
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the transcript file")
	cmd.Flags().IntVar(&chunkSeconds, "chunk-seconds", 0, "Chunk duration in seconds")
	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language hint (code or English name)")
	cmd.Flags().StringVarP(&modelFlag, "model", "m", "", "Backend model name")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "Additional segmenting attempts after the first")
	cmd.Flags().IntVar(&retryDelay, "retry-delay", 0, "Seconds between segmenting attempts")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel transcription workers")
	cmd.Flags().StringVar(&jobFile, "job", "", "YAML job manifest path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full result as JSON")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Skip preflight checks")
	return cmd
}

func loadJobManifest(path string) (jobManifest, error) {
	var manifest jobManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, fmt.Errorf("read job manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("parse job manifest: %w", err)
	}
	return manifest, nil
}

// applyManifest fills job fields the flags left unset; flags win over
// the manifest.
func applyManifest(job *pipeline.Job, manifest jobManifest) {
	if job.InputPath == "" {
		job.InputPath = manifest.Input
	}
	if job.ChunkSeconds == 0 {
		job.ChunkSeconds = manifest.ChunkSeconds
	}
	if job.Language == "" {
		job.Language = manifest.Language
	}
	if job.Model == "" {
		job.Model = manifest.Model
	}
	if job.RetryDelay == 0 && manifest.RetryDelaySeconds > 0 {
		job.RetryDelay = time.Duration(manifest.RetryDelaySeconds) * time.Second
	}
}

// resolveMaxRetries picks the retry budget: an explicitly set flag wins,
// then the manifest, then the configured default. Explicit zero is a
// valid request for a single segmenting attempt.
func resolveMaxRetries(flagChanged bool, flagValue int, manifestValue *int, configured int) int {
	switch {
	case flagChanged:
		return flagValue
	case manifestValue != nil:
		return *manifestValue
	default:
		return configured
	}
}

func runPreflight(cfg *config.Config) error {
	results, ok := preflight.Run(cfg)
	if ok {
		return nil
	}
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	return fmt.Errorf("preflight failed: %s (run `scribe deps` for details)", strings.Join(failed, "; "))
}

// buildSelector constructs whichever backend adapters have credentials
// and hands them to the selector; the selector handles absence.
func buildSelector(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend.Selector, error) {
	var primary, secondary backend.Transcriber

	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		svc, err := gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("initialize gemini backend: %w", err)
		}
		primary = svc
	}

	var converter *media.Converter
	if deps.FFmpegAvailable(cfg) {
		converter = media.NewConverter(cfg.Tools.FFmpeg, nil,
			time.Duration(cfg.Pipeline.ConvertTimeoutSeconds)*time.Second)
	}

	if strings.TrimSpace(cfg.Whisper.APIKey) != "" {
		svc, err := whisperapi.New(whisperapi.Config{
			APIKey:  cfg.Whisper.APIKey,
			BaseURL: cfg.Whisper.BaseURL,
			Model:   cfg.Whisper.Model,
		}, converter)
		if err != nil {
			return nil, fmt.Errorf("initialize whisper backend: %w", err)
		}
		secondary = svc
	}

	return backend.NewSelector(primary, secondary, converter != nil, logger), nil
}

// openSink opens the job ledger as the telemetry sink. Ledger failures
// degrade to a no-op sink; transcription does not depend on history.
func openSink(cfg *config.Config, logger *slog.Logger) (metrics.Sink, func()) {
	store, err := ledger.Open(cfg)
	if err != nil {
		logger.Warn("job ledger unavailable", logging.Error(err))
		return metrics.Nop{}, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close job ledger", logging.Error(err))
		}
	}
}

func writeTranscript(dir, inputPath, transcript string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	path := filepath.Join(dir, base+".txt")
	if err := os.WriteFile(path, []byte(transcript+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
