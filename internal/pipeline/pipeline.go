package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"scribe/internal/backend"
	"scribe/internal/config"
	"scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/media"
	"scribe/internal/metrics"
	"scribe/internal/workspace"
)

// Pipeline drives one audio file through segmenting, validation,
// parallel transcription, and assembly. It is safe for sequential
// reuse; each Run owns its workspace exclusively.
type Pipeline struct {
	cfg       *config.Config
	segmenter *media.Segmenter
	validator *media.Validator
	probe     *media.Probe
	selector  *backend.Selector
	sink      metrics.Sink
	logger    *slog.Logger

	workers           int
	backendTimeout    time.Duration
	heartbeatInterval time.Duration
	beat              BeatFunc
	runnerOverride    media.CommandRunner
}

// Option adjusts a Pipeline during construction.
type Option func(*Pipeline)

// WithLogger sets the base logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithSink sets the telemetry sink. Defaults to a discard sink.
func WithSink(sink metrics.Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithRunner replaces the command runner used for the external tools.
// Tests inject a fake here instead of stubbing binaries on PATH.
func WithRunner(runner media.CommandRunner) Option {
	return func(p *Pipeline) { p.runnerOverride = runner }
}

// WithBeat sets the heartbeat callback invoked at each interval while
// chunks are in flight.
func WithBeat(beat BeatFunc) Option {
	return func(p *Pipeline) { p.beat = beat }
}

// New builds a pipeline from the resolved configuration and the backend
// selector. The selector is constructed by the caller because backend
// clients need credentials and network setup the pipeline does not own.
func New(cfg *config.Config, selector *backend.Selector, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:               cfg,
		selector:          selector,
		sink:              metrics.Nop{},
		workers:           cfg.Pipeline.Workers,
		backendTimeout:    time.Duration(cfg.Pipeline.BackendTimeoutSeconds) * time.Second,
		heartbeatInterval: time.Duration(cfg.Pipeline.HeartbeatSeconds) * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers <= 0 {
		p.workers = 4
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")

	runner := p.runnerOverride
	if runner == nil {
		runner = media.NewRunner()
	}
	overhead := time.Duration(cfg.Pipeline.SegmentOverheadSeconds) * time.Second
	p.segmenter = media.NewSegmenter(cfg.Tools.FFmpeg, runner, overhead)
	p.validator = media.NewValidator(cfg.Tools.FFmpeg, runner, time.Duration(cfg.Pipeline.ValidateTimeoutSeconds)*time.Second)
	if cfg.Tools.FFprobe != "" {
		p.probe = media.NewProbe(cfg.Tools.FFprobe, runner, 30*time.Second)
	}
	return p
}

// Run executes one job end to end. The workspace is removed on every
// exit path, success and failure alike. A non-nil error always comes
// with a Result whose Status is StatusError; partially transcribed
// chunks survive in Result.PartialResults.
func (p *Pipeline) Run(ctx context.Context, job Job) (Result, error) {
	job, err := p.prepare(job)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, err
	}

	ctx = logging.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, p.logger)

	// Backend resolution happens before any disk work so a
	// misconfigured system fails fast.
	active, err := p.selector.Resolve(job.Model)
	if err != nil {
		err = wrapStage(ErrConfiguration, "resolving backend", err)
		return Result{Status: StatusError, Message: err.Error()}, err
	}
	logger.Info("backend resolved",
		logging.String(logging.FieldBackend, active.Name()),
		logging.String("model", job.Model),
	)

	ws, err := workspace.Create(p.workspaceRoot(job), job.ID)
	if err != nil {
		err = wrapStage(ErrProcessing, "creating workspace", err)
		return Result{Status: StatusError, Message: err.Error()}, err
	}
	defer func() {
		if cleanupErr := ws.Cleanup(); cleanupErr != nil {
			logger.Warn("workspace cleanup failed", logging.Error(cleanupErr))
		}
	}()

	input, err := p.materializeInput(job, ws.Dir())
	if err != nil {
		err = wrapStage(ErrConfiguration, "preparing input", err)
		return p.fail(ctx, job.ID, err)
	}

	p.record(ctx, metrics.Event{Type: metrics.EventJobStarted, JobID: job.ID, Detail: filepath.Base(input)})
	logger.Info("job started",
		logging.String("input", input),
		logging.Int("chunk_seconds", job.ChunkSeconds),
		logging.Int("workers", p.workers),
	)

	p.logExpectedChunks(ctx, logger, input, job.ChunkSeconds)

	chunks, err := p.segment(ctx, job, input, ws.Dir())
	if err != nil {
		return p.fail(ctx, job.ID, err)
	}

	valid, err := p.validate(ctx, job.ID, chunks)
	if err != nil {
		return p.fail(ctx, job.ID, err)
	}

	lang := language.Normalize(job.Language)

	hb := NewHeartbeat(p.heartbeatInterval, p.beat, p.logger)
	hb.Start(ctx)
	defer hb.Stop()

	results := p.transcribeChunks(ctx, job.ID, valid, active, lang)
	hb.Stop()

	result := assemble(basenames(valid), results)
	if result.Status != StatusOK {
		err = wrapStage(ErrTranscription, result.Message, nil)
		p.record(ctx, metrics.Event{
			Type:   metrics.EventJobFailed,
			JobID:  job.ID,
			Detail: result.Message,
			Count:  len(valid),
		})
		logger.Error("job failed", logging.Error(err))
		return result, err
	}

	p.record(ctx, metrics.Event{
		Type:  metrics.EventJobCompleted,
		JobID: job.ID,
		Count: len(valid),
	})
	logger.Info("job completed",
		logging.Int("chunks", len(valid)),
		logging.Int("transcript_chars", len(result.Transcript)),
	)
	return result, nil
}

// prepare fills job defaults from configuration and rejects jobs that
// cannot name an input.
func (p *Pipeline) prepare(job Job) (Job, error) {
	if job.InputPath == "" && len(job.InputBytes) == 0 {
		return job, wrapStage(ErrConfiguration, "no input supplied", nil)
	}
	if len(job.InputBytes) > 0 && job.InputName == "" {
		return job, wrapStage(ErrConfiguration, "input bytes need a file name", nil)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.ChunkSeconds <= 0 {
		job.ChunkSeconds = p.cfg.Pipeline.ChunkSeconds
	}
	if job.MaxRetries < 0 {
		job.MaxRetries = 0
	}
	if job.RetryDelay <= 0 {
		job.RetryDelay = time.Duration(p.cfg.Pipeline.RetryDelaySeconds) * time.Second
	}
	if job.Model == "" {
		job.Model = p.cfg.Pipeline.DefaultModel
	}
	if job.Language == "" {
		job.Language = p.cfg.Pipeline.DefaultLanguage
	}
	return job, nil
}

func (p *Pipeline) workspaceRoot(job Job) string {
	if job.OutputDir != "" {
		return job.OutputDir
	}
	return p.cfg.Paths.WorkspaceDir
}

// materializeInput resolves the job's audio to a readable path inside
// or outside the workspace.
func (p *Pipeline) materializeInput(job Job, dir string) (string, error) {
	if job.InputPath != "" {
		info, err := os.Stat(job.InputPath)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("input is a directory: %s", job.InputPath)
		}
		return job.InputPath, nil
	}

	path := filepath.Join(dir, filepath.Base(job.InputName))
	if err := os.WriteFile(path, job.InputBytes, 0o644); err != nil {
		return "", fmt.Errorf("write input: %w", err)
	}
	return path, nil
}

// logExpectedChunks probes the input duration when ffprobe is around,
// for operator-facing progress context. Probe failures are logged and
// ignored; duration is advisory only.
func (p *Pipeline) logExpectedChunks(ctx context.Context, logger *slog.Logger, input string, chunkSeconds int) {
	if p.probe == nil {
		return
	}
	dur, err := p.probe.Duration(ctx, input)
	if err != nil {
		logger.Debug("duration probe failed", logging.Error(err))
		return
	}
	expected := int(math.Ceil(dur.Seconds() / float64(chunkSeconds)))
	if expected < 1 {
		expected = 1
	}
	logger.Info("input probed",
		logging.Duration("duration", dur),
		logging.Int("expected_chunks", expected),
	)
}

// stageLogger annotates the context with the stage name and derives a
// logger carrying the context's job and stage fields.
func (p *Pipeline) stageLogger(ctx context.Context, stage string) (context.Context, *slog.Logger) {
	ctx = logging.WithStage(ctx, stage)
	return ctx, logging.WithContext(ctx, p.logger)
}

// segment runs the bounded-retry segmenting stage and returns the
// created chunks in ordinal order.
func (p *Pipeline) segment(ctx context.Context, job Job, input, dir string) ([]Chunk, error) {
	ctx, logger := p.stageLogger(ctx, "segmenting")
	policy := RetryPolicy{MaxRetries: job.MaxRetries, Delay: job.RetryDelay}

	var paths []string
	err := policy.Do(ctx, func(ctx context.Context) error {
		var segErr error
		paths, segErr = p.segmenter.Segment(ctx, input, dir, job.ChunkSeconds)
		return segErr
	}, func(attempt int, err error) {
		logger.Warn("segmenting retry",
			logging.Int("attempt", attempt),
			logging.Error(err),
		)
		p.record(ctx, metrics.Event{
			Type:   metrics.EventSegmentRetry,
			JobID:  job.ID,
			Detail: err.Error(),
			Count:  attempt,
		})
	})
	if err != nil {
		return nil, wrapStage(ErrProcessing, "segmenting input", err)
	}

	chunks := make([]Chunk, len(paths))
	for i, path := range paths {
		chunks[i] = Chunk{Index: i, Path: path}
	}
	logger.Info("input segmented", logging.Int("chunks", len(chunks)))
	return chunks, nil
}

// validate decode-checks every chunk independently and returns the
// survivors. Invalid chunks are logged and excluded; only a fully
// invalid set fails the job.
func (p *Pipeline) validate(ctx context.Context, jobID string, chunks []Chunk) ([]Chunk, error) {
	ctx, logger := p.stageLogger(ctx, "validation")
	valid := make([]Chunk, 0, len(chunks))
	for i := range chunks {
		if err := p.validator.Validate(ctx, chunks[i].Path); err != nil {
			chunks[i].Status = ChunkInvalid
			logger.Warn("chunk failed validation",
				logging.String(logging.FieldChunk, chunks[i].Basename()),
				logging.Error(err),
			)
			p.record(ctx, metrics.Event{
				Type:   metrics.EventChunkInvalid,
				JobID:  jobID,
				Chunk:  chunks[i].Basename(),
				Detail: err.Error(),
			})
			continue
		}
		chunks[i].Status = ChunkValid
		valid = append(valid, chunks[i])
	}
	if len(valid) == 0 {
		return nil, wrapStage(ErrValidation, "all chunks failed validation", nil)
	}
	logger.Info("chunks validated",
		logging.Int("valid", len(valid)),
		logging.Int("invalid", len(chunks)-len(valid)),
	)
	return valid, nil
}

// fail records the terminal failure event and shapes the error result.
func (p *Pipeline) fail(ctx context.Context, jobID string, err error) (Result, error) {
	p.record(ctx, metrics.Event{
		Type:   metrics.EventJobFailed,
		JobID:  jobID,
		Detail: err.Error(),
	})
	p.logger.Error("job failed",
		logging.String(logging.FieldJobID, jobID),
		logging.Error(err),
	)
	return Result{Status: StatusError, Message: err.Error()}, err
}

// record forwards telemetry and downgrades sink failures to a warning;
// a broken ledger never fails a transcription.
func (p *Pipeline) record(ctx context.Context, event metrics.Event) {
	if err := p.sink.Record(ctx, event); err != nil {
		p.logger.Warn("metrics sink rejected event",
			logging.String("event", string(event.Type)),
			logging.Error(err),
		)
	}
}

func basenames(chunks []Chunk) []string {
	names := make([]string, len(chunks))
	for i, c := range chunks {
		names[i] = c.Basename()
	}
	return names
}
