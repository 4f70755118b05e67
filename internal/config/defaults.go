package config

const (
	defaultWorkspaceDir = "~/.local/share/scribe/workspace"
	defaultOutputDir    = "~/transcripts"
	defaultLogDir       = "~/.local/share/scribe/logs"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultChunkSeconds      = 300
	defaultWorkers           = 4
	defaultMaxRetries        = 2
	defaultRetryDelaySeconds = 5
	defaultHeartbeatSeconds  = 5
	defaultSegmentOverhead   = 60
	defaultValidateTimeout   = 30
	defaultMinFreeWorkspace  = 1
	defaultLedgerRetention   = 60
	defaultBackendTimeout    = 300
	defaultConvertTimeout    = 120
	defaultGeminiModel       = "gemini-2.5-flash"
	defaultWhisperModel      = "whisper-1"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Pipeline: Pipeline{
			ChunkSeconds:           defaultChunkSeconds,
			Workers:                defaultWorkers,
			MaxRetries:             defaultMaxRetries,
			RetryDelaySeconds:      defaultRetryDelaySeconds,
			HeartbeatSeconds:       defaultHeartbeatSeconds,
			SegmentOverheadSeconds: defaultSegmentOverhead,
			ValidateTimeoutSeconds: defaultValidateTimeout,
			MinFreeWorkspaceGiB:    defaultMinFreeWorkspace,
			LedgerRetentionDays:    defaultLedgerRetention,
			BackendTimeoutSeconds:  defaultBackendTimeout,
			ConvertTimeoutSeconds:  defaultConvertTimeout,
			DefaultModel:           defaultGeminiModel,
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Gemini: Gemini{
			Model: defaultGeminiModel,
		},
		Whisper: Whisper{
			Model: defaultWhisperModel,
		},
	}
}
