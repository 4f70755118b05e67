package backend

import (
	"context"
	"strings"
)

// Kind is the closed set of backend families. The requested model name
// is resolved to a Kind once at job start; nothing downstream branches
// on model name strings.
type Kind int

const (
	KindUnknown Kind = iota
	// KindPrimary is the multimodal generative family; it accepts the
	// chunk's native compressed audio without conversion.
	KindPrimary
	// KindSecondary is the speech-to-text API family; chunks are
	// converted to WAV before submission.
	KindSecondary
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// KindForModel maps a requested model name to its backend family.
// Unrecognized or empty names return KindUnknown and the selector
// falls back to whatever is configured.
func KindForModel(model string) Kind {
	name := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(name, "gemini"):
		return KindPrimary
	case strings.HasPrefix(name, "whisper"):
		return KindSecondary
	default:
		return KindUnknown
	}
}

// Request is one chunk submission to a backend.
type Request struct {
	// Path is the chunk file on disk.
	Path string
	// MIMEType describes the chunk's native format.
	MIMEType string
	// Language is the normalized ISO 639-1 hint, empty for auto-detect.
	Language string
}

// Transcriber is a pluggable transcription backend adapter.
type Transcriber interface {
	Kind() Kind
	Name() string
	Transcribe(ctx context.Context, req Request) (string, error)
}
