package backend

import (
	"errors"
	"log/slog"

	"scribe/internal/logging"
)

// ErrNoBackend is returned when neither backend family is configured.
var ErrNoBackend = errors.New("no transcription backend is configured")

// Selector resolves the backend for a job and supplies the fallback
// target for per-chunk cross-backend retries.
type Selector struct {
	primary            Transcriber
	secondary          Transcriber
	converterAvailable bool
	logger             *slog.Logger
}

// NewSelector builds a Selector. Either transcriber may be nil when its
// backend is unconfigured. converterAvailable reports whether the
// external WAV conversion tool exists; without it the secondary family
// cannot be used.
func NewSelector(primary, secondary Transcriber, converterAvailable bool, logger *slog.Logger) *Selector {
	return &Selector{
		primary:            primary,
		secondary:          secondary,
		converterAvailable: converterAvailable,
		logger:             logging.NewComponentLogger(logger, "backend-selector"),
	}
}

// Resolve picks the backend for the requested model name. A secondary
// request without conversion tooling is substituted with the primary
// backend rather than failing the job outright; the substitution is
// logged. Resolve fails only when nothing usable is configured.
func (s *Selector) Resolve(model string) (Transcriber, error) {
	requested := KindForModel(model)

	switch requested {
	case KindSecondary:
		if s.usableSecondary() {
			return s.secondary, nil
		}
		if s.primary != nil {
			s.logger.Warn("substituting primary backend for secondary request",
				logging.String("model", model),
				logging.String("reason", s.secondaryUnavailableReason()),
			)
			return s.primary, nil
		}
	case KindPrimary, KindUnknown:
		if s.primary != nil {
			return s.primary, nil
		}
		if s.usableSecondary() {
			s.logger.Warn("primary backend unavailable, using secondary",
				logging.String("model", model))
			return s.secondary, nil
		}
	}
	return nil, ErrNoBackend
}

// Alternate returns the other backend family for a one-shot fallback
// attempt, or nil when no usable alternate exists.
func (s *Selector) Alternate(active Transcriber) Transcriber {
	if active == nil {
		return nil
	}
	switch active.Kind() {
	case KindPrimary:
		if s.usableSecondary() {
			return s.secondary
		}
	case KindSecondary:
		return s.primary
	}
	return nil
}

func (s *Selector) usableSecondary() bool {
	return s.secondary != nil && s.converterAvailable
}

func (s *Selector) secondaryUnavailableReason() string {
	if s.secondary == nil {
		return "secondary backend not configured"
	}
	return "conversion tool unavailable"
}
