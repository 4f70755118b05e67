// Package whisperapi adapts the OpenAI-compatible Whisper transcription
// API as the secondary backend. The API expects PCM-friendly input, so
// each chunk is converted to mono 16kHz WAV before submission; the WAV
// is removed once the request completes.
package whisperapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"scribe/internal/backend"
	"scribe/internal/media"
)

const serviceName = "whisper"

// Config carries the settings needed to reach the transcription API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Service implements backend.Transcriber against a Whisper-style API.
type Service struct {
	client    *openai.Client
	model     string
	converter *media.Converter
}

// New builds the Whisper transcription service. The converter performs
// the WAV conversion this family requires.
func New(cfg Config, converter *media.Converter) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("whisper: api key required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = openai.Whisper1
	}
	return &Service{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     model,
		converter: converter,
	}, nil
}

func (s *Service) Kind() backend.Kind { return backend.KindSecondary }

func (s *Service) Name() string { return serviceName }

// Transcribe converts the chunk to WAV and submits it.
func (s *Service) Transcribe(ctx context.Context, req backend.Request) (string, error) {
	if s.converter == nil {
		return "", &backend.Error{
			Kind:    backend.ErrorFormat,
			Backend: serviceName,
			Err:     errors.New("wav conversion tool unavailable"),
		}
	}

	// The target carries a distinct suffix so a chunk that is already
	// WAV is never overwritten by its own conversion; the chunk file
	// itself must survive for a possible cross-backend fallback.
	wavPath := strings.TrimSuffix(req.Path, filepath.Ext(req.Path)) + ".converted.wav"
	if err := s.converter.ToWAV(ctx, req.Path, wavPath); err != nil {
		return "", &backend.Error{
			Kind:    backend.ErrorFormat,
			Backend: serviceName,
			Err:     fmt.Errorf("convert chunk: %w", err),
		}
	}
	defer os.Remove(wavPath)

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.model,
		FilePath: wavPath,
		Language: req.Language,
	})
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func classify(err error) error {
	kind := backend.ErrorTransient
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusBadRequest, http.StatusUnsupportedMediaType:
			kind = backend.ErrorFormat
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = backend.ErrorAuth
		case http.StatusTooManyRequests:
			kind = backend.ErrorQuota
		}
	}
	return &backend.Error{Kind: kind, Backend: serviceName, Err: err}
}
