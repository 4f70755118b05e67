// Package gemini adapts the Gemini multimodal API as the primary
// transcription backend. Chunks are submitted as inline audio bytes in
// their native compressed format, so no conversion step is needed.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"google.golang.org/genai"

	"scribe/internal/backend"
	"scribe/internal/language"
)

const serviceName = "gemini"

// Config carries the settings needed to reach the Gemini API.
type Config struct {
	APIKey string
	Model  string
}

// Service implements backend.Transcriber against the Gemini API.
type Service struct {
	client *genai.Client
	model  string
}

// New builds the Gemini transcription service. It fails when the API
// key is missing so callers can detect an unconfigured backend early.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Service{client: client, model: model}, nil
}

func (s *Service) Kind() backend.Kind { return backend.KindPrimary }

func (s *Service) Name() string { return serviceName }

// Transcribe submits the chunk's bytes inline and returns the plain
// transcript text.
func (s *Service) Transcribe(ctx context.Context, req backend.Request) (string, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return "", &backend.Error{Kind: backend.ErrorFormat, Backend: serviceName, Err: fmt.Errorf("read chunk: %w", err)}
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, req.MIMEType),
		genai.NewPartFromText(transcribePrompt(req.Language)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func transcribePrompt(lang string) string {
	if lang == "" {
		return "Transcribe this audio verbatim. Return only the spoken words as plain text, without timestamps, speaker labels, or commentary."
	}
	return fmt.Sprintf(
		"Transcribe this %s audio verbatim. Return only the spoken words as plain text, without timestamps, speaker labels, or commentary.",
		language.DisplayName(lang),
	)
}

func classify(err error) error {
	kind := backend.ErrorTransient
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusBadRequest:
			// INVALID_ARGUMENT covers unsupported or corrupt audio payloads.
			kind = backend.ErrorFormat
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			kind = backend.ErrorAuth
		case apiErr.Code == http.StatusTooManyRequests:
			kind = backend.ErrorQuota
		}
	}
	return &backend.Error{Kind: kind, Backend: serviceName, Err: err}
}
