package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"integration-hub/internal/domain/repository"
	"integration-hub/internal/interface/relay"
	"integration-hub/pkg/logger"
)

// GeminiRepository generates text with the Gemini generateContent API
type GeminiRepository struct {
	client  *relay.Client
	logger  logger.Logger
	baseURL string
	model   string
	apiKey  string
}

// NewGeminiRepository creates a new Gemini repository
func NewGeminiRepository(client *relay.Client, logger logger.Logger, baseURL, model, apiKey string) repository.GeneratorRepository {
	return &GeminiRepository{
		client:  client,
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Enabled reports whether an API key is configured
func (r *GeminiRepository) Enabled() bool {
	return r.apiKey != ""
}

// Generate returns the text of the first candidate for prompt
func (r *GeminiRepository) Generate(ctx context.Context, prompt string) (string, error) {
	if !r.Enabled() {
		return "", fmt.Errorf("gemini: %w", relay.ErrNotConfigured)
	}

	body := map[string]interface{}{
		"contents": []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	header := http.Header{}
	header.Set("x-goog-api-key", r.apiKey)

	var response geminiResponse
	err := r.client.DoJSON(ctx, relay.Request{
		Operation: "generate_content",
		Method:    http.MethodPost,
		URL:       fmt.Sprintf("%s/models/%s:generateContent", r.baseURL, url.PathEscape(r.model)),
		Header:    header,
		Body:      body,
	}, &response)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(response.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
