package gemini

import (
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const systemPrompt = `You read Brazilian municipal budget laws (LOA, LDO).
Extract every budget item present in the given pages: programs, actions, goals, revenue and
expense lines with their amounts. Answer with a JSON array only, one object per item, with the
keys "section", "title", "amount" and "text". Answer [] when the pages hold no budget data.`

const userPrompt = `Document type: %s. Extract the budget items of these pages.`

// ErrEmptyResponse is returned when the model answers without any text
var ErrEmptyResponse = errors.New("empty model response")

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Extractor extracts budget items with Gemini on Vertex AI
type Extractor struct {
	client *genai.Client
	model  generator
	logger *slog.Logger
}

// NewExtractor creates the Vertex AI client and configures the model
func NewExtractor(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Extractor, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("gemini project id is required")
	}
	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Extractor{client: client, model: model, logger: logger}, nil
}

// newWithGenerator is used by tests
func newWithGenerator(model generator, logger *slog.Logger) *Extractor {
	return &Extractor{model: model, logger: logger}
}

// Extract sends one batch of pages and counts the extracted items
func (e *Extractor) Extract(ctx context.Context, docType domain.DocumentType, batch []byte) (*domain.ExtractionResult, error) {
	resp, err := e.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: batch},
		genai.Text(fmt.Sprintf(userPrompt, docType)),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		e.logger.Warn("unparsable model response", "error", err, "length", len(raw))
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	return &domain.ExtractionResult{Chunks: len(items)}, nil
}

// Close closes the Vertex AI client
func (e *Extractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(sb.String())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
