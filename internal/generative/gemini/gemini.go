// Package gemini is a generative backend on the Gemini API with native
// JSON-schema constrained output.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/api/option"
)

var errNoCandidates = errors.New("gemini returned no candidates")

type Backend struct {
	client    *genai.Client
	modelName string
}

func NewBackend(ctx context.Context, apiKey, modelName string) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Backend{client: client, modelName: modelName}, nil
}

func (b *Backend) Close() error {
	return b.client.Close()
}

// GenerateStructured configures a fresh model per call so concurrent
// requests with different schemas never share generation settings.
func (b *Backend) GenerateStructured(ctx context.Context, prompt string, schema *jsonschema.Schema) ([]byte, error) {
	model := b.client.GenerativeModel(b.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = ToGenaiSchema(schema)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errNoCandidates
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if sb.Len() == 0 {
		return nil, errNoCandidates
	}
	return []byte(sb.String()), nil
}
