package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"feedtriage/internal/domain"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClassifier calls the Google GenAI API with the same instruction and
// response contract as the other providers.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

func (c *GeminiClassifier) Classify(ctx context.Context, batch []domain.FeedRecord) ([]domain.ClassificationResult, error) {
	instruction, err := BuildInstruction(batch)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(instruction), nil)
	if err != nil {
		return nil, &ToolInvocationError{Err: fmt.Errorf("gemini generate failed: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &ToolResponseError{Err: errors.New("no candidates in Gemini response")}
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return ParseItems(text.String())
}
