package llm

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"feedtriage/internal/domain"
)

// AnthropicClassifier calls the Messages API directly instead of shelling
// out to the CLI tool. Same instruction, same response contract.
type AnthropicClassifier struct {
	APIKey string
	Model  string
}

func (c *AnthropicClassifier) Classify(ctx context.Context, batch []domain.FeedRecord) ([]domain.ClassificationResult, error) {
	instruction, err := BuildInstruction(batch)
	if err != nil {
		return nil, err
	}

	model := c.Model
	if model == "" {
		model = DefaultModel
	}

	client := anthropic.NewClient(option.WithAPIKey(c.APIKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(instruction)),
		},
	})
	if err != nil {
		return nil, &ToolInvocationError{Err: fmt.Errorf("Anthropic API error: %w", err)}
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("classify anthropic model=%s response_size=%d tokens_in=%d tokens_out=%d",
				model, len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return ParseItems(block.Text)
		}
	}
	return nil, &ToolResponseError{Err: errors.New("no text content in Anthropic response")}
}
