package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"feedtriage/internal/domain"
)

// maxContentChars caps how much post content goes into the payload. Hard
// cutoff, not a word boundary: the external tool has input-size limits.
const maxContentChars = 800

type payloadItem struct {
	ID      any    `json:"id"`
	Source  string `json:"source"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// BuildInstruction renders the full instruction text for one batch: the
// label contract plus the items to classify as a JSON block.
func BuildInstruction(batch []domain.FeedRecord) (string, error) {
	items := make([]payloadItem, 0, len(batch))
	for _, record := range batch {
		content := record.Content()
		if len(content) > maxContentChars {
			content = content[:maxContentChars]
		}
		items = append(items, payloadItem{
			ID:      record["id"],
			Source:  record.Source(),
			Author:  record.Author(),
			Content: content,
		})
	}
	encoded, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding batch payload: %w", err)
	}

	var b strings.Builder
	b.WriteString("You classify social media feed items about a software product.\n")
	b.WriteString("Assign each item exactly one label from:\n")
	for _, label := range domain.ValidLabels() {
		b.WriteString("- " + label + "\n")
	}
	b.WriteString(`
Also set confidence between 0 and 1 and a short reason.

Respond with JSON only (no markdown):
{"items": [{"id": "abc", "label": "bug", "confidence": 0.91, "reason": "describes a crash"}, ...]}

Items to classify:
`)
	b.Write(encoded)
	return b.String(), nil
}
