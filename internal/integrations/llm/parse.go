package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"feedtriage/internal/domain"
)

// CLI tools decorate their output with color codes; both the envelope and
// the extracted result text get stripped before parsing.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type rawItem struct {
	ID         json.RawMessage `json:"id"`
	Label      string          `json:"label"`
	Confidence json.RawMessage `json:"confidence"`
	Reason     string          `json:"reason"`
}

// ParseItems parses the {"items": [...]} document a classifier emits.
// Markdown fences and ANSI escapes are tolerated; anything beyond that is a
// response error.
func ParseItems(text string) ([]domain.ClassificationResult, error) {
	text = strings.TrimSpace(stripANSI(text))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ToolResponseError{Err: errors.New("empty result text")}
	}

	var doc struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ToolResponseError{Output: text, Err: fmt.Errorf("parsing result text: %w", err)}
	}
	if len(doc.Items) == 0 || string(doc.Items) == "null" {
		return nil, &MalformedResponseError{Reason: "response has no items array"}
	}

	var raw []rawItem
	if err := json.Unmarshal(doc.Items, &raw); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("items is not an array: %v", err)}
	}

	results := make([]domain.ClassificationResult, 0, len(raw))
	for _, item := range raw {
		results = append(results, domain.ClassificationResult{
			ID:         idKey(item.ID),
			Label:      item.Label,
			Confidence: item.Confidence,
			Reason:     item.Reason,
		})
	}
	return results, nil
}

// idKey normalizes a string-or-number id into the merge key form used by
// FeedRecord.ID.
func idKey(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
